package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"ecr/config"
	"ecr/internal/middleware"
	"ecr/internal/service"
	"ecr/pkg/payment"

	"github.com/gin-gonic/gin"
)

const maxCallbackBody = 1 << 20

type PaymentHandler struct {
	svc *service.PaymentService
	cfg *config.PaymentConfig
}

func NewPaymentHandler(svc *service.PaymentService, cfg *config.PaymentConfig) *PaymentHandler {
	return &PaymentHandler{svc: svc, cfg: cfg}
}

type InitiatePaymentRequest struct {
	BookingID uint    `json:"bookingId"`
	Amount    float64 `json:"amount"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	Status            string `json:"status"`
	Error             string `json:"error"`
}

func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bookingId and amount are required")
		return
	}
	res, err := h.svc.Initiate(c.Request.Context(), middleware.GetUserID(c), req.BookingID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": res.Order, "payment": res.Payment})
}

// Verify is the public callback. When a webhook secret is configured the
// raw body must carry a valid X-Razorpay-Signature.
func (h *PaymentHandler) Verify(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBody))
	if err != nil {
		badRequest(c, "invalid body")
		return
	}
	if h.cfg.WebhookSecret != "" {
		if !payment.VerifyWebhookSignature(body, c.GetHeader(payment.SignatureHeader), h.cfg.WebhookSecret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}
	var req VerifyPaymentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	res, err := h.svc.Settle(c.Request.Context(), service.SettleInput{
		OrderID:           req.RazorpayOrderID,
		Status:            req.Status,
		ExternalPaymentID: req.RazorpayPaymentID,
		Error:             req.Error,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "Payment verified"
	if !res.Settled {
		msg = "Payment already processed"
	}
	resp := gin.H{"message": msg, "payment": res.Payment, "booking": res.Booking}
	if res.Commission != nil {
		resp["commission"] = res.Commission
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) ListForBooking(c *gin.Context) {
	id, ok := parseID(c, "bookingId")
	if !ok {
		return
	}
	list, err := h.svc.ListForBooking(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PaymentHandler) ListAll(c *gin.Context) {
	page, limit := parsePagination(c)
	list, total, err := h.svc.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list, "total": total, "page": page, "limit": limit})
}
