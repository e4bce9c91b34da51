package handler

import (
	"net/http"

	"ecr/internal/middleware"
	"ecr/internal/service"

	"github.com/gin-gonic/gin"
)

type CommissionHandler struct {
	svc *service.CommissionService
}

func NewCommissionHandler(svc *service.CommissionService) *CommissionHandler {
	return &CommissionHandler{svc: svc}
}

type MarkPaidRequest struct {
	PaymentDetails string `json:"paymentDetails"`
	Notes          string `json:"notes"`
}

func (h *CommissionHandler) ListForOwner(c *gin.Context) {
	list, err := h.svc.ListForOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": list})
}

func (h *CommissionHandler) ListForBroker(c *gin.Context) {
	list, err := h.svc.ListForBroker(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": list})
}

func (h *CommissionHandler) MarkPaid(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}
	cm, err := h.svc.MarkPaid(c.Request.Context(), middleware.GetUserID(c), id, service.MarkPaidInput{
		PaymentDetails: req.PaymentDetails,
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commission marked as paid", "commission": cm})
}

func (h *CommissionHandler) ListAll(c *gin.Context) {
	page, limit := parsePagination(c)
	list, total, err := h.svc.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": list, "total": total, "page": page, "limit": limit})
}

func (h *CommissionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commission deleted"})
}
