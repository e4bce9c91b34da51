package handler

import (
	"net/http"

	"ecr/internal/middleware"
	"ecr/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// CreateBookingRequest deliberately has no customerId.
type CreateBookingRequest struct {
	PropertyID uint    `json:"propertyId"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	EndDate    string  `json:"endDate"`
}

type BookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "propertyId, amount and date are required")
		return
	}
	b, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), service.BookingInput{
		PropertyID: req.PropertyID,
		Amount:     req.Amount,
		Date:       req.Date,
		EndDate:    req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully", "booking": b})
}

func (h *BookingHandler) ListForOwner(c *gin.Context) {
	list, err := h.svc.ListForOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListForCustomer ignores query parameters; the token decides the scope.
func (h *BookingHandler) ListForCustomer(c *gin.Context) {
	list, err := h.svc.ListForCustomer(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.svc.Cancel(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled", "booking": b})
}

func (h *BookingHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	b, err := h.svc.SetStatus(c.Request.Context(), actorFrom(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking status updated", "booking": b})
}

func (h *BookingHandler) ListAll(c *gin.Context) {
	page, limit := parsePagination(c)
	list, total, err := h.svc.ListAll(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "total": total, "page": page, "limit": limit})
}
