package handler

import (
	"net/http"

	"ecr/internal/service"

	"github.com/gin-gonic/gin"
)

type GatewayHandler struct {
	svc *service.GatewayService
}

func NewGatewayHandler(svc *service.GatewayService) *GatewayHandler {
	return &GatewayHandler{svc: svc}
}

type GatewayRequest struct {
	RazorpayKeyID     string `json:"razorpayKeyId"`
	RazorpayKeySecret string `json:"razorpayKeySecret"`
}

// Upsert answers 201 when the binding is new and 200 when it replaced one.
// Only the masked view is returned.
func (h *GatewayHandler) Upsert(c *gin.Context) {
	var req GatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "razorpayKeyId and razorpayKeySecret are required")
		return
	}
	g, created, err := h.svc.Upsert(c.Request.Context(), actorFrom(c), req.RazorpayKeyID, req.RazorpayKeySecret)
	if err != nil {
		respondError(c, err)
		return
	}
	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Payment gateway configured", "gateway": g.View()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment gateway updated", "gateway": g.View()})
}

func (h *GatewayHandler) Get(c *gin.Context) {
	g, err := h.svc.Get(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gateway": g.View()})
}

func (h *GatewayHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment gateway removed"})
}
