package handler

import (
	"encoding/json"
	"net/http"

	"ecr/internal/middleware"
	"ecr/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type UpdateProfileRequest struct {
	Name      *string         `json:"name"`
	Profile   json.RawMessage `json:"profile"`
	Documents json.RawMessage `json:"documents"`
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), service.ProfileUpdate{
		Name:      req.Name,
		Profile:   req.Profile,
		Documents: req.Documents,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": u})
}
