package handler

import (
	"net/http"

	"ecr/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler covers user moderation. Admin listings of bookings,
// payments and commissions live on their own handlers.
type AdminHandler struct {
	users *service.UserService
	audit *service.AuditService
}

func NewAdminHandler(users *service.UserService, audit *service.AuditService) *AdminHandler {
	return &AdminHandler{users: users, audit: audit}
}

type VerifyUserRequest struct {
	Verified *bool `json:"verified"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)
	list, total, err := h.users.List(c.Request.Context(), c.Query("q"), c.Query("role"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) VerifyUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req VerifyUserRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}
	verified := true
	if req.Verified != nil {
		verified = *req.Verified
	}
	u, err := h.users.SetVerified(c.Request.Context(), id, verified)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), service.AuditEntry{
		UserID:     actorFrom(c).ID,
		Action:     "user.verify",
		Resource:   "user",
		ResourceID: u.ID,
		IP:         c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Metadata:   map[string]interface{}{"verified": verified},
	})
	c.JSON(http.StatusOK, gin.H{"message": "User verification updated", "user": u})
}
