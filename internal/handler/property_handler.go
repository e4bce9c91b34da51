package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ecr/internal/middleware"
	"ecr/internal/repository"
	"ecr/internal/service"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	svc *service.PropertyService
}

func NewPropertyHandler(svc *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

// PropertyRequest has no owner field; the owner is always the caller.
type PropertyRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Location    *string         `json:"location"`
	Address     *string         `json:"address"`
	Price       *float64        `json:"price"`
	BrokerID    *uint           `json:"brokerId"`
	Commission  *float64        `json:"commission"`
	Available   *bool           `json:"available"`
	Amenities   json.RawMessage `json:"amenities"`
	MediaURLs   json.RawMessage `json:"mediaUrls"`
}

func (r PropertyRequest) input() service.PropertyInput {
	return service.PropertyInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Address:     r.Address,
		Price:       r.Price,
		BrokerID:    r.BrokerID,
		Commission:  r.Commission,
		Available:   r.Available,
		Amenities:   r.Amenities,
		MediaURLs:   r.MediaURLs,
	}
}

func (h *PropertyHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	minPrice, _ := strconv.ParseFloat(c.Query("minPrice"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("maxPrice"), 64)
	list, total, err := h.svc.List(c.Request.Context(), repository.PropertyFilter{
		Location: c.Query("location"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": list, "total": total, "page": page, "limit": limit})
}

func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": p})
}

func (h *PropertyHandler) Mine(c *gin.Context) {
	list, err := h.svc.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": list})
}

func (h *PropertyHandler) Create(c *gin.Context) {
	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Property created successfully", "property": p})
}

// Update serves both the owner route and the admin override; the service
// skips the ownership check for admins.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.svc.Update(c.Request.Context(), actorFrom(c), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property updated successfully", "property": p})
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}
