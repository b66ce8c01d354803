package handlers

import (
	"github.com/gin-gonic/gin"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/domain/parlevel"
	"innkeep/internal/infrastructure/http/v1/dto"
)

// ParLevelHandler serves par level configuration and reorder suggestions.
type ParLevelHandler struct {
	*BaseHandler
	service *parlevel.Service
}

// NewParLevelHandler creates a new par level handler.
func NewParLevelHandler(base *BaseHandler, service *parlevel.Service) *ParLevelHandler {
	return &ParLevelHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers par level routes on the group.
func (h *ParLevelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/warehouses/:id", h.Set)
	rg.GET("/warehouses/:id", h.List)
	rg.DELETE("/warehouses/:id/items/:itemId", h.Remove)
	rg.GET("/warehouses/:id/suggestions", h.Suggestions)
}

// Set handles PUT /par-levels/warehouses/:id. Creates or replaces the par
// level for one item.
func (h *ParLevelHandler) Set(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SetParLevelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "itemId"))
		return
	}
	var preferred *id.ID
	if req.PreferredSupplierID != nil {
		supID, err := id.Parse(*req.PreferredSupplierID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "preferredSupplierId"))
			return
		}
		preferred = &supID
	}

	level, err := h.service.Set(c.Request.Context(), whID, itemID, req.Par, preferred)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, level)
}

// List handles GET /par-levels/warehouses/:id.
func (h *ParLevelHandler) List(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	levels, err := h.service.ListByWarehouse(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(levels, 0, 0))
}

// Remove handles DELETE /par-levels/warehouses/:id/items/:itemId.
func (h *ParLevelHandler) Remove(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), whID, itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Suggestions handles GET /par-levels/warehouses/:id/suggestions.
// Returns reorder suggestions for every item currently below its par level.
func (h *ParLevelHandler) Suggestions(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	suggestions, err := h.service.GetSuggestedItems(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(suggestions, 0, 0))
}
