package handlers

import (
	"github.com/gin-gonic/gin"

	"innkeep/internal/domain/catalogs/supplier"
	"innkeep/internal/infrastructure/http/v1/dto"
)

// SupplierHandler serves the supplier catalog endpoints.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers supplier routes on the group.
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/deactivate", h.Deactivate)
}

// Create handles POST /suppliers.
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup := req.ToEntity(h.GetPropertyID(c))
	if err := h.service.Create(c.Request.Context(), sup); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, sup.ID.String())
}

// Get handles GET /suppliers/:id.
func (h *SupplierHandler) Get(c *gin.Context) {
	supID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	sup, err := h.service.GetByID(c.Request.Context(), supID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sup)
}

// Update handles PUT /suppliers/:id.
func (h *SupplierHandler) Update(c *gin.Context) {
	supID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup, err := h.service.GetByID(c.Request.Context(), supID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(sup)
	if err := h.service.Update(c.Request.Context(), sup); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sup)
}

// Deactivate handles POST /suppliers/:id/deactivate.
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	supID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), supID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /suppliers.
func (h *SupplierHandler) List(c *gin.Context) {
	filter := supplier.ListFilter{
		PropertyID: h.GetPropertyID(c),
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active") == "true",
		Limit:      h.ParseIntQuery(c, "limit", 50),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(items, filter.Limit, filter.Offset))
}
