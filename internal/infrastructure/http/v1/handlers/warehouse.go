package handlers

import (
	"github.com/gin-gonic/gin"

	"innkeep/internal/domain/catalogs/warehouse"
	"innkeep/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler serves the warehouse catalog endpoints.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers warehouse routes on the group.
func (h *WarehouseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/deactivate", h.Deactivate)
	rg.POST("/:id/activate", h.Activate)
}

// Create handles POST /warehouses.
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	wh := req.ToEntity(h.GetPropertyID(c))
	if err := h.service.Create(c.Request.Context(), wh); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, wh.ID.String())
}

// Get handles GET /warehouses/:id.
func (h *WarehouseHandler) Get(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	wh, err := h.service.GetByID(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, wh)
}

// Update handles PUT /warehouses/:id.
func (h *WarehouseHandler) Update(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	wh, err := h.service.GetByID(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(wh)
	if err := h.service.Update(c.Request.Context(), wh); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, wh)
}

// Deactivate handles POST /warehouses/:id/deactivate.
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), whID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Activate handles POST /warehouses/:id/activate.
func (h *WarehouseHandler) Activate(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Activate(c.Request.Context(), whID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /warehouses.
func (h *WarehouseHandler) List(c *gin.Context) {
	filter := warehouse.ListFilter{
		PropertyID: h.GetPropertyID(c),
		ActiveOnly: c.Query("active") == "true",
		Limit:      h.ParseIntQuery(c, "limit", 50),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}
	if t := c.Query("type"); t != "" {
		whType := warehouse.WarehouseType(t)
		filter.Type = &whType
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(items, filter.Limit, filter.Offset))
}
