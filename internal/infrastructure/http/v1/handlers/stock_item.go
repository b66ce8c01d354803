package handlers

import (
	"github.com/gin-gonic/gin"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/domain/catalogs/stockitem"
	"innkeep/internal/infrastructure/http/v1/dto"
)

// StockItemHandler serves the stock item catalog endpoints.
type StockItemHandler struct {
	*BaseHandler
	service *stockitem.Service
}

// NewStockItemHandler creates a new stock item handler.
func NewStockItemHandler(base *BaseHandler, service *stockitem.Service) *StockItemHandler {
	return &StockItemHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers stock item routes on the group.
func (h *StockItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/deactivate", h.Deactivate)
}

// Create handles POST /items.
func (h *StockItemHandler) Create(c *gin.Context) {
	var req dto.CreateStockItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := stockitem.NewStockItem(h.GetPropertyID(c), req.Code, req.Name, req.Unit)
	item.Category = req.Category
	if req.ConsignmentSupplierID != nil {
		supID, ok := h.parseOptionalID(c, *req.ConsignmentSupplierID, "consignmentSupplierId")
		if !ok {
			return
		}
		item.ConsignmentSupplierID = &supID
	}

	if err := h.service.Create(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, item.ID.String())
}

// Get handles GET /items/:id.
func (h *StockItemHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, item)
}

// Update handles PUT /items/:id.
func (h *StockItemHandler) Update(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStockItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(item)
	item.ConsignmentSupplierID = nil
	if req.ConsignmentSupplierID != nil {
		supID, ok := h.parseOptionalID(c, *req.ConsignmentSupplierID, "consignmentSupplierId")
		if !ok {
			return
		}
		item.ConsignmentSupplierID = &supID
	}

	if err := h.service.Update(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, item)
}

// Deactivate handles POST /items/:id/deactivate.
func (h *StockItemHandler) Deactivate(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /items.
func (h *StockItemHandler) List(c *gin.Context) {
	filter := stockitem.ListFilter{
		PropertyID: h.GetPropertyID(c),
		Category:   c.Query("category"),
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

func (h *StockItemHandler) parseOptionalID(c *gin.Context, raw, field string) (id.ID, bool) {
	parsed, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", field))
		return id.Nil, false
	}
	return parsed, true
}
