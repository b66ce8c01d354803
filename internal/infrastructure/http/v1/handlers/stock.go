package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/domain/ledger"
	"innkeep/internal/infrastructure/http/v1/dto"
	"innkeep/internal/infrastructure/storage/postgres"
)

// StockHandler serves read-only stock ledger endpoints: levels, the movement
// log, batches, reconciliation and audit history. Stock is only ever changed
// through the purchase order and requisition workflows.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
	audit   *postgres.AuditStore
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service, audit *postgres.AuditStore) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service, audit: audit}
}

// RegisterRoutes registers stock routes on the group.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/warehouses/:id/levels", h.WarehouseLevels)
	rg.GET("/warehouses/:id/levels/:itemId", h.Level)
	rg.GET("/warehouses/:id/levels/:itemId/reconcile", h.Reconcile)
	rg.GET("/movements", h.Movements)
	rg.GET("/batches", h.Batches)
	rg.GET("/audit/:entityType/:id", h.AuditHistory)
}

// WarehouseLevels handles GET /stock/warehouses/:id/levels.
func (h *StockHandler) WarehouseLevels(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	levels, err := h.service.GetWarehouseLevels(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(levels, 0, 0))
}

// Level handles GET /stock/warehouses/:id/levels/:itemId.
func (h *StockHandler) Level(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	level, err := h.service.GetLevel(c.Request.Context(), whID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, level)
}

// Reconcile handles GET /stock/warehouses/:id/levels/:itemId/reconcile.
// Rebuilds the quantity from the movement log and compares it against the
// stored level.
func (h *StockHandler) Reconcile(c *gin.Context) {
	whID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	rec, err := h.service.ReconcileLevel(c.Request.Context(), whID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rec)
}

// Movements handles GET /stock/movements.
func (h *StockHandler) Movements(c *gin.Context) {
	filter := ledger.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("itemId"); raw != "" {
		itemID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "itemId"))
			return
		}
		filter.ItemID = &itemID
	}
	if raw := c.Query("warehouseId"); raw != "" {
		whID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "warehouseId"))
			return
		}
		filter.WarehouseID = &whID
	}
	if raw := c.Query("type"); raw != "" {
		mt := ledger.MovementType(raw)
		filter.Type = &mt
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date").WithDetail("param", "from"))
			return
		}
		filter.FromDate = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date").WithDetail("param", "to"))
			return
		}
		filter.ToDate = &to
	}

	movements, err := h.service.GetMovements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(movements, filter.Limit, filter.Offset))
}

// Batches handles GET /stock/batches.
func (h *StockHandler) Batches(c *gin.Context) {
	filter := ledger.BatchFilter{
		BatchNumber: c.Query("batchNumber"),
		Limit:       h.ParseIntQuery(c, "limit", 100),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("itemId"); raw != "" {
		itemID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "itemId"))
			return
		}
		filter.ItemID = &itemID
	}
	if raw := c.Query("warehouseId"); raw != "" {
		whID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "warehouseId"))
			return
		}
		filter.WarehouseID = &whID
	}
	if raw := c.Query("expiresBefore"); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date").WithDetail("param", "expiresBefore"))
			return
		}
		filter.ExpiresBefore = &before
	}

	batches, err := h.service.GetBatches(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(batches, filter.Limit, filter.Offset))
}

// AuditHistory handles GET /stock/audit/:entityType/:id.
func (h *StockHandler) AuditHistory(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.audit.GetEntityHistory(c.Request.Context(), c.Param("entityType"), entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(entries, limit, 0))
}
