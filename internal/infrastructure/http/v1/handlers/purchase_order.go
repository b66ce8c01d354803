package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/domain/procurement"
	"innkeep/internal/infrastructure/http/v1/dto"
)

// PurchaseOrderHandler serves the purchase order workflow endpoints.
type PurchaseOrderHandler struct {
	*BaseHandler
	service *procurement.Service
}

// NewPurchaseOrderHandler creates a new purchase order handler.
func NewPurchaseOrderHandler(base *BaseHandler, service *procurement.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers purchase order routes on the group.
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/pending-approval", h.PendingApproval)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/receipts", h.GetReceipts)

	rg.POST("/:id/items", h.AddItem)
	rg.PUT("/:id/items/:itemId", h.UpdateItem)
	rg.DELETE("/:id/items/:itemId", h.RemoveItem)

	rg.POST("/:id/submit", h.Submit)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/reject", h.Reject)
	rg.POST("/:id/send", h.Send)
	rg.POST("/:id/receive", h.Receive)
	rg.POST("/:id/close", h.Close)
	rg.POST("/:id/cancel", h.Cancel)
}

// Create handles POST /purchase-orders.
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplierID, err := id.Parse(req.SupplierID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "supplierId"))
		return
	}
	warehouseID, err := id.Parse(req.WarehouseID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "warehouseId"))
		return
	}

	po, err := h.service.Create(c.Request.Context(), h.GetPropertyID(c), supplierID, warehouseID, h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, po.ID.String())
}

// Get handles GET /purchase-orders/:id.
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	po, err := h.service.GetByID(c.Request.Context(), poID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, po)
}

// List handles GET /purchase-orders.
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter := procurement.ListFilter{
		PropertyID: h.GetPropertyID(c),
		Limit:      h.ParseIntQuery(c, "limit", 50),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}
	if s := c.Query("status"); s != "" {
		status := procurement.Status(s)
		if !status.IsValid() {
			h.Error(c, apperror.NewValidation("invalid status").WithDetail("value", s))
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("supplierId"); raw != "" {
		supID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "supplierId"))
			return
		}
		filter.SupplierID = &supID
	}
	if raw := c.Query("warehouseId"); raw != "" {
		whID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "warehouseId"))
			return
		}
		filter.WarehouseID = &whID
	}

	orders, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(orders, filter.Limit, filter.Offset))
}

// PendingApproval handles GET /purchase-orders/pending-approval. The
// approval queue for one destination warehouse.
func (h *PurchaseOrderHandler) PendingApproval(c *gin.Context) {
	whID, err := id.Parse(c.Query("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "warehouseId"))
		return
	}

	orders, err := h.service.GetPendingForApproval(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(orders, 0, 0))
}

// GetReceipts handles GET /purchase-orders/:id/receipts.
func (h *PurchaseOrderHandler) GetReceipts(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	receipts, err := h.service.GetReceipts(c.Request.Context(), poID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, receipts)
}

// AddItem handles POST /purchase-orders/:id/items.
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.OrderLineRequest
	if !h.BindJSON(c, &req) {
		return
	}
	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "itemId"))
		return
	}

	po, err := h.service.AddItem(c.Request.Context(), poID, itemID, req.Quantity, req.UnitCost)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, po)
}

// UpdateItem handles PUT /purchase-orders/:id/items/:itemId.
func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.OrderLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	po, err := h.service.UpdateItem(c.Request.Context(), poID, itemID, req.Quantity, req.UnitCost)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, po)
}

// RemoveItem handles DELETE /purchase-orders/:id/items/:itemId.
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	po, err := h.service.RemoveItem(c.Request.Context(), poID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, po)
}

// Submit handles POST /purchase-orders/:id/submit.
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.SubmitForApproval(c.Request.Context(), poID, h.GetUserID(c)); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "submitted for approval")
}

// Approve handles POST /purchase-orders/:id/approve.
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Approve(c.Request.Context(), poID, h.GetUserID(c)); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "approved")
}

// Reject handles POST /purchase-orders/:id/reject.
func (h *PurchaseOrderHandler) Reject(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RejectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Reject(c.Request.Context(), poID, h.GetUserID(c), req.Reason); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "rejected")
}

// Send handles POST /purchase-orders/:id/send.
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.SendToSupplier(c.Request.Context(), poID, h.GetUserID(c)); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "sent to supplier")
}

// Receive handles POST /purchase-orders/:id/receive.
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReceiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lines := make([]procurement.ReceiveLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		itemID, err := id.Parse(line.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "itemId"))
			return
		}
		var expiresAt *time.Time
		if line.ExpiresAt != nil {
			t := line.ExpiresAt.UTC()
			expiresAt = &t
		}
		lines = append(lines, procurement.ReceiveLine{
			ItemID:      itemID,
			Quantity:    line.Quantity,
			BatchNumber: line.BatchNumber,
			ExpiresAt:   expiresAt,
		})
	}

	receipt, err := h.service.Receive(c.Request.Context(), poID, h.GetUserID(c), req.Notes, lines)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, receipt)
}

// Close handles POST /purchase-orders/:id/close.
func (h *PurchaseOrderHandler) Close(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Close(c.Request.Context(), poID, h.GetUserID(c)); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "closed")
}

// Cancel handles POST /purchase-orders/:id/cancel.
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	poID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.CancelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), poID, h.GetUserID(c), req.Reason); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "cancelled")
}
