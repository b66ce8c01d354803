package handlers

import (
	"github.com/gin-gonic/gin"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/domain/requisition"
	"innkeep/internal/infrastructure/http/v1/dto"
)

// RequisitionHandler serves the stock transfer requisition endpoints.
type RequisitionHandler struct {
	*BaseHandler
	service *requisition.Service
}

// NewRequisitionHandler creates a new requisition handler.
func NewRequisitionHandler(base *BaseHandler, service *requisition.Service) *RequisitionHandler {
	return &RequisitionHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers requisition routes on the group.
func (h *RequisitionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/pending-approval", h.PendingApproval)
	rg.GET("/ready-for-fulfillment", h.ReadyForFulfillment)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/availability", h.CheckAvailability)

	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/reject", h.Reject)
	rg.POST("/:id/fulfill", h.Fulfill)
}

// Create handles POST /requisitions.
func (h *RequisitionHandler) Create(c *gin.Context) {
	var req dto.CreateRequisitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sourceID, err := id.Parse(req.SourceWarehouseID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "sourceWarehouseId"))
		return
	}
	destID, err := id.Parse(req.DestWarehouseID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "destWarehouseId"))
		return
	}

	lines := make([]requisition.RequestedLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		itemID, err := id.Parse(line.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "itemId"))
			return
		}
		lines = append(lines, requisition.RequestedLine{ItemID: itemID, Quantity: line.Quantity})
	}

	created, err := h.service.Create(c.Request.Context(), h.GetPropertyID(c), sourceID, destID, h.GetUserID(c), lines)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, created.ID.String())
}

// Get handles GET /requisitions/:id.
func (h *RequisitionHandler) Get(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	req, err := h.service.GetByID(c.Request.Context(), reqID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, req)
}

// List handles GET /requisitions.
func (h *RequisitionHandler) List(c *gin.Context) {
	filter := requisition.ListFilter{
		PropertyID: h.GetPropertyID(c),
		Limit:      h.ParseIntQuery(c, "limit", 50),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}
	if s := c.Query("status"); s != "" {
		status := requisition.Status(s)
		if !status.IsValid() {
			h.Error(c, apperror.NewValidation("invalid status").WithDetail("value", s))
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("sourceWarehouseId"); raw != "" {
		whID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "sourceWarehouseId"))
			return
		}
		filter.SourceWarehouseID = &whID
	}
	if raw := c.Query("destWarehouseId"); raw != "" {
		whID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "destWarehouseId"))
			return
		}
		filter.DestWarehouseID = &whID
	}

	reqs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(reqs, filter.Limit, filter.Offset))
}

// PendingApproval handles GET /requisitions/pending-approval. The approval
// queue for one source warehouse.
func (h *RequisitionHandler) PendingApproval(c *gin.Context) {
	whID, err := id.Parse(c.Query("sourceWarehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "sourceWarehouseId"))
		return
	}

	reqs, err := h.service.GetPendingForApproval(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(reqs, 0, 0))
}

// ReadyForFulfillment handles GET /requisitions/ready-for-fulfillment. The
// storekeeper's picking queue for one source warehouse.
func (h *RequisitionHandler) ReadyForFulfillment(c *gin.Context) {
	whID, err := id.Parse(c.Query("sourceWarehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", "sourceWarehouseId"))
		return
	}

	reqs, err := h.service.GetReadyForFulfillment(c.Request.Context(), whID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(reqs, 0, 0))
}

// CheckAvailability handles GET /requisitions/:id/availability.
// Returns the shortfall set for the remaining quantities; empty means the
// source warehouse can fully serve the requisition right now.
func (h *RequisitionHandler) CheckAvailability(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	shortfalls, err := h.service.CheckAvailability(c.Request.Context(), reqID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"available":  len(shortfalls) == 0,
		"shortfalls": shortfalls,
	})
}

// Approve handles POST /requisitions/:id/approve.
func (h *RequisitionHandler) Approve(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Approve(c.Request.Context(), reqID, h.GetUserID(c)); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "approved")
}

// Reject handles POST /requisitions/:id/reject.
func (h *RequisitionHandler) Reject(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RejectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Reject(c.Request.Context(), reqID, h.GetUserID(c), req.Reason); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "rejected")
}

// Fulfill handles POST /requisitions/:id/fulfill.
func (h *RequisitionHandler) Fulfill(c *gin.Context) {
	reqID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.FulfillRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lines := make([]requisition.FulfillLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		itemID, err := id.Parse(line.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id").WithDetail("field", "itemId"))
			return
		}
		lines = append(lines, requisition.FulfillLine{ItemID: itemID, Quantity: line.Quantity})
	}

	fulfilled, err := h.service.Fulfill(c.Request.Context(), reqID, h.GetUserID(c), lines)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, fulfilled)
}
