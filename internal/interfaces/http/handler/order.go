package handler

import (
	bookingapp "github.com/agentdesk/backend/internal/application/booking"
	"github.com/agentdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order endpoints: creation against live inventory, the
// status workflow, and the admin audit actions.
type OrderHandler struct {
	BaseHandler
	creationService *bookingapp.OrderCreationService
	statusService   *bookingapp.OrderStatusService
	adminService    *bookingapp.OrderAdminService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(
	creationService *bookingapp.OrderCreationService,
	statusService *bookingapp.OrderStatusService,
	adminService *bookingapp.OrderAdminService,
) *OrderHandler {
	return &OrderHandler{
		creationService: creationService,
		statusService:   statusService,
		adminService:    adminService,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/confirm", h.Confirm)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/close", h.Close)
		orders.POST("/:id/approve", h.Approve)
		orders.POST("/:id/risk-review", h.FlagRiskReview)
		orders.PUT("/:id/items/:itemID/contract", h.ChangeItemContract)
	}
}

// Create places an order, reserving inventory units for each night
func (h *OrderHandler) Create(c *gin.Context) {
	var req bookingapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.creationService.CreateOrder(c.Request.Context(), &req, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns orders with pagination and filtering
func (h *OrderHandler) List(c *gin.Context) {
	var filter bookingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.adminService.ListOrders(c.Request.Context(), &filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one order with its items and change log
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.adminService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Confirm moves a pending order to CONFIRMED, selling its reserved units
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.statusService.ConfirmOrder(c.Request.Context(), id, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel cancels an order and releases its inventory
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req bookingapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.statusService.CancelOrder(c.Request.Context(), id, req.Reason, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Close closes a confirmed order after checkout
func (h *OrderHandler) Close(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.statusService.CloseOrder(c.Request.Context(), id, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve marks an order as having passed the admin audit
func (h *OrderHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.adminService.ApproveOrder(c.Request.Context(), id, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// FlagRiskReview flags an order for manual risk review
func (h *OrderHandler) FlagRiskReview(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.adminService.FlagOrderRiskReview(c.Request.Context(), id, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangeItemContract switches one order item to a different hotel contract
func (h *OrderHandler) ChangeItemContract(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req bookingapp.ChangeContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.adminService.ChangeItemContract(c.Request.Context(), id, itemID, &req, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
