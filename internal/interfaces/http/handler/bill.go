package handler

import (
	"fmt"
	"net/http"

	billingapp "github.com/agentdesk/backend/internal/application/billing"
	"github.com/agentdesk/backend/internal/application/report"
	"github.com/agentdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// BillHandler handles the monthly settlement endpoints: generation,
// confirmation, payment reconciliation views, and the audit trail.
type BillHandler struct {
	BaseHandler
	billService    *billingapp.AgentBillService
	paymentService *billingapp.PaymentService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billingapp.AgentBillService, paymentService *billingapp.PaymentService) *BillHandler {
	return &BillHandler{billService: billService, paymentService: paymentService}
}

// RegisterRoutes registers bill routes
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/bills")
	{
		bills.POST("/generate", h.Generate)
		bills.GET("", h.List)
		bills.GET("/:id", h.Get)
		bills.POST("/:id/recalculate", h.Recalculate)
		bills.POST("/:id/confirm", h.Confirm)
		bills.POST("/:id/mark-paid", h.MarkPaid)
		bills.GET("/:id/payments", h.Payments)
		bills.GET("/:id/audit-logs", h.AuditLogs)
		bills.GET("/:id/audit-logs/export", h.ExportAuditLogs)
	}
}

// Generate sweeps active agents and issues bills for one settlement month
func (h *BillHandler) Generate(c *gin.Context) {
	var req billingapp.GenerateBillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.billService.GenerateMonthlyBills(c.Request.Context(), req.BillMonth, req.Force, middleware.GetOperator(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns bills with pagination and filtering
func (h *BillHandler) List(c *gin.Context) {
	var filter billingapp.BillListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.billService.ListBills(c.Request.Context(), &filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one bill
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	resp, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Recalculate refreshes a pending bill's figures from its orders
func (h *BillHandler) Recalculate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	resp, err := h.billService.RecalculateBill(c.Request.Context(), id, middleware.GetOperator(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Confirm locks a pending bill's figures
func (h *BillHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	confirmed, err := h.billService.ConfirmBill(c.Request.Context(), id, middleware.GetOperatorID(c), middleware.GetOperator(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"confirmed": confirmed})
}

// MarkPaid settles a confirmed bill manually. The body carries an optional
// external payment reference and may be omitted entirely.
func (h *BillHandler) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req billingapp.MarkBillPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindingError(c, err)
			return
		}
	}

	resp, err := h.billService.MarkBillAsPaid(c.Request.Context(), id, req.PaymentReference, middleware.GetOperator(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Payments lists every payment recorded against a bill
func (h *BillHandler) Payments(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	payments, err := h.paymentService.GetBillPayments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// AuditLogs returns a bill's audit trail, oldest first
func (h *BillHandler) AuditLogs(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	logs, err := h.billService.GetBillAuditLogs(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// ExportAuditLogs downloads a bill's audit trail as a CSV attachment
func (h *BillHandler) ExportAuditLogs(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	ctx := c.Request.Context()
	bill, err := h.billService.GetBill(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	trail, err := h.billService.GetBillAuditTrail(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	doc, err := report.BuildAuditLogCSV(bill.BillNumber, trail)
	if err != nil {
		h.InternalError(c, "failed to build audit log export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
