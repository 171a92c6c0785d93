package handler

import (
	"io"
	"net/http"

	billingapp "github.com/agentdesk/backend/internal/application/billing"
	"github.com/agentdesk/backend/internal/interfaces/http/dto"
	"github.com/agentdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// maxProofSize caps uploaded transfer-proof files at 5MB
const maxProofSize = 5 << 20

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Create)
		payments.POST("/:id/success", h.MarkSuccess)
		payments.POST("/:id/failure", h.MarkFailure)
		payments.POST("/:id/confirm", h.Confirm)
		payments.POST("/:id/proof", h.UploadProof)
		payments.GET("/:id/proof", h.ProofURL)
	}
}

// Create records a pending payment against a confirmed bill
func (h *PaymentHandler) Create(c *gin.Context) {
	var req billingapp.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.paymentService.CreatePayment(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// markSuccessRequest carries the external transaction reference
type markSuccessRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}

// MarkSuccess records a successful transfer, settling the bill when the sum
// of successful payments covers the commission
func (h *PaymentHandler) MarkSuccess(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req markSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	settled, err := h.paymentService.ProcessPaymentSuccess(c.Request.Context(), id, req.TransactionID, middleware.GetOperator(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"bill_settled": settled})
}

// markFailureRequest carries the failure reason
type markFailureRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MarkFailure records a failed transfer
func (h *PaymentHandler) MarkFailure(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req markFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	marked, err := h.paymentService.ProcessPaymentFailure(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"marked": marked})
}

// Confirm records the admin's manual verification of a successful payment
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	confirmed, err := h.paymentService.ConfirmPayment(c.Request.Context(), id, middleware.GetOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"confirmed": confirmed})
}

// UploadProof stores an uploaded transfer-proof file for a payment
func (h *PaymentHandler) UploadProof(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxProofSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "proof file exceeds maximum size of 5MB")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "failed to read uploaded file")
		return
	}

	resp, err := h.paymentService.UploadPaymentProof(c.Request.Context(), id,
		header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ProofURL returns a short-lived download URL for a payment's stored proof
func (h *PaymentHandler) ProofURL(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	url, err := h.paymentService.GetPaymentProofURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"url": url})
}
