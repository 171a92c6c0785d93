package billing

import (
	"time"

	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// GenerateBillsRequest triggers the monthly bill generation sweep
type GenerateBillsRequest struct {
	BillMonth string `json:"bill_month" binding:"required"`
	Force     bool   `json:"force"`
}

// MarkBillPaidRequest settles a confirmed bill manually. The payment
// reference is the external identifier of the settling transfer.
type MarkBillPaidRequest struct {
	PaymentReference string `json:"payment_reference,omitempty"`
}

// GenerateBillsResult summarizes one generation sweep
type GenerateBillsResult struct {
	BillMonth string   `json:"bill_month"`
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Reasons   []string `json:"reasons,omitempty"`
}

// BillListFilter represents filter options for bill lists
type BillListFilter struct {
	AgentID   *uuid.UUID `form:"agent_id"`
	BillMonth string     `form:"bill_month"`
	Status    string     `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED PAID"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BillResponse represents an agent bill in API responses
type BillResponse struct {
	ID               uuid.UUID  `json:"id"`
	BillNumber       string     `json:"bill_number"`
	AgentID          uuid.UUID  `json:"agent_id"`
	BillMonth        string     `json:"bill_month"`
	SettlementType   string     `json:"settlement_type"`
	OrderCount       int        `json:"order_count"`
	TotalAmount      string     `json:"total_amount"`
	TotalProfit      string     `json:"total_profit"`
	CommissionRate   string     `json:"commission_rate"`
	CommissionAmount string     `json:"commission_amount"`
	PaidAmount       string     `json:"paid_amount"`
	Status           string     `json:"status"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	Remark           string     `json:"remark,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int        `json:"version"`
}

// CreatePaymentRequest records a new payment against a confirmed bill
type CreatePaymentRequest struct {
	BillID uuid.UUID `json:"bill_id" binding:"required"`
	Amount string    `json:"amount" binding:"required"`
	Method string    `json:"method" binding:"required,oneof=BANK_TRANSFER ALIPAY WECHAT OTHER"`
	Remark string    `json:"remark,omitempty"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             uuid.UUID  `json:"id"`
	PaymentNumber  string     `json:"payment_number"`
	BillID         uuid.UUID  `json:"bill_id"`
	AgentID        uuid.UUID  `json:"agent_id"`
	Amount         string     `json:"amount"`
	Method         string     `json:"method"`
	Status         string     `json:"status"`
	TransactionID  string     `json:"transaction_id,omitempty"`
	AdminConfirmed bool       `json:"admin_confirmed"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	ProofURL       string     `json:"proof_url,omitempty"`
	Remark         string     `json:"remark,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AuditLogResponse represents one bill audit log entry in API responses
type AuditLogResponse struct {
	ID           uuid.UUID         `json:"id"`
	BillID       uuid.UUID         `json:"bill_id"`
	Action       string            `json:"action"`
	FromStatus   string            `json:"from_status,omitempty"`
	ToStatus     string            `json:"to_status,omitempty"`
	OldSnapshot  map[string]string `json:"old_snapshot,omitempty"`
	NewSnapshot  map[string]string `json:"new_snapshot,omitempty"`
	Remark       string            `json:"remark,omitempty"`
	OperatorName string            `json:"operator_name,omitempty"`
	OperatorIP   string            `json:"operator_ip,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ToBillResponse converts a domain bill to its API representation
func ToBillResponse(bill *billing.AgentBill) *BillResponse {
	return &BillResponse{
		ID:               bill.ID,
		BillNumber:       bill.BillNumber,
		AgentID:          bill.AgentID,
		BillMonth:        bill.BillMonth,
		SettlementType:   bill.SettlementType,
		OrderCount:       bill.OrderCount,
		TotalAmount:      bill.TotalAmount.StringFixed(2),
		TotalProfit:      bill.TotalProfit.StringFixed(2),
		CommissionRate:   bill.CommissionRate.String(),
		CommissionAmount: bill.CommissionAmount.StringFixed(2),
		PaidAmount:       bill.PaidAmount.StringFixed(2),
		Status:           string(bill.Status),
		ConfirmedAt:      bill.ConfirmedAt,
		PaidAt:           bill.PaidAt,
		PaymentReference: bill.PaymentReference,
		Remark:           bill.Remark,
		CreatedAt:        bill.CreatedAt,
		UpdatedAt:        bill.UpdatedAt,
		Version:          bill.Version,
	}
}

// ToPaymentResponse converts a domain payment to its API representation
func ToPaymentResponse(payment *billing.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:             payment.ID,
		PaymentNumber:  payment.PaymentNumber,
		BillID:         payment.BillID,
		AgentID:        payment.AgentID,
		Amount:         payment.Amount.StringFixed(2),
		Method:         string(payment.Method),
		Status:         string(payment.Status),
		TransactionID:  payment.TransactionID,
		AdminConfirmed: payment.AdminConfirmed,
		ConfirmedAt:    payment.ConfirmedAt,
		FailureReason:  payment.FailureReason,
		ProofURL:       payment.ProofURL,
		Remark:         payment.Remark,
		PaidAt:         payment.PaidAt,
		CreatedAt:      payment.CreatedAt,
	}
}

// ToAuditLogResponse converts an audit log entry to its API representation
func ToAuditLogResponse(entry *billing.BillAuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           entry.ID,
		BillID:       entry.BillID,
		Action:       string(entry.Action),
		FromStatus:   string(entry.FromStatus),
		ToStatus:     string(entry.ToStatus),
		OldSnapshot:  entry.OldSnapshot,
		NewSnapshot:  entry.NewSnapshot,
		Remark:       entry.Remark,
		OperatorName: entry.OperatorName,
		OperatorIP:   entry.OperatorIP,
		CreatedAt:    entry.CreatedAt,
	}
}
