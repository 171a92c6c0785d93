package billing

import (
	"fmt"
	"time"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentMethod identifies the channel a payment arrived through
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodAlipay       PaymentMethod = "ALIPAY"
	MethodWechat       PaymentMethod = "WECHAT"
	MethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodBankTransfer, MethodAlipay, MethodWechat, MethodOther:
		return true
	}
	return false
}

// PaymentStatus represents the processing status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSuccess   PaymentStatus = "SUCCESS"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusSuccess || target == PaymentStatusFailed ||
			target == PaymentStatusCancelled
	case PaymentStatusSuccess:
		return target == PaymentStatusRefunded
	case PaymentStatusFailed, PaymentStatusRefunded, PaymentStatusCancelled:
		return false
	}
	return false
}

// Payment is a single transfer made by an agent against a confirmed bill.
// AdminConfirmed is a manual reconciliation flag set after finance has
// matched the transfer against the bank statement.
type Payment struct {
	shared.BaseAggregateRoot
	PaymentNumber  string `gorm:"uniqueIndex;not null"`
	BillID         uuid.UUID
	AgentID        uuid.UUID
	Amount         valueobject.Money `gorm:"type:decimal(12,2)"`
	Method         PaymentMethod     `gorm:"not null"`
	Status         PaymentStatus     `gorm:"not null"`
	TransactionID  string
	AdminConfirmed bool
	ConfirmedBy    *uuid.UUID
	ConfirmedAt    *time.Time
	FailureReason  string
	ProofURL       string
	Remark         string
	PaidAt         *time.Time
}

// TableName returns the database table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a pending payment against a bill
func NewPayment(paymentNumber string, billID, agentID uuid.UUID, amount valueobject.Money, method PaymentMethod) (*Payment, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if billID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BILL", "Bill ID cannot be empty")
	}
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD",
			fmt.Sprintf("Invalid payment method: %s", method))
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentNumber:     paymentNumber,
		BillID:            billID,
		AgentID:           agentID,
		Amount:            amount.RoundMoney(),
		Method:            method,
		Status:            PaymentStatusPending,
	}, nil
}

// MarkSuccess records the payment as received, keeping the upstream
// transaction id for reconciliation
func (p *Payment) MarkSuccess(transactionID string) error {
	if !p.Status.CanTransitionTo(PaymentStatusSuccess) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot mark payment as success in status %s", p.Status))
	}
	now := time.Now()
	p.Status = PaymentStatusSuccess
	p.TransactionID = transactionID
	p.PaidAt = &now
	p.UpdatedAt = now
	return nil
}

// MarkFailed records the payment as failed with a reason
func (p *Payment) MarkFailed(reason string) error {
	if !p.Status.CanTransitionTo(PaymentStatusFailed) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot mark payment as failed in status %s", p.Status))
	}
	p.Status = PaymentStatusFailed
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
	return nil
}

// CancelPayment withdraws a pending payment
func (p *Payment) CancelPayment() error {
	if !p.Status.CanTransitionTo(PaymentStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot cancel payment in status %s", p.Status))
	}
	p.Status = PaymentStatusCancelled
	p.UpdatedAt = time.Now()
	return nil
}

// Refund reverses a successful payment
func (p *Payment) Refund() error {
	if !p.Status.CanTransitionTo(PaymentStatusRefunded) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot refund payment in status %s", p.Status))
	}
	p.Status = PaymentStatusRefunded
	p.AdminConfirmed = false
	p.UpdatedAt = time.Now()
	return nil
}

// ConfirmByAdmin marks a successful payment as reconciled by finance
func (p *Payment) ConfirmByAdmin(operatorID uuid.UUID) error {
	if p.Status != PaymentStatusSuccess {
		return shared.NewDomainError("INVALID_STATUS",
			"Only successful payments can be admin-confirmed")
	}
	if p.AdminConfirmed {
		return shared.NewDomainError("ALREADY_CONFIRMED", "Payment is already confirmed")
	}
	now := time.Now()
	p.AdminConfirmed = true
	p.ConfirmedBy = &operatorID
	p.ConfirmedAt = &now
	p.UpdatedAt = now
	return nil
}

// AttachProof stores the uploaded transfer-proof location
func (p *Payment) AttachProof(url string) {
	p.ProofURL = url
	p.UpdatedAt = time.Now()
}
