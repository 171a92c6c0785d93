// Package billing contains the monthly commission settlement aggregates:
// agent bills, payments against them, and the immutable bill audit log.
package billing

import (
	"fmt"
	"time"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BillStatus represents the settlement status of an agent bill.
// Transitions are strictly monotonic: PENDING -> CONFIRMED -> PAID.
type BillStatus string

const (
	BillStatusPending   BillStatus = "PENDING"
	BillStatusConfirmed BillStatus = "CONFIRMED"
	BillStatusPaid      BillStatus = "PAID"
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusPending, BillStatusConfirmed, BillStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s BillStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s BillStatus) CanTransitionTo(target BillStatus) bool {
	switch s {
	case BillStatusPending:
		return target == BillStatusConfirmed
	case BillStatusConfirmed:
		return target == BillStatusPaid
	case BillStatusPaid:
		return false
	}
	return false
}

// BillMonthLayout is the storage format for a bill's settlement month
const BillMonthLayout = "2006-01"

// AgentBill is the aggregate root for one agent's commission settlement of
// one calendar month. At most one bill exists per (agent, month); the
// commission rate is copied from the agent at generation time so later rate
// changes never touch an issued bill.
type AgentBill struct {
	shared.BaseAggregateRoot
	BillNumber       string `gorm:"uniqueIndex;not null"`
	AgentID          uuid.UUID
	BillMonth        string `gorm:"type:varchar(7);not null;index:idx_bills_agent_month,unique,composite:agent_month"`
	SettlementType   string `gorm:"type:varchar(20);not null;default:'MONTHLY'"`
	OrderCount       int
	TotalAmount      valueobject.Money `gorm:"type:decimal(12,2)"`
	TotalProfit      valueobject.Money `gorm:"type:decimal(12,2)"`
	CommissionRate   valueobject.Rate  `gorm:"type:decimal(7,4)"`
	CommissionAmount valueobject.Money `gorm:"type:decimal(12,2)"`
	PaidAmount       valueobject.Money `gorm:"type:decimal(12,2)"`
	Status           BillStatus        `gorm:"not null"`
	ConfirmedAt      *time.Time
	ConfirmedBy      *uuid.UUID
	PaidAt           *time.Time
	PaymentReference string `gorm:"type:varchar(64)"`
	Remark           string
}

// TableName returns the database table name for GORM
func (AgentBill) TableName() string {
	return "agent_bills"
}

// NewAgentBill creates a pending bill for an agent and settlement month.
// billMonth must be in YYYY-MM form. settlementType is copied from the agent
// at generation time, like the commission rate.
func NewAgentBill(billNumber string, agentID uuid.UUID, billMonth, settlementType string, rate valueobject.Rate) (*AgentBill, error) {
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent ID cannot be empty")
	}
	if _, err := time.Parse(BillMonthLayout, billMonth); err != nil {
		return nil, shared.NewDomainError("INVALID_BILL_MONTH",
			fmt.Sprintf("Bill month must be in YYYY-MM form, got %q", billMonth))
	}
	if settlementType == "" {
		return nil, shared.NewDomainError("INVALID_SETTLEMENT_TYPE", "Settlement type cannot be empty")
	}

	return &AgentBill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillNumber:        billNumber,
		AgentID:           agentID,
		BillMonth:         billMonth,
		SettlementType:    settlementType,
		TotalAmount:       valueobject.ZeroCNY(),
		TotalProfit:       valueobject.ZeroCNY(),
		CommissionRate:    rate,
		CommissionAmount:  valueobject.ZeroCNY(),
		PaidAmount:        valueobject.ZeroCNY(),
		Status:            BillStatusPending,
	}, nil
}

// SetTotals replaces the aggregated order figures and recomputes the
// commission from the bill's frozen rate. Paid bills are immutable.
func (b *AgentBill) SetTotals(orderCount int, totalAmount, totalProfit valueobject.Money) error {
	if b.Status == BillStatusPaid {
		return shared.NewDomainError("BILL_IMMUTABLE", "Paid bills are immutable")
	}
	if orderCount < 0 {
		return shared.NewDomainError("INVALID_ORDER_COUNT", "Order count cannot be negative")
	}

	b.OrderCount = orderCount
	b.TotalAmount = totalAmount.RoundMoney()
	b.TotalProfit = totalProfit.RoundMoney()
	b.CommissionAmount = b.CommissionRate.ApplyTo(b.TotalProfit)
	b.UpdatedAt = time.Now()
	return nil
}

// Confirm moves the bill from PENDING to CONFIRMED
func (b *AgentBill) Confirm(operatorID uuid.UUID) error {
	if !b.Status.CanTransitionTo(BillStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot confirm bill in status %s", b.Status))
	}

	now := time.Now()
	b.Status = BillStatusConfirmed
	b.ConfirmedAt = &now
	b.ConfirmedBy = &operatorID
	b.UpdatedAt = now
	return nil
}

// MarkAsPaid moves the bill from CONFIRMED to PAID. reference identifies the
// settling payment, or a bank slip for manual settlement; it may be empty.
func (b *AgentBill) MarkAsPaid(reference string) error {
	if !b.Status.CanTransitionTo(BillStatusPaid) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot mark bill as paid in status %s", b.Status))
	}

	now := time.Now()
	b.Status = BillStatusPaid
	b.PaidAt = &now
	b.PaymentReference = reference
	b.UpdatedAt = now
	return nil
}

// ApplyPaidAmount records the running total of successful payments
func (b *AgentBill) ApplyPaidAmount(total valueobject.Money) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	b.PaidAmount = total.RoundMoney()
	b.UpdatedAt = time.Now()
	return nil
}

// IsFullyPaid reports whether successful payments cover the commission
func (b *AgentBill) IsFullyPaid() bool {
	covered, err := b.PaidAmount.GreaterThanOrEqual(b.CommissionAmount)
	if err != nil {
		return false
	}
	return covered
}

// OutstandingAmount returns the commission not yet covered by payments
func (b *AgentBill) OutstandingAmount() valueobject.Money {
	remaining, err := b.CommissionAmount.Subtract(b.PaidAmount)
	if err != nil || remaining.IsNegative() {
		return valueobject.ZeroCNY()
	}
	return remaining
}
