package billing

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BillStats aggregates bill figures for one status bucket
type BillStats struct {
	Count            int64
	TotalAmount      valueobject.Money
	CommissionAmount valueobject.Money
}

// BillRepository defines the persistence interface for agent bills
type BillRepository interface {
	// FindByID retrieves a bill by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*AgentBill, error)

	// FindByBillNumber retrieves a bill by its business number
	FindByBillNumber(ctx context.Context, billNumber string) (*AgentBill, error)

	// FindByAgentAndMonth retrieves the unique bill for an agent and month,
	// or nil when none exists
	FindByAgentAndMonth(ctx context.Context, agentID uuid.UUID, billMonth string) (*AgentBill, error)

	// FindByMonth retrieves all bills for a settlement month
	FindByMonth(ctx context.Context, billMonth string) ([]AgentBill, error)

	// FindAll retrieves bills with pagination and filtering
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[AgentBill], error)

	// Save persists a bill
	Save(ctx context.Context, bill *AgentBill) error

	// Delete removes a bill. Only used by forced regeneration.
	Delete(ctx context.Context, id uuid.UUID) error

	// StatsByStatus aggregates count, total amount, and commission per status
	StatsByStatus(ctx context.Context, billMonth string) (map[BillStatus]BillStats, error)

	// GenerateBillNumber produces the next bill number in the form
	// BILL + yyyymm + 4-digit monthly sequence
	GenerateBillNumber(ctx context.Context, billMonth string) (string, error)
}

// PaymentRepository defines the persistence interface for payments
type PaymentRepository interface {
	// FindByID retrieves a payment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByPaymentNumber retrieves a payment by its business number
	FindByPaymentNumber(ctx context.Context, paymentNumber string) (*Payment, error)

	// FindByBill retrieves all payments against a bill
	FindByBill(ctx context.Context, billID uuid.UUID) ([]Payment, error)

	// FindAll retrieves payments with pagination and filtering
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Payment], error)

	// Save persists a payment
	Save(ctx context.Context, payment *Payment) error

	// SumSuccessfulByBill totals payments in SUCCESS status against a bill
	SumSuccessfulByBill(ctx context.Context, billID uuid.UUID) (valueobject.Money, error)

	// ExistsByBill checks if any payment references the bill, in any status
	ExistsByBill(ctx context.Context, billID uuid.UUID) (bool, error)

	// GeneratePaymentNumber produces the next payment number in the form
	// PAY + yyyymmdd + 4-digit daily sequence
	GeneratePaymentNumber(ctx context.Context) (string, error)
}

// AuditLogRepository defines the persistence interface for the bill audit log
type AuditLogRepository interface {
	// Append inserts an audit record. Records are never updated.
	Append(ctx context.Context, log *BillAuditLog) error

	// FindByBill retrieves the audit trail for a bill, oldest first
	FindByBill(ctx context.Context, billID uuid.UUID) ([]BillAuditLog, error)
}
