package billing

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// BillAuditor records every mutating bill operation in the immutable audit
// log. Implementations must never fail the business operation: audit write
// errors are swallowed and logged.
type BillAuditor interface {
	// LogAuditAction records a bill operation with free-text remarks
	LogAuditAction(ctx context.Context, repo billing.AuditLogRepository, bill *billing.AgentBill, action billing.AuditAction, remark string, operator billing.Operator)

	// LogStatusChange records a bill status transition
	LogStatusChange(ctx context.Context, repo billing.AuditLogRepository, bill *billing.AgentBill, from, to billing.BillStatus, remark string, operator billing.Operator)

	// LogRecalculation records a figure recalculation with old/new snapshots
	LogRecalculation(ctx context.Context, repo billing.AuditLogRepository, bill *billing.AgentBill, old, new billing.AuditDetail, operator billing.Operator)
}

// BillAuditService writes audit entries through the repository bound to the
// caller's transaction, so a rolled-back operation leaves no audit trace.
type BillAuditService struct {
	logger *zap.Logger
}

// NewBillAuditService creates a new BillAuditService
func NewBillAuditService(logger *zap.Logger) *BillAuditService {
	return &BillAuditService{logger: logger}
}

// LogAuditAction records a bill operation with free-text remarks
func (s *BillAuditService) LogAuditAction(ctx context.Context, repo billing.AuditLogRepository, bill *billing.AgentBill, action billing.AuditAction, remark string, operator billing.Operator) {
	entry := billing.NewBillAuditLog(bill.ID, bill.AgentID, action, operator).WithRemark(remark)
	s.append(ctx, repo, entry)
}

// LogStatusChange records a bill status transition
func (s *BillAuditService) LogStatusChange(ctx context.Context, repo billing.AuditLogRepository, bill *billing.AgentBill, from, to billing.BillStatus, remark string, operator billing.Operator) {
	action := billing.AuditActionConfirm
	if to == billing.BillStatusPaid {
		action = billing.AuditActionMarkPaid
	}
	entry := billing.NewBillAuditLog(bill.ID, bill.AgentID, action, operator).
		WithStatusChange(from, to).
		WithRemark(remark)
	s.append(ctx, repo, entry)
}

// LogRecalculation records a figure recalculation with old/new snapshots
func (s *BillAuditService) LogRecalculation(ctx context.Context, repo billing.AuditLogRepository, bill *billing.AgentBill, old, new billing.AuditDetail, operator billing.Operator) {
	entry := billing.NewBillAuditLog(bill.ID, bill.AgentID, billing.AuditActionRecalculate, operator).
		WithSnapshots(old, new)
	s.append(ctx, repo, entry)
}

func (s *BillAuditService) append(ctx context.Context, repo billing.AuditLogRepository, entry *billing.BillAuditLog) {
	if err := repo.Append(ctx, entry); err != nil {
		s.logger.Error("bill audit log write failed",
			zap.String("bill_id", entry.BillID.String()),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
	}
}

// NoOpBillAuditor discards every audit entry. Used in tests.
type NoOpBillAuditor struct{}

// LogAuditAction discards the entry.
func (NoOpBillAuditor) LogAuditAction(context.Context, billing.AuditLogRepository, *billing.AgentBill, billing.AuditAction, string, billing.Operator) {
}

// LogStatusChange discards the entry.
func (NoOpBillAuditor) LogStatusChange(context.Context, billing.AuditLogRepository, *billing.AgentBill, billing.BillStatus, billing.BillStatus, string, billing.Operator) {
}

// LogRecalculation discards the entry.
func (NoOpBillAuditor) LogRecalculation(context.Context, billing.AuditLogRepository, *billing.AgentBill, billing.AuditDetail, billing.AuditDetail, billing.Operator) {
}

var _ BillAuditor = (*BillAuditService)(nil)
var _ BillAuditor = NoOpBillAuditor{}
