package persistence

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBillAuditLogRepository implements billing.AuditLogRepository using GORM.
// The table is append-only: records are inserted and never updated.
type GormBillAuditLogRepository struct {
	db *gorm.DB
}

// NewGormBillAuditLogRepository creates a new GormBillAuditLogRepository
func NewGormBillAuditLogRepository(db *gorm.DB) *GormBillAuditLogRepository {
	return &GormBillAuditLogRepository{db: db}
}

// Append inserts an audit record
func (r *GormBillAuditLogRepository) Append(ctx context.Context, log *billing.BillAuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindByBill retrieves the audit trail for a bill, oldest first
func (r *GormBillAuditLogRepository) FindByBill(ctx context.Context, billID uuid.UUID) ([]billing.BillAuditLog, error) {
	var logs []billing.BillAuditLog
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

var _ billing.AuditLogRepository = (*GormBillAuditLogRepository)(nil)
