package persistence

import (
	"context"

	appbilling "github.com/agentdesk/backend/internal/application/billing"
	appbooking "github.com/agentdesk/backend/internal/application/booking"
	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormBookingTransactionScope implements the booking TransactionScope using
// GORM transactions. Order mutations and inventory unit status changes
// commit or roll back together.
type GormBookingTransactionScope struct {
	db *gorm.DB
}

// NewGormBookingTransactionScope creates a new GormBookingTransactionScope
func NewGormBookingTransactionScope(db *gorm.DB) *GormBookingTransactionScope {
	return &GormBookingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormBookingTransactionScope) Execute(ctx context.Context, fn func(repos appbooking.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBookingRepositories{tx: tx})
	})
}

type gormBookingRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormBookingRepositories) OrderRepo() booking.Repository {
	return NewGormOrderRepository(r.tx)
}

// UnitRepo returns the inventory unit repository scoped to the current transaction
func (r *gormBookingRepositories) UnitRepo() inventory.UnitRepository {
	return NewGormInventoryUnitRepository(r.tx)
}

var _ appbooking.TransactionScope = (*GormBookingTransactionScope)(nil)
var _ appbooking.TransactionalRepositories = (*gormBookingRepositories)(nil)

// GormBillingTransactionScope implements the billing TransactionScope using
// GORM transactions. Bill writes and their audit log entries share one
// transaction, so a rollback leaves no audit trace.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBillingRepositories{tx: tx})
	})
}

type gormBillingRepositories struct {
	tx *gorm.DB
}

// BillRepo returns the agent bill repository scoped to the current transaction
func (r *gormBillingRepositories) BillRepo() billing.BillRepository {
	return NewGormBillRepository(r.tx)
}

// PaymentRepo returns the payment repository scoped to the current transaction
func (r *gormBillingRepositories) PaymentRepo() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// AuditRepo returns the bill audit log repository scoped to the current transaction
func (r *gormBillingRepositories) AuditRepo() billing.AuditLogRepository {
	return NewGormBillAuditLogRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormBillingRepositories) OrderRepo() booking.Repository {
	return NewGormOrderRepository(r.tx)
}

var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormBillingRepositories)(nil)
