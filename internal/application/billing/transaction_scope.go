package billing

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/agentdesk/backend/internal/domain/booking"
)

// TransactionScope provides transactional access to billing repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a billing
// workflow touches inside one transaction. OrderRepo is read-only here: bill
// generation aggregates confirmed orders but never mutates them.
type TransactionalRepositories interface {
	// BillRepo returns the agent bill repository scoped to the current transaction
	BillRepo() billing.BillRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() billing.PaymentRepository
	// AuditRepo returns the bill audit log repository scoped to the current transaction
	AuditRepo() billing.AuditLogRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() booking.Repository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	billRepo    billing.BillRepository
	paymentRepo billing.PaymentRepository
	auditRepo   billing.AuditLogRepository
	orderRepo   booking.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	billRepo billing.BillRepository,
	paymentRepo billing.PaymentRepository,
	auditRepo billing.AuditLogRepository,
	orderRepo booking.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		orderRepo:   orderRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BillRepo returns the agent bill repository.
func (s *NoOpTransactionScope) BillRepo() billing.BillRepository {
	return s.billRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() billing.PaymentRepository {
	return s.paymentRepo
}

// AuditRepo returns the bill audit log repository.
func (s *NoOpTransactionScope) AuditRepo() billing.AuditLogRepository {
	return s.auditRepo
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() booking.Repository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
