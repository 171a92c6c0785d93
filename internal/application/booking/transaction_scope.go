package booking

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to booking repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories an order
// workflow touches inside one transaction. Both repositories share the same
// underlying database transaction, so an order save and the inventory unit
// status flips it depends on always land together.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() booking.Repository
	// UnitRepo returns the inventory unit repository scoped to the current transaction
	UnitRepo() inventory.UnitRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	orderRepo booking.Repository
	unitRepo  inventory.UnitRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(orderRepo booking.Repository, unitRepo inventory.UnitRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, unitRepo: unitRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() booking.Repository {
	return s.orderRepo
}

// UnitRepo returns the inventory unit repository.
func (s *NoOpTransactionScope) UnitRepo() inventory.UnitRepository {
	return s.unitRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
