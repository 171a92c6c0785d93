package booking

import (
	"context"
	"time"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the persistence interface for orders
type Repository interface {
	// FindByID retrieves an order with its items and change log
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber retrieves an order by its business number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll retrieves orders with pagination and filtering
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Order], error)

	// FindByAgent retrieves orders belonging to an agent
	FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[Order], error)

	// FindConfirmedByAgentInPeriod retrieves CONFIRMED and CLOSED orders for an
	// agent created inside [from, to). Used by bill generation.
	FindConfirmedByAgentInPeriod(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]Order, error)

	// Save persists an order with its items and new change log entries
	Save(ctx context.Context, order *Order) error

	// CountByStatus counts orders per lifecycle status
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)

	// ExistsByOrderNumber checks if an order number is already taken
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// GenerateOrderNumber produces the next order number in the form
	// ORD + yyyymmdd + 4-digit daily sequence, falling back to a
	// timestamp-derived suffix when the sequence is exhausted.
	GenerateOrderNumber(ctx context.Context) (string, error)
}
