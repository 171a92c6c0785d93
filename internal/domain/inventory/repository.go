package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UnitRepository defines persistence operations for inventory units.
//
// Transition is the only write path for unit status. It is a compare-and-set:
// the update applies only while the row still carries expectedStatus, so two
// requests racing for the same room-night cannot both win. The losing caller
// gets (false, nil) and must treat the unit as taken.
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryUnit, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]InventoryUnit, error)
	// FindAvailable lists AVAILABLE units for one room type on one date,
	// the pool an operator picks reservations from.
	FindAvailable(ctx context.Context, roomTypeID uuid.UUID, date time.Time) ([]InventoryUnit, error)
	Transition(ctx context.Context, id uuid.UUID, expectedStatus, newStatus UnitStatus) (bool, error)
}

// SummarySynchronizer recomputes the per-date availability summary owned by
// the hotel-contract module. Calls are best-effort: they run after the order
// transaction has committed and a failure is logged, never propagated.
type SummarySynchronizer interface {
	SyncDate(ctx context.Context, hotelID, roomTypeID uuid.UUID, date time.Time) error
}
