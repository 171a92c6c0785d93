package inventory

import (
	"fmt"
	"time"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// UnitStatus represents the reservation status of a daily inventory unit
type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "AVAILABLE"
	UnitStatusPending   UnitStatus = "PENDING"
	UnitStatusSold      UnitStatus = "SOLD"
)

// IsValid checks if the status is a valid UnitStatus
func (s UnitStatus) IsValid() bool {
	switch s {
	case UnitStatusAvailable, UnitStatusPending, UnitStatusSold:
		return true
	}
	return false
}

// String returns the string representation of UnitStatus
func (s UnitStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// AVAILABLE -> PENDING (reservation), PENDING -> SOLD (confirmation),
// PENDING|SOLD -> AVAILABLE (release on cancel/close).
func (s UnitStatus) CanTransitionTo(target UnitStatus) bool {
	switch s {
	case UnitStatusAvailable:
		return target == UnitStatusPending
	case UnitStatusPending:
		return target == UnitStatusSold || target == UnitStatusAvailable
	case UnitStatusSold:
		return target == UnitStatusAvailable
	}
	return false
}

// InventoryUnit is one sellable room-night: a (hotel, room type, calendar
// date) slot with a price pair and a reservation status. The hotel-contract
// module owns these rows; the agent channel only reads them and moves their
// status in lockstep with order lifecycles.
type InventoryUnit struct {
	shared.BaseEntity
	HotelID      uuid.UUID
	RoomTypeID   uuid.UUID
	Date         time.Time `gorm:"type:date"`
	Status       UnitStatus
	SellingPrice valueobject.Money `gorm:"type:decimal(12,2)"`
	CostPrice    valueobject.Money `gorm:"type:decimal(12,2)"`
	ContractID   uuid.UUID
}

// TableName returns the database table name for GORM
func (InventoryUnit) TableName() string {
	return "inventory_units"
}

// IsAvailable reports whether the unit can be reserved
func (u *InventoryUnit) IsAvailable() bool {
	return u.Status == UnitStatusAvailable
}

// MatchesSlot verifies the unit belongs to the given room type and date
func (u *InventoryUnit) MatchesSlot(roomTypeID uuid.UUID, date time.Time) error {
	if u.RoomTypeID != roomTypeID {
		return shared.NewDomainError("INVENTORY_MISMATCH",
			fmt.Sprintf("Inventory unit %s belongs to a different room type", u.ID))
	}
	if !sameDay(u.Date, date) {
		return shared.NewDomainError("INVENTORY_MISMATCH",
			fmt.Sprintf("Inventory unit %s is for %s, not %s",
				u.ID, u.Date.Format("2006-01-02"), date.Format("2006-01-02")))
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
