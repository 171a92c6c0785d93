package booking

import (
	"time"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ItemStatus represents the lifecycle status of an order item
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "PENDING"
	ItemStatusConfirmed ItemStatus = "CONFIRMED"
	ItemStatusCanceled  ItemStatus = "CANCELED"
	ItemStatusCompleted ItemStatus = "COMPLETED"
)

// IsValid checks if the status is a valid ItemStatus
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusConfirmed, ItemStatusCanceled, ItemStatusCompleted:
		return true
	}
	return false
}

// OrderItem is one room-night line in an order. It references the inventory
// unit it reserved (detached once the unit is released back to the pool) and
// keeps amount and profit derived from the stay span and the price pair.
type OrderItem struct {
	shared.BaseEntity
	OrderID         uuid.UUID
	HotelID         uuid.UUID
	RoomTypeID      uuid.UUID
	InventoryUnitID *uuid.UUID
	ContractID      uuid.UUID
	CheckIn         time.Time `gorm:"type:date"`
	CheckOut        time.Time `gorm:"type:date"`
	Nights          int
	RoomCount       int               `gorm:"not null;default:1"`
	UnitPrice       valueobject.Money `gorm:"type:decimal(12,2)"`
	CostPrice       valueobject.Money `gorm:"type:decimal(12,2)"`
	Amount          valueobject.Money `gorm:"type:decimal(12,2)"`
	Profit          valueobject.Money `gorm:"type:decimal(12,2)"`
	Status          ItemStatus
	Remark          string
	ContractChanges []ContractChangeEntry `gorm:"foreignKey:OrderItemID"`
}

// TableName returns the database table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item for a stay span
func NewOrderItem(orderID, hotelID, roomTypeID, contractID uuid.UUID, checkIn, checkOut time.Time, unitPrice, costPrice valueobject.Money) (*OrderItem, error) {
	if !checkOut.After(checkIn) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Check-out date must be after check-in date")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}

	item := &OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		HotelID:    hotelID,
		RoomTypeID: roomTypeID,
		ContractID: contractID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		RoomCount:  1,
		UnitPrice:  unitPrice,
		CostPrice:  costPrice,
		Status:     ItemStatusPending,
	}
	item.recalculate()
	return item, nil
}

// SetRoomCount sets the number of rooms the line covers and recomputes the
// figures. Reserved items always cover exactly one room; imported lines may
// cover several.
func (i *OrderItem) SetRoomCount(count int) error {
	if count < 1 {
		return shared.NewDomainError("INVALID_ROOM_COUNT", "Room count must be at least 1")
	}
	i.RoomCount = count
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

// AttachInventoryUnit links the item to the inventory unit it reserved
func (i *OrderItem) AttachInventoryUnit(unitID uuid.UUID) {
	i.InventoryUnitID = &unitID
	i.UpdatedAt = time.Now()
}

// ReleaseInventoryUnit detaches the reserved inventory unit reference.
// Returns the detached unit id, or nil when none was held.
func (i *OrderItem) ReleaseInventoryUnit() *uuid.UUID {
	released := i.InventoryUnitID
	i.InventoryUnitID = nil
	i.UpdatedAt = time.Now()
	return released
}

// SetStay updates the stay span and recomputes amount and profit
func (i *OrderItem) SetStay(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Check-out date must be after check-in date")
	}
	i.CheckIn = checkIn
	i.CheckOut = checkOut
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

// SetPrices updates the price pair and recomputes amount and profit
func (i *OrderItem) SetPrices(unitPrice, costPrice valueobject.Money) error {
	if unitPrice.IsNegative() || costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	i.UnitPrice = unitPrice
	i.CostPrice = costPrice
	i.recalculate()
	i.UpdatedAt = time.Now()
	return nil
}

// ChangeContract switches the item to a new hotel contract, recording the
// change in the append-only contract history.
func (i *OrderItem) ChangeContract(newContractID uuid.UUID, reason string, operatorID uuid.UUID) error {
	if newContractID == uuid.Nil {
		return shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if newContractID == i.ContractID {
		return shared.NewDomainError("INVALID_CONTRACT", "Item already uses this contract")
	}

	i.ContractChanges = append(i.ContractChanges, ContractChangeEntry{
		OrderItemID:   i.ID,
		Seq:           len(i.ContractChanges) + 1,
		OldContractID: i.ContractID,
		NewContractID: newContractID,
		Reason:        reason,
		OperatorID:    operatorID,
		CreatedAt:     time.Now(),
	})
	i.ContractID = newContractID
	i.UpdatedAt = time.Now()
	return nil
}

// recalculate derives nights, amount, and profit from the current stay,
// room count, and prices. amount = unitPrice * nights * roomCount; profit =
// amount - costPrice * nights * roomCount.
func (i *OrderItem) recalculate() {
	i.Nights = stayNights(i.CheckIn, i.CheckOut)
	units := int64(i.Nights) * int64(i.RoomCount)
	i.Amount = i.UnitPrice.MultiplyByInt(units).RoundMoney()
	cost := i.CostPrice.MultiplyByInt(units)
	i.Profit = i.Amount.MustSubtract(cost).RoundMoney()
}

// stayNights counts the room-nights between check-in and check-out
func stayNights(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 0 {
		return 0
	}
	return nights
}
