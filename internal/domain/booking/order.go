// Package booking contains the order aggregate for the agent reseller
// channel: orders, their room-night items, and the append-only change log.
package booking

import (
	"fmt"
	"time"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
	OrderStatusClosed    OrderStatus = "CLOSED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCanceled, OrderStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCanceled
	case OrderStatusConfirmed:
		return target == OrderStatusCanceled || target == OrderStatusClosed
	case OrderStatusCanceled, OrderStatusClosed:
		return false
	}
	return false
}

// OrderSource indicates how an order entered the system
type OrderSource string

const (
	SourceManualInput OrderSource = "MANUAL_INPUT"
	SourceExcelImport OrderSource = "EXCEL_IMPORT"
)

// IsValid checks if the source is a valid OrderSource
func (s OrderSource) IsValid() bool {
	return s == SourceManualInput || s == SourceExcelImport
}

// AuditStatus is the risk-review marker on an order, independent of the
// lifecycle status.
type AuditStatus string

const (
	AuditStatusPending    AuditStatus = "PENDING"
	AuditStatusApproved   AuditStatus = "APPROVED"
	AuditStatusRiskReview AuditStatus = "RISK_REVIEW"
)

// IsValid checks if the status is a valid AuditStatus
func (s AuditStatus) IsValid() bool {
	switch s {
	case AuditStatusPending, AuditStatusApproved, AuditStatusRiskReview:
		return true
	}
	return false
}

// Order is the aggregate root for an agent booking. It owns its room-night
// items and change log; TotalAmount is always recomputed from the items.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber  string `gorm:"uniqueIndex;not null"`
	AgentID      uuid.UUID
	Items        []OrderItem       `gorm:"foreignKey:OrderID"`
	TotalAmount  valueobject.Money `gorm:"type:decimal(12,2)"`
	Status       OrderStatus       `gorm:"not null"`
	Source       OrderSource       `gorm:"not null"`
	AuditStatus  AuditStatus       `gorm:"not null"`
	CancelReason string
	CanceledAt   *time.Time
	CanceledBy   *uuid.UUID
	Remark       string
	ChangeLog    []ChangeEntry `gorm:"foreignKey:OrderID"`
}

// TableName returns the database table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new pending order for an agent
func NewOrder(orderNumber string, agentID uuid.UUID, source OrderSource, operatorID uuid.UUID) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent ID cannot be empty")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", fmt.Sprintf("Invalid order source: %s", source))
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		AgentID:           agentID,
		TotalAmount:       valueobject.ZeroCNY(),
		Status:            OrderStatusPending,
		Source:            source,
		AuditStatus:       AuditStatusPending,
	}
	order.appendChange(ChangeTypeCreated, ChangeSet{"order_number": orderNumber, "source": string(source)}, operatorID)
	return order, nil
}

// AddItem attaches an item to the order and recomputes the total.
// Items can only be added while the order is pending.
func (o *Order) AddItem(item *OrderItem) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Items can only be added to pending orders")
	}
	item.OrderID = o.ID
	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	return nil
}

// Confirm moves the order and its live items to CONFIRMED
func (o *Order) Confirm(operatorID uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot confirm order in status %s", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("ORDER_EMPTY", "Cannot confirm an order with no items")
	}

	o.Status = OrderStatusConfirmed
	for idx := range o.Items {
		if o.Items[idx].Status == ItemStatusPending {
			o.Items[idx].Status = ItemStatusConfirmed
		}
	}
	o.appendChange(ChangeTypeConfirmed, nil, operatorID)
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel moves the order to CANCELED and records the reason. Items are marked
// canceled; releasing their inventory units is the caller's responsibility.
func (o *Order) Cancel(reason string, operatorID uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusCanceled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot cancel order in status %s", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_CANCEL_REASON", "Cancellation reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCanceled
	o.CancelReason = reason
	o.CanceledAt = &now
	o.CanceledBy = &operatorID
	for idx := range o.Items {
		if o.Items[idx].Status != ItemStatusCompleted {
			o.Items[idx].Status = ItemStatusCanceled
		}
	}
	o.appendChange(ChangeTypeCanceled, ChangeSet{"reason": reason}, operatorID)
	o.UpdatedAt = now
	return nil
}

// Close completes a confirmed order after the stay has finished
func (o *Order) Close(operatorID uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusClosed) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot close order in status %s", o.Status))
	}

	o.Status = OrderStatusClosed
	for idx := range o.Items {
		if o.Items[idx].Status == ItemStatusConfirmed {
			o.Items[idx].Status = ItemStatusCompleted
		}
	}
	o.appendChange(ChangeTypeClosed, nil, operatorID)
	o.UpdatedAt = time.Now()
	return nil
}

// Approve marks the order as having passed risk review
func (o *Order) Approve(operatorID uuid.UUID) error {
	if o.AuditStatus == AuditStatusApproved {
		return shared.NewDomainError("INVALID_AUDIT_STATUS", "Order is already approved")
	}
	old := o.AuditStatus
	o.AuditStatus = AuditStatusApproved
	o.appendChange(ChangeTypeAuditStatus, ChangeSet{"from": string(old), "to": string(AuditStatusApproved)}, operatorID)
	o.UpdatedAt = time.Now()
	return nil
}

// FlagRiskReview sends the order into risk review
func (o *Order) FlagRiskReview(operatorID uuid.UUID) error {
	if o.AuditStatus == AuditStatusRiskReview {
		return shared.NewDomainError("INVALID_AUDIT_STATUS", "Order is already under risk review")
	}
	old := o.AuditStatus
	o.AuditStatus = AuditStatusRiskReview
	o.appendChange(ChangeTypeAuditStatus, ChangeSet{"from": string(old), "to": string(AuditStatusRiskReview)}, operatorID)
	o.UpdatedAt = time.Now()
	return nil
}

// RecordItemUpdate appends an item-level mutation to the change log and
// refreshes the total. Call after changing an item's stay, prices, or contract.
func (o *Order) RecordItemUpdate(itemID uuid.UUID, changes ChangeSet, operatorID uuid.UUID) {
	if changes == nil {
		changes = ChangeSet{}
	}
	changes["item_id"] = itemID.String()
	o.recalculateTotal()
	o.appendChange(ChangeTypeItemUpdated, changes, operatorID)
	o.UpdatedAt = time.Now()
}

// TotalProfit sums the profit over all non-canceled items
func (o *Order) TotalProfit() valueobject.Money {
	total := valueobject.ZeroCNY()
	for idx := range o.Items {
		if o.Items[idx].Status == ItemStatusCanceled {
			continue
		}
		total = total.MustAdd(o.Items[idx].Profit)
	}
	return total
}

// ReservedUnitIDs returns the inventory units currently held by the order's items
func (o *Order) ReservedUnitIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Items))
	for idx := range o.Items {
		if o.Items[idx].InventoryUnitID != nil {
			ids = append(ids, *o.Items[idx].InventoryUnitID)
		}
	}
	return ids
}

// recalculateTotal sums the amount over all non-canceled items
func (o *Order) recalculateTotal() {
	total := valueobject.ZeroCNY()
	for idx := range o.Items {
		if o.Items[idx].Status == ItemStatusCanceled {
			continue
		}
		total = total.MustAdd(o.Items[idx].Amount)
	}
	o.TotalAmount = total
}

// appendChange adds an entry to the change log with the next sequence number
func (o *Order) appendChange(changeType ChangeType, changes ChangeSet, operatorID uuid.UUID) {
	o.ChangeLog = append(o.ChangeLog, ChangeEntry{
		OrderID:    o.ID,
		Seq:        len(o.ChangeLog) + 1,
		Type:       changeType,
		Changes:    changes,
		OperatorID: operatorID,
		CreatedAt:  time.Now(),
	})
}
