package booking

import (
	"context"
	"time"

	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/inventory"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStatusService drives the order lifecycle: confirm, cancel, close.
// Every transition moves the order, its items, and the reserved inventory
// units in one transaction, then refreshes availability summaries
// best-effort.
type OrderStatusService struct {
	scope  TransactionScope
	syncer inventory.SummarySynchronizer
	logger *zap.Logger
}

// NewOrderStatusService creates a new OrderStatusService
func NewOrderStatusService(scope TransactionScope, syncer inventory.SummarySynchronizer, logger *zap.Logger) *OrderStatusService {
	return &OrderStatusService{scope: scope, syncer: syncer, logger: logger}
}

// slot identifies one reserved room-night for post-commit summary sync
type slot struct {
	hotelID    uuid.UUID
	roomTypeID uuid.UUID
	date       time.Time
}

// ConfirmOrder moves a pending order to CONFIRMED and its reserved units
// from PENDING to SOLD.
func (s *OrderStatusService) ConfirmOrder(ctx context.Context, orderID, operatorID uuid.UUID) (*OrderResponse, error) {
	var order *booking.Order
	var slots []slot

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Confirm(operatorID); err != nil {
			return err
		}

		for idx := range order.Items {
			item := &order.Items[idx]
			if item.InventoryUnitID == nil {
				continue
			}
			if err := transitionUnit(ctx, repos.UnitRepo(), *item.InventoryUnitID,
				inventory.UnitStatusPending, inventory.UnitStatusSold); err != nil {
				return err
			}
			slots = append(slots, slot{item.HotelID, item.RoomTypeID, item.CheckIn})
		}

		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.syncSlots(ctx, slots)
	return ToOrderResponse(order), nil
}

// CancelOrder cancels a pending or confirmed order, releases every reserved
// unit back to AVAILABLE, and records the reason in the change log.
func (s *OrderStatusService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string, operatorID uuid.UUID) (*OrderResponse, error) {
	var order *booking.Order
	var slots []slot

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		// Units sit in PENDING while the order is pending, SOLD once confirmed.
		heldStatus := inventory.UnitStatusPending
		if order.Status == booking.OrderStatusConfirmed {
			heldStatus = inventory.UnitStatusSold
		}

		if err := order.Cancel(reason, operatorID); err != nil {
			return err
		}

		released, err := s.releaseUnits(ctx, repos.UnitRepo(), order, heldStatus)
		if err != nil {
			return err
		}
		slots = released

		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.syncSlots(ctx, slots)
	return ToOrderResponse(order), nil
}

// CloseOrder completes a confirmed order after the stay, releasing its units
func (s *OrderStatusService) CloseOrder(ctx context.Context, orderID, operatorID uuid.UUID) (*OrderResponse, error) {
	var order *booking.Order
	var slots []slot

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Close(operatorID); err != nil {
			return err
		}

		released, err := s.releaseUnits(ctx, repos.UnitRepo(), order, inventory.UnitStatusSold)
		if err != nil {
			return err
		}
		slots = released

		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.syncSlots(ctx, slots)
	return ToOrderResponse(order), nil
}

// releaseUnits flips every held unit back to AVAILABLE and detaches it from
// its item
func (s *OrderStatusService) releaseUnits(ctx context.Context, unitRepo inventory.UnitRepository, order *booking.Order, heldStatus inventory.UnitStatus) ([]slot, error) {
	var slots []slot
	for idx := range order.Items {
		item := &order.Items[idx]
		if item.InventoryUnitID == nil {
			continue
		}
		unitID := *item.InventoryUnitID
		if err := transitionUnit(ctx, unitRepo, unitID, heldStatus, inventory.UnitStatusAvailable); err != nil {
			return nil, err
		}
		item.ReleaseInventoryUnit()
		slots = append(slots, slot{item.HotelID, item.RoomTypeID, item.CheckIn})
	}
	return slots, nil
}

func (s *OrderStatusService) syncSlots(ctx context.Context, slots []slot) {
	if s.syncer == nil {
		return
	}
	for _, sl := range slots {
		if err := s.syncer.SyncDate(ctx, sl.hotelID, sl.roomTypeID, sl.date); err != nil {
			s.logger.Warn("availability summary sync failed",
				zap.String("hotel_id", sl.hotelID.String()),
				zap.String("room_type_id", sl.roomTypeID.String()),
				zap.String("date", sl.date.Format(DateLayout)),
				zap.Error(err))
		}
	}
}

// transitionUnit runs one conditional status flip and maps a lost race to an
// inventory conflict
func transitionUnit(ctx context.Context, unitRepo inventory.UnitRepository, unitID uuid.UUID, from, to inventory.UnitStatus) error {
	flipped, err := unitRepo.Transition(ctx, unitID, from, to)
	if err != nil {
		return err
	}
	if !flipped {
		return shared.ErrInventoryConflict
	}
	return nil
}
