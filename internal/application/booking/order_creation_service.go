package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/hotel"
	"github.com/agentdesk/backend/internal/domain/inventory"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderCreationService builds orders that reserve per-night inventory units.
// All unit status flips and the order insert happen inside one transaction;
// the per-date availability summary sync runs best-effort after commit.
type OrderCreationService struct {
	scope     TransactionScope
	agentRepo agent.Repository
	hotelDir  hotel.Directory
	syncer    inventory.SummarySynchronizer
	logger    *zap.Logger
}

// NewOrderCreationService creates a new OrderCreationService
func NewOrderCreationService(
	scope TransactionScope,
	agentRepo agent.Repository,
	hotelDir hotel.Directory,
	syncer inventory.SummarySynchronizer,
	logger *zap.Logger,
) *OrderCreationService {
	return &OrderCreationService{
		scope:     scope,
		agentRepo: agentRepo,
		hotelDir:  hotelDir,
		syncer:    syncer,
		logger:    logger,
	}
}

// CreateOrder validates the request, reserves exactly roomCount inventory
// units per night of the stay, and persists the resulting order. Any failure
// rolls back every reservation made so far.
func (s *OrderCreationService) CreateOrder(ctx context.Context, req *CreateOrderRequest, operatorID uuid.UUID) (*OrderResponse, error) {
	checkIn, checkOut, err := parseStaySpan(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if req.RoomCount < 1 {
		return nil, shared.NewDomainError("INVALID_ROOM_COUNT", "Room count must be at least 1")
	}

	ag, err := s.agentRepo.FindByID(ctx, req.AgentID)
	if err != nil {
		return nil, err
	}
	if !ag.IsActive() {
		return nil, shared.NewDomainError("AGENT_NOT_ACTIVE",
			fmt.Sprintf("Agent %s is not active", ag.Code))
	}

	roomType, err := s.hotelDir.FindRoomTypeByID(ctx, req.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if roomType.HotelID != req.HotelID {
		return nil, shared.NewDomainError("ROOM_TYPE_MISMATCH",
			"Room type does not belong to the requested hotel")
	}

	selections, err := buildSelections(req, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	var order *booking.Order
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orderNumber, err := repos.OrderRepo().GenerateOrderNumber(ctx)
		if err != nil {
			return err
		}

		order, err = booking.NewOrder(orderNumber, ag.ID, booking.SourceManualInput, operatorID)
		if err != nil {
			return err
		}
		order.Remark = req.Remark

		for date := checkIn; date.Before(checkOut); date = date.AddDate(0, 0, 1) {
			for _, unitID := range selections[dateKey(date)] {
				item, err := s.reserveUnit(ctx, repos.UnitRepo(), order, req.RoomTypeID, unitID, date)
				if err != nil {
					return err
				}
				if err := order.AddItem(item); err != nil {
					return err
				}
			}
		}

		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.syncSpan(ctx, req.HotelID, req.RoomTypeID, checkIn, checkOut)

	return ToOrderResponse(order), nil
}

// reserveUnit verifies one inventory unit against the requested slot and
// flips it AVAILABLE -> PENDING with a conditional update. A lost race
// surfaces as an inventory conflict, not a silent double booking.
func (s *OrderCreationService) reserveUnit(
	ctx context.Context,
	unitRepo inventory.UnitRepository,
	order *booking.Order,
	roomTypeID, unitID uuid.UUID,
	date time.Time,
) (*booking.OrderItem, error) {
	unit, err := unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := unit.MatchesSlot(roomTypeID, date); err != nil {
		return nil, err
	}
	if !unit.IsAvailable() {
		return nil, shared.NewDomainError("UNIT_NOT_AVAILABLE",
			fmt.Sprintf("Inventory unit %s is %s, not AVAILABLE", unit.ID, unit.Status))
	}

	flipped, err := unitRepo.Transition(ctx, unit.ID, inventory.UnitStatusAvailable, inventory.UnitStatusPending)
	if err != nil {
		return nil, err
	}
	if !flipped {
		return nil, shared.ErrInventoryConflict
	}

	item, err := booking.NewOrderItem(order.ID, unit.HotelID, roomTypeID, unit.ContractID,
		date, date.AddDate(0, 0, 1), unit.SellingPrice, unit.CostPrice)
	if err != nil {
		return nil, err
	}
	item.AttachInventoryUnit(unit.ID)
	return item, nil
}

// syncSpan refreshes the availability summary for every spanned date.
// Failures are logged and never returned to the caller.
func (s *OrderCreationService) syncSpan(ctx context.Context, hotelID, roomTypeID uuid.UUID, checkIn, checkOut time.Time) {
	if s.syncer == nil {
		return
	}
	for date := checkIn; date.Before(checkOut); date = date.AddDate(0, 0, 1) {
		if err := s.syncer.SyncDate(ctx, hotelID, roomTypeID, date); err != nil {
			s.logger.Warn("availability summary sync failed",
				zap.String("hotel_id", hotelID.String()),
				zap.String("room_type_id", roomTypeID.String()),
				zap.String("date", dateKey(date)),
				zap.Error(err))
		}
	}
}

// buildSelections normalizes both selection shapes into a per-date unit list
// holding exactly roomCount ids for every night of the stay.
func buildSelections(req *CreateOrderRequest, checkIn, checkOut time.Time) (map[string][]uuid.UUID, error) {
	nights := int(checkOut.Sub(checkIn).Hours() / 24)

	if len(req.UnitIDs) > 0 && len(req.DailySelections) > 0 {
		return nil, shared.NewDomainError("INVALID_SELECTION",
			"Provide either unit_ids or daily_selections, not both")
	}

	selections := make(map[string][]uuid.UUID, nights)

	switch {
	case len(req.UnitIDs) > 0:
		expected := nights * req.RoomCount
		if len(req.UnitIDs) != expected {
			return nil, shared.NewDomainError("INVALID_SELECTION",
				fmt.Sprintf("Expected %d inventory units (%d nights x %d rooms), got %d",
					expected, nights, req.RoomCount, len(req.UnitIDs)))
		}
		cursor := 0
		for date := checkIn; date.Before(checkOut); date = date.AddDate(0, 0, 1) {
			selections[dateKey(date)] = req.UnitIDs[cursor : cursor+req.RoomCount]
			cursor += req.RoomCount
		}

	case len(req.DailySelections) > 0:
		for date := checkIn; date.Before(checkOut); date = date.AddDate(0, 0, 1) {
			key := dateKey(date)
			units, ok := req.DailySelections[key]
			if !ok || len(units) != req.RoomCount {
				return nil, shared.NewDomainError("INVALID_SELECTION",
					fmt.Sprintf("Date %s requires exactly %d inventory units, got %d",
						key, req.RoomCount, len(units)))
			}
			selections[key] = units
		}

	default:
		return nil, shared.NewDomainError("MISSING_FIELD", "Inventory selection is required")
	}

	return selections, nil
}

// parseStaySpan parses and validates the check-in/check-out pair
func parseStaySpan(checkIn, checkOut string) (time.Time, time.Time, error) {
	if checkIn == "" {
		return time.Time{}, time.Time{}, shared.NewDomainError("MISSING_FIELD", "check_in is required")
	}
	if checkOut == "" {
		return time.Time{}, time.Time{}, shared.NewDomainError("MISSING_FIELD", "check_out is required")
	}
	in, err := time.ParseInLocation(DateLayout, checkIn, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE",
			fmt.Sprintf("check_in %q is not a valid date", checkIn))
	}
	out, err := time.ParseInLocation(DateLayout, checkOut, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE",
			fmt.Sprintf("check_out %q is not a valid date", checkOut))
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE_RANGE",
			"Check-out date must be after check-in date")
	}
	return in, out, nil
}

func dateKey(date time.Time) string {
	return date.Format(DateLayout)
}
