package booking

import (
	"context"
	"fmt"
	"strconv"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/hotel"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportOrderRow is one parsed spreadsheet row. Field order follows the
// fixed column layout: agent code, hotel name, room type name, check-in,
// check-out, room count, unit price, remark.
type ImportOrderRow struct {
	LineNumber   int
	AgentCode    string
	HotelName    string
	RoomTypeName string
	CheckIn      string
	CheckOut     string
	RoomCount    string
	UnitPrice    string
	Remark       string
}

// OrderImportService turns spreadsheet rows into orders. Imported orders
// carry source EXCEL_IMPORT and a single item spanning the whole stay; no
// inventory units are reserved. Bad rows are skipped and counted, never
// fatal to the batch.
type OrderImportService struct {
	scope     TransactionScope
	agentRepo agent.Repository
	hotelDir  hotel.Directory
	logger    *zap.Logger
}

// NewOrderImportService creates a new OrderImportService
func NewOrderImportService(scope TransactionScope, agentRepo agent.Repository, hotelDir hotel.Directory, logger *zap.Logger) *OrderImportService {
	return &OrderImportService{
		scope:     scope,
		agentRepo: agentRepo,
		hotelDir:  hotelDir,
		logger:    logger,
	}
}

// ImportOrders processes the parsed rows one by one. Each valid row is
// persisted in its own transaction so one bad row never rolls back its
// neighbors.
func (s *OrderImportService) ImportOrders(ctx context.Context, rows []ImportOrderRow, operatorID uuid.UUID) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}

	for _, row := range rows {
		if err := s.importRow(ctx, row, operatorID); err != nil {
			reason := fmt.Sprintf("row %d: %s", row.LineNumber, err.Error())
			result.Skipped++
			result.SkipReasons = append(result.SkipReasons, reason)
			s.logger.Warn("order import row skipped",
				zap.Int("line", row.LineNumber),
				zap.Error(err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

func (s *OrderImportService) importRow(ctx context.Context, row ImportOrderRow, operatorID uuid.UUID) error {
	ag, err := s.resolveAgent(ctx, row.AgentCode)
	if err != nil {
		return err
	}

	roomType, err := s.hotelDir.FindRoomTypeByNames(ctx, row.HotelName, row.RoomTypeName)
	if err != nil {
		return err
	}

	checkIn, checkOut, err := parseStaySpan(row.CheckIn, row.CheckOut)
	if err != nil {
		return err
	}

	roomCount, err := strconv.Atoi(row.RoomCount)
	if err != nil || roomCount < 1 {
		return fmt.Errorf("invalid room count %q", row.RoomCount)
	}

	unitPrice, err := valueobject.NewMoneyCNYFromString(row.UnitPrice)
	if err != nil || unitPrice.IsNegative() {
		return fmt.Errorf("invalid unit price %q", row.UnitPrice)
	}

	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orderNumber, err := repos.OrderRepo().GenerateOrderNumber(ctx)
		if err != nil {
			return err
		}

		order, err := booking.NewOrder(orderNumber, ag.ID, booking.SourceExcelImport, operatorID)
		if err != nil {
			return err
		}
		order.Remark = row.Remark

		item, err := booking.NewOrderItem(order.ID, roomType.HotelID, roomType.ID, uuid.Nil,
			checkIn, checkOut, unitPrice, valueobject.ZeroCNY())
		if err != nil {
			return err
		}
		if err := item.SetRoomCount(roomCount); err != nil {
			return err
		}
		if err := order.AddItem(item); err != nil {
			return err
		}

		return repos.OrderRepo().Save(ctx, order)
	})
}

func (s *OrderImportService) resolveAgent(ctx context.Context, code string) (*agent.Agent, error) {
	if code == "" {
		return nil, fmt.Errorf("agent code is required")
	}
	ag, err := s.agentRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unknown agent code %q", code)
	}
	if !ag.IsActive() {
		return nil, fmt.Errorf("agent %s is not active", code)
	}
	return ag, nil
}
