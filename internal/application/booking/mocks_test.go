package booking

import (
	"context"
	"time"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/hotel"
	"github.com/agentdesk/backend/internal/domain/inventory"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*booking.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Order), args.Error(1)
}

func (m *mockOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*booking.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Order), args.Error(1)
}

func (m *mockOrderRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[booking.Order], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[booking.Order]), args.Error(1)
}

func (m *mockOrderRepo) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[booking.Order], error) {
	args := m.Called(ctx, agentID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[booking.Order]), args.Error(1)
}

func (m *mockOrderRepo) FindConfirmedByAgentInPeriod(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]booking.Order, error) {
	args := m.Called(ctx, agentID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Order), args.Error(1)
}

func (m *mockOrderRepo) Save(ctx context.Context, order *booking.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepo) CountByStatus(ctx context.Context) (map[booking.OrderStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[booking.OrderStatus]int64), args.Error(1)
}

func (m *mockOrderRepo) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepo) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockUnitRepo struct {
	mock.Mock
}

func (m *mockUnitRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryUnit), args.Error(1)
}

func (m *mockUnitRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.InventoryUnit, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryUnit), args.Error(1)
}

func (m *mockUnitRepo) FindAvailable(ctx context.Context, roomTypeID uuid.UUID, date time.Time) ([]inventory.InventoryUnit, error) {
	args := m.Called(ctx, roomTypeID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryUnit), args.Error(1)
}

func (m *mockUnitRepo) Transition(ctx context.Context, id uuid.UUID, expected, next inventory.UnitStatus) (bool, error) {
	args := m.Called(ctx, id, expected, next)
	return args.Bool(0), args.Error(1)
}

type mockAgentRepo struct {
	mock.Mock
}

func (m *mockAgentRepo) FindByID(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

func (m *mockAgentRepo) FindByCode(ctx context.Context, code string) (*agent.Agent, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

func (m *mockAgentRepo) FindAll(ctx context.Context, filter shared.Filter) ([]agent.Agent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]agent.Agent), args.Error(1)
}

func (m *mockAgentRepo) FindActive(ctx context.Context) ([]agent.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]agent.Agent), args.Error(1)
}

func (m *mockAgentRepo) Save(ctx context.Context, ag *agent.Agent) error {
	args := m.Called(ctx, ag)
	return args.Error(0)
}

func (m *mockAgentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAgentRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAgentRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockAgentRepo) GenerateAgentCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockHotelDirectory struct {
	mock.Mock
}

func (m *mockHotelDirectory) FindHotelByID(ctx context.Context, id uuid.UUID) (*hotel.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotel.Hotel), args.Error(1)
}

func (m *mockHotelDirectory) FindRoomTypeByID(ctx context.Context, id uuid.UUID) (*hotel.RoomType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotel.RoomType), args.Error(1)
}

func (m *mockHotelDirectory) FindRoomTypeByNames(ctx context.Context, hotelName, roomTypeName string) (*hotel.RoomType, error) {
	args := m.Called(ctx, hotelName, roomTypeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotel.RoomType), args.Error(1)
}

type mockSummarySynchronizer struct {
	mock.Mock
}

func (m *mockSummarySynchronizer) SyncDate(ctx context.Context, hotelID, roomTypeID uuid.UUID, date time.Time) error {
	args := m.Called(ctx, hotelID, roomTypeID, date)
	return args.Error(0)
}

var _ booking.Repository = (*mockOrderRepo)(nil)
var _ inventory.UnitRepository = (*mockUnitRepo)(nil)
var _ agent.Repository = (*mockAgentRepo)(nil)
var _ hotel.Directory = (*mockHotelDirectory)(nil)
var _ inventory.SummarySynchronizer = (*mockSummarySynchronizer)(nil)
