package report

import (
	"context"
	"testing"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBillRepo struct {
	mock.Mock
}

func (m *mockBillRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.AgentBill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.AgentBill), args.Error(1)
}

func (m *mockBillRepo) FindByBillNumber(ctx context.Context, billNumber string) (*billing.AgentBill, error) {
	args := m.Called(ctx, billNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.AgentBill), args.Error(1)
}

func (m *mockBillRepo) FindByAgentAndMonth(ctx context.Context, agentID uuid.UUID, billMonth string) (*billing.AgentBill, error) {
	args := m.Called(ctx, agentID, billMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.AgentBill), args.Error(1)
}

func (m *mockBillRepo) FindByMonth(ctx context.Context, billMonth string) ([]billing.AgentBill, error) {
	args := m.Called(ctx, billMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.AgentBill), args.Error(1)
}

func (m *mockBillRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.AgentBill], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.AgentBill]), args.Error(1)
}

func (m *mockBillRepo) Save(ctx context.Context, bill *billing.AgentBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *mockBillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBillRepo) StatsByStatus(ctx context.Context, billMonth string) (map[billing.BillStatus]billing.BillStats, error) {
	args := m.Called(ctx, billMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[billing.BillStatus]billing.BillStats), args.Error(1)
}

func (m *mockBillRepo) GenerateBillNumber(ctx context.Context, billMonth string) (string, error) {
	args := m.Called(ctx, billMonth)
	return args.String(0), args.Error(1)
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

var (
	_ billing.BillRepository = (*mockBillRepo)(nil)
	_ agent.Repository       = (*mockAgentRepo)(nil)
)

func mustMoney(t *testing.T, amount string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyCNYFromString(amount)
	require.NoError(t, err)
	return m
}

func reportBill(t *testing.T, number string, agentID uuid.UUID, status billing.BillStatus, amount, profit string) billing.AgentBill {
	t.Helper()
	bill, err := billing.NewAgentBill(number, agentID, "2026-07", "MONTHLY", valueobject.MustRate("10"))
	require.NoError(t, err)
	require.NoError(t, bill.SetTotals(3, mustMoney(t, amount), mustMoney(t, profit)))
	bill.Status = status
	return *bill
}

func TestBillReportService_GetBillStatistics(t *testing.T) {
	t.Run("groups bills by status", func(t *testing.T) {
		billRepo := new(mockBillRepo)
		agentRepo := new(mockAgentRepo)
		svc := NewBillReportService(billRepo, agentRepo)

		billRepo.On("StatsByStatus", mock.Anything, "2026-07").Return(map[billing.BillStatus]billing.BillStats{
			billing.BillStatusPending: {
				Count:            2,
				TotalAmount:      mustMoney(t, "3000.00"),
				CommissionAmount: mustMoney(t, "120.00"),
			},
			billing.BillStatusPaid: {
				Count:            1,
				TotalAmount:      mustMoney(t, "1000.00"),
				CommissionAmount: mustMoney(t, "40.00"),
			},
		}, nil)

		stats, err := svc.GetBillStatistics(context.Background(), "2026-07")
		require.NoError(t, err)
		require.Len(t, stats.Buckets, 2)

		assert.Equal(t, "PENDING", stats.Buckets[0].Status)
		assert.Equal(t, int64(2), stats.Buckets[0].Count)
		assert.Equal(t, "3000.00", stats.Buckets[0].TotalAmount)
		assert.Equal(t, "120.00", stats.Buckets[0].CommissionAmount)

		assert.Equal(t, "PAID", stats.Buckets[1].Status)
		assert.Equal(t, int64(1), stats.Buckets[1].Count)
	})

	t.Run("month with no bills yields empty buckets", func(t *testing.T) {
		billRepo := new(mockBillRepo)
		svc := NewBillReportService(billRepo, new(mockAgentRepo))

		billRepo.On("StatsByStatus", mock.Anything, "2026-01").
			Return(map[billing.BillStatus]billing.BillStats{}, nil)

		stats, err := svc.GetBillStatistics(context.Background(), "2026-01")
		require.NoError(t, err)
		assert.Empty(t, stats.Buckets)
	})
}

func TestBillReportService_GetDetailedBillReport(t *testing.T) {
	agentA := uuid.New()
	agentB := uuid.New()

	makeAgent := func(code, company string) *agent.Agent {
		ag, err := agent.NewAgent(company, "contact", agent.LevelA)
		require.NoError(t, err)
		ag.Code = code
		return ag
	}

	t.Run("resolves agent identity per row", func(t *testing.T) {
		billRepo := new(mockBillRepo)
		agentRepo := new(mockAgentRepo)
		svc := NewBillReportService(billRepo, agentRepo)

		billRepo.On("FindByMonth", mock.Anything, "2026-07").Return([]billing.AgentBill{
			reportBill(t, "BILL202607A01", agentA, billing.BillStatusConfirmed, "2000.00", "800.00"),
			reportBill(t, "BILL202607B01", agentB, billing.BillStatusPending, "1000.00", "400.00"),
		}, nil)
		agentRepo.On("FindByID", mock.Anything, agentA).Return(makeAgent("AGT2026010101", "Sunrise Travel"), nil)
		agentRepo.On("FindByID", mock.Anything, agentB).Return(makeAgent("AGT2026010102", "Harbor Tours"), nil)

		rows, err := svc.GetDetailedBillReport(context.Background(), &DetailedReportFilter{BillMonth: "2026-07"})
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "BILL202607A01", rows[0].BillNumber)
		assert.Equal(t, "AGT2026010101", rows[0].AgentCode)
		assert.Equal(t, "Sunrise Travel", rows[0].AgentCompany)
		assert.Equal(t, "2000.00", rows[0].TotalAmount)
		assert.Equal(t, "800.00", rows[0].TotalProfit)
		assert.Equal(t, "80.00", rows[0].CommissionAmount)
		assert.Equal(t, "CONFIRMED", rows[0].Status)
	})

	t.Run("filters by status", func(t *testing.T) {
		billRepo := new(mockBillRepo)
		agentRepo := new(mockAgentRepo)
		svc := NewBillReportService(billRepo, agentRepo)

		billRepo.On("FindByMonth", mock.Anything, "2026-07").Return([]billing.AgentBill{
			reportBill(t, "BILL202607A01", agentA, billing.BillStatusConfirmed, "2000.00", "800.00"),
			reportBill(t, "BILL202607B01", agentB, billing.BillStatusPending, "1000.00", "400.00"),
		}, nil)
		agentRepo.On("FindByID", mock.Anything, agentB).Return(makeAgent("AGT2026010102", "Harbor Tours"), nil)

		rows, err := svc.GetDetailedBillReport(context.Background(), &DetailedReportFilter{
			BillMonth: "2026-07",
			Status:    "PENDING",
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "BILL202607B01", rows[0].BillNumber)
	})

	t.Run("filters by agent", func(t *testing.T) {
		billRepo := new(mockBillRepo)
		agentRepo := new(mockAgentRepo)
		svc := NewBillReportService(billRepo, agentRepo)

		billRepo.On("FindByMonth", mock.Anything, "2026-07").Return([]billing.AgentBill{
			reportBill(t, "BILL202607A01", agentA, billing.BillStatusConfirmed, "2000.00", "800.00"),
			reportBill(t, "BILL202607B01", agentB, billing.BillStatusPending, "1000.00", "400.00"),
		}, nil)
		agentRepo.On("FindByID", mock.Anything, agentA).Return(makeAgent("AGT2026010101", "Sunrise Travel"), nil)

		rows, err := svc.GetDetailedBillReport(context.Background(), &DetailedReportFilter{
			BillMonth: "2026-07",
			AgentID:   &agentA,
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "AGT2026010101", rows[0].AgentCode)
	})
}
