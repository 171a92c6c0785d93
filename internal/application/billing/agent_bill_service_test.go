package billing

import (
	"context"
	"testing"
	"time"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testOperator = billing.Operator{Name: "ops-admin", IP: "10.0.0.8"}

type billFixture struct {
	service     *AgentBillService
	billRepo    *mockBillRepo
	paymentRepo *mockPaymentRepo
	auditRepo   *mockAuditRepo
	orderRepo   *mockOrderRepo
	agentRepo   *mockAgentRepo
}

func newBillFixture(t *testing.T) *billFixture {
	t.Helper()
	f := &billFixture{
		billRepo:    new(mockBillRepo),
		paymentRepo: new(mockPaymentRepo),
		auditRepo:   new(mockAuditRepo),
		orderRepo:   new(mockOrderRepo),
		agentRepo:   new(mockAgentRepo),
	}
	scope := NewNoOpTransactionScope(f.billRepo, f.paymentRepo, f.auditRepo, f.orderRepo)
	f.service = NewAgentBillService(scope, f.agentRepo, f.billRepo, f.auditRepo, NoOpBillAuditor{}, zap.NewNop())
	return f
}

func activeAgent(t *testing.T, code string) agent.Agent {
	t.Helper()
	ag, err := agent.NewAgent("Golden Coast Travel", "Zhao Min", agent.LevelA)
	require.NoError(t, err)
	ag.Code = code
	return *ag
}

// confirmedOrder builds a confirmed order with the given nightly price pair
func confirmedOrder(t *testing.T, agentID uuid.UUID, unitPrice, costPrice string, nights int) booking.Order {
	t.Helper()
	order, err := booking.NewOrder("ORD"+uuid.NewString()[:8], agentID, booking.SourceManualInput, uuid.New())
	require.NoError(t, err)

	up, err := valueobject.NewMoneyCNYFromString(unitPrice)
	require.NoError(t, err)
	cp, err := valueobject.NewMoneyCNYFromString(costPrice)
	require.NoError(t, err)

	checkIn := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	item, err := booking.NewOrderItem(order.ID, uuid.New(), uuid.New(), uuid.New(),
		checkIn, checkIn.AddDate(0, 0, nights), up, cp)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(item))
	require.NoError(t, order.Confirm(uuid.New()))
	return *order
}

func TestAgentBillService_GenerateMonthlyBills(t *testing.T) {
	ctx := context.Background()

	t.Run("issues one pending bill per agent with settled orders", func(t *testing.T) {
		f := newBillFixture(t)
		ag := activeAgent(t, "AGT2026030101")

		// 1000.00 revenue, 600.00 cost over 10 nights: profit 400.00, rate 10%
		orders := []booking.Order{confirmedOrder(t, ag.ID, "100.00", "60.00", 10)}

		f.agentRepo.On("FindActive", ctx).Return([]agent.Agent{ag}, nil)
		f.billRepo.On("FindByAgentAndMonth", ctx, ag.ID, "2026-03").Return(nil, nil)
		f.orderRepo.On("FindConfirmedByAgentInPeriod", ctx, ag.ID,
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(orders, nil)
		f.billRepo.On("GenerateBillNumber", ctx, "2026-03").Return("BILL202603AGT01", nil)

		var saved *billing.AgentBill
		f.billRepo.On("Save", ctx, mock.AnythingOfType("*billing.AgentBill")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*billing.AgentBill) }).Return(nil)

		result, err := f.service.GenerateMonthlyBills(ctx, "2026-03", false, testOperator)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Generated)
		assert.Equal(t, 0, result.Skipped)
		require.NotNil(t, saved)
		assert.Equal(t, billing.BillStatusPending, saved.Status)
		assert.Equal(t, string(ag.SettlementType), saved.SettlementType)
		assert.Equal(t, 1, saved.OrderCount)
		assert.Equal(t, "1000.00", saved.TotalAmount.StringFixed(2))
		assert.Equal(t, "400.00", saved.TotalProfit.StringFixed(2))
		assert.Equal(t, "40.00", saved.CommissionAmount.StringFixed(2))
	})

	t.Run("existing bill is skipped without force", func(t *testing.T) {
		f := newBillFixture(t)
		ag := activeAgent(t, "AGT2026030102")
		existing, err := billing.NewAgentBill("BILL202603AGT02", ag.ID, "2026-03", "MONTHLY", ag.CommissionRate)
		require.NoError(t, err)

		f.agentRepo.On("FindActive", ctx).Return([]agent.Agent{ag}, nil)
		f.billRepo.On("FindByAgentAndMonth", ctx, ag.ID, "2026-03").Return(existing, nil)

		result, err := f.service.GenerateMonthlyBills(ctx, "2026-03", false, testOperator)
		require.NoError(t, err)

		assert.Equal(t, 0, result.Generated)
		assert.Equal(t, 1, result.Skipped)
		f.billRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("force regeneration deletes and reissues the bill", func(t *testing.T) {
		f := newBillFixture(t)
		ag := activeAgent(t, "AGT2026030103")
		existing, err := billing.NewAgentBill("BILL202603AGT03", ag.ID, "2026-03", "MONTHLY", ag.CommissionRate)
		require.NoError(t, err)

		f.agentRepo.On("FindActive", ctx).Return([]agent.Agent{ag}, nil)
		f.billRepo.On("FindByAgentAndMonth", ctx, ag.ID, "2026-03").Return(existing, nil)
		f.paymentRepo.On("ExistsByBill", ctx, existing.ID).Return(false, nil)
		f.billRepo.On("Delete", ctx, existing.ID).Return(nil)
		f.orderRepo.On("FindConfirmedByAgentInPeriod", ctx, ag.ID,
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return([]booking.Order{confirmedOrder(t, ag.ID, "200.00", "120.00", 5)}, nil)
		f.billRepo.On("GenerateBillNumber", ctx, "2026-03").Return("BILL202603AGT03R", nil)
		f.billRepo.On("Save", ctx, mock.AnythingOfType("*billing.AgentBill")).Return(nil)

		result, err := f.service.GenerateMonthlyBills(ctx, "2026-03", true, testOperator)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Generated)
		f.billRepo.AssertCalled(t, "Delete", ctx, existing.ID)
	})

	t.Run("force regeneration refuses when payments reference the bill", func(t *testing.T) {
		f := newBillFixture(t)
		ag := activeAgent(t, "AGT2026030104")
		existing, err := billing.NewAgentBill("BILL202603AGT04", ag.ID, "2026-03", "MONTHLY", ag.CommissionRate)
		require.NoError(t, err)

		f.agentRepo.On("FindActive", ctx).Return([]agent.Agent{ag}, nil)
		f.billRepo.On("FindByAgentAndMonth", ctx, ag.ID, "2026-03").Return(existing, nil)
		f.paymentRepo.On("ExistsByBill", ctx, existing.ID).Return(true, nil)

		result, err := f.service.GenerateMonthlyBills(ctx, "2026-03", true, testOperator)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Reasons, 1)
		assert.Contains(t, result.Reasons[0], "payments")
		f.billRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("agent without settled orders is skipped", func(t *testing.T) {
		f := newBillFixture(t)
		ag := activeAgent(t, "AGT2026030105")

		f.agentRepo.On("FindActive", ctx).Return([]agent.Agent{ag}, nil)
		f.billRepo.On("FindByAgentAndMonth", ctx, ag.ID, "2026-03").Return(nil, nil)
		f.orderRepo.On("FindConfirmedByAgentInPeriod", ctx, ag.ID,
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return([]booking.Order{}, nil)

		result, err := f.service.GenerateMonthlyBills(ctx, "2026-03", false, testOperator)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Skipped)
		f.billRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("malformed month is rejected up front", func(t *testing.T) {
		f := newBillFixture(t)
		_, err := f.service.GenerateMonthlyBills(ctx, "March 2026", false, testOperator)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_BILL_MONTH", domainErr.Code)
	})
}

func TestAgentBillService_RecalculateBill(t *testing.T) {
	ctx := context.Background()

	t.Run("refreshes figures from current orders", func(t *testing.T) {
		f := newBillFixture(t)
		ag := activeAgent(t, "AGT2026030106")
		bill, err := billing.NewAgentBill("BILL202603AGT06", ag.ID, "2026-03", "MONTHLY", valueobject.MustRate("10"))
		require.NoError(t, err)
		require.NoError(t, bill.SetTotals(1, mustMoneyT(t, "500.00"), mustMoneyT(t, "200.00")))

		f.billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)
		f.orderRepo.On("FindConfirmedByAgentInPeriod", ctx, ag.ID,
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return([]booking.Order{confirmedOrder(t, ag.ID, "100.00", "60.00", 10)}, nil)
		f.billRepo.On("Save", ctx, bill).Return(nil)

		resp, err := f.service.RecalculateBill(ctx, bill.ID, testOperator)
		require.NoError(t, err)

		assert.Equal(t, "1000.00", resp.TotalAmount)
		assert.Equal(t, "40.00", resp.CommissionAmount)
	})

	t.Run("paid bills are immutable", func(t *testing.T) {
		f := newBillFixture(t)
		bill, err := billing.NewAgentBill("BILL202603AGT07", uuid.New(), "2026-03", "MONTHLY", valueobject.MustRate("10"))
		require.NoError(t, err)
		require.NoError(t, bill.Confirm(uuid.New()))
		require.NoError(t, bill.MarkAsPaid(""))

		f.billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)

		_, err = f.service.RecalculateBill(ctx, bill.ID, testOperator)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BILL_IMMUTABLE", domainErr.Code)
		f.billRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAgentBillService_ConfirmBill(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms a pending bill", func(t *testing.T) {
		f := newBillFixture(t)
		bill, err := billing.NewAgentBill("BILL202603AGT08", uuid.New(), "2026-03", "MONTHLY", valueobject.MustRate("8"))
		require.NoError(t, err)

		f.billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)
		f.billRepo.On("Save", ctx, bill).Return(nil)

		ok, err := f.service.ConfirmBill(ctx, bill.ID, uuid.New(), testOperator)
		require.NoError(t, err)

		assert.True(t, ok)
		assert.Equal(t, billing.BillStatusConfirmed, bill.Status)
	})

	t.Run("non-pending bill returns false without error", func(t *testing.T) {
		f := newBillFixture(t)
		bill, err := billing.NewAgentBill("BILL202603AGT09", uuid.New(), "2026-03", "MONTHLY", valueobject.MustRate("8"))
		require.NoError(t, err)
		require.NoError(t, bill.Confirm(uuid.New()))

		f.billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)

		ok, err := f.service.ConfirmBill(ctx, bill.ID, uuid.New(), testOperator)
		require.NoError(t, err)

		assert.False(t, ok)
		f.billRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAgentBillService_MarkBillAsPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("pays a confirmed bill", func(t *testing.T) {
		f := newBillFixture(t)
		bill, err := billing.NewAgentBill("BILL202603AGT10", uuid.New(), "2026-03", "MONTHLY", valueobject.MustRate("5"))
		require.NoError(t, err)
		require.NoError(t, bill.Confirm(uuid.New()))

		f.billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)
		f.billRepo.On("Save", ctx, bill).Return(nil)

		resp, err := f.service.MarkBillAsPaid(ctx, bill.ID, "SLIP-2026-0142", testOperator)
		require.NoError(t, err)
		assert.Equal(t, string(billing.BillStatusPaid), resp.Status)
		assert.Equal(t, "SLIP-2026-0142", resp.PaymentReference)
	})

	t.Run("pending bill cannot be paid", func(t *testing.T) {
		f := newBillFixture(t)
		bill, err := billing.NewAgentBill("BILL202603AGT11", uuid.New(), "2026-03", "MONTHLY", valueobject.MustRate("5"))
		require.NoError(t, err)

		f.billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)

		_, err = f.service.MarkBillAsPaid(ctx, bill.ID, "", testOperator)
		assert.Error(t, err)
	})
}

func TestAgentBillService_GetBillAuditLogs(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the trail oldest first", func(t *testing.T) {
		f := newBillFixture(t)
		bill, err := billing.NewAgentBill("BILL202603AGT12", uuid.New(), "2026-03", "MONTHLY", valueobject.MustRate("5"))
		require.NoError(t, err)

		trail := []billing.BillAuditLog{
			*billing.NewBillAuditLog(bill.ID, bill.AgentID, billing.AuditActionGenerate, testOperator),
			*billing.NewBillAuditLog(bill.ID, bill.AgentID, billing.AuditActionConfirm, testOperator),
		}

		f.billRepo.On("FindByID", ctx, bill.ID).Return(bill, nil)
		f.auditRepo.On("FindByBill", ctx, bill.ID).Return(trail, nil)

		logs, err := f.service.GetBillAuditLogs(ctx, bill.ID)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, string(billing.AuditActionGenerate), logs[0].Action)
		assert.Equal(t, string(billing.AuditActionConfirm), logs[1].Action)
	})

	t.Run("unknown bill returns not found", func(t *testing.T) {
		f := newBillFixture(t)
		id := uuid.New()

		f.billRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.GetBillAuditLogs(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func mustMoneyT(t *testing.T, s string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyCNYFromString(s)
	require.NoError(t, err)
	return m
}
