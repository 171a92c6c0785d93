package billing

import (
	"context"
	"time"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
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

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByPaymentNumber(ctx context.Context, paymentNumber string) (*billing.Payment, error) {
	args := m.Called(ctx, paymentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByBill(ctx context.Context, billID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Payment], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.Payment]), args.Error(1)
}

func (m *mockPaymentRepo) Save(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPaymentRepo) SumSuccessfulByBill(ctx context.Context, billID uuid.UUID) (valueobject.Money, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).(valueobject.Money), args.Error(1)
}

func (m *mockPaymentRepo) ExistsByBill(ctx context.Context, billID uuid.UUID) (bool, error) {
	args := m.Called(ctx, billID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPaymentRepo) GeneratePaymentNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Append(ctx context.Context, log *billing.BillAuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *mockAuditRepo) FindByBill(ctx context.Context, billID uuid.UUID) ([]billing.BillAuditLog, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.BillAuditLog), args.Error(1)
}

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

type mockProofStorage struct {
	mock.Mock
}

func (m *mockProofStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *mockProofStorage) DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockProofStorage) Exists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func (m *mockProofStorage) Delete(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

var _ billing.BillRepository = (*mockBillRepo)(nil)
var _ billing.PaymentRepository = (*mockPaymentRepo)(nil)
var _ billing.AuditLogRepository = (*mockAuditRepo)(nil)
var _ booking.Repository = (*mockOrderRepo)(nil)
var _ agent.Repository = (*mockAgentRepo)(nil)
var _ ProofStorage = (*mockProofStorage)(nil)
