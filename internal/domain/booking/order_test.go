package booking

import (
	"testing"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, unitPrice, costPrice string, nights int) *OrderItem {
	t.Helper()
	up, err := valueobject.NewMoneyCNYFromString(unitPrice)
	require.NoError(t, err)
	cp, err := valueobject.NewMoneyCNYFromString(costPrice)
	require.NoError(t, err)
	item, err := NewOrderItem(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		date(2026, 6, 1), date(2026, 6, 1+nights), up, cp)
	require.NoError(t, err)
	return item
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder("ORD202606010001", uuid.New(), SourceManualInput, uuid.New())
	require.NoError(t, err)
	return order
}

func TestNewOrder(t *testing.T) {
	t.Run("creates a pending order with a creation log entry", func(t *testing.T) {
		agentID := uuid.New()
		order, err := NewOrder("ORD202606010001", agentID, SourceManualInput, uuid.New())
		require.NoError(t, err)

		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Equal(t, AuditStatusPending, order.AuditStatus)
		assert.Equal(t, agentID, order.AgentID)
		assert.True(t, order.TotalAmount.IsZero())
		require.Len(t, order.ChangeLog, 1)
		assert.Equal(t, ChangeTypeCreated, order.ChangeLog[0].Type)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewOrder("", uuid.New(), SourceManualInput, uuid.New())
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ORDER_NUMBER", domainErr.Code)
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		_, err := NewOrder("ORD202606010001", uuid.New(), OrderSource("PHONE"), uuid.New())
		assert.Error(t, err)
	})
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCanceled, true},
		{OrderStatusPending, OrderStatusClosed, false},
		{OrderStatusConfirmed, OrderStatusCanceled, true},
		{OrderStatusConfirmed, OrderStatusClosed, true},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusCanceled, OrderStatusConfirmed, false},
		{OrderStatusClosed, OrderStatusCanceled, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestOrder_AddItem(t *testing.T) {
	t.Run("recomputes the total", func(t *testing.T) {
		order := newTestOrder(t)

		require.NoError(t, order.AddItem(newTestItem(t, "100.00", "60.00", 2)))
		require.NoError(t, order.AddItem(newTestItem(t, "150.00", "90.00", 1)))

		assert.Equal(t, "350.00", order.TotalAmount.StringFixed(2))
		assert.Equal(t, "140.00", order.TotalProfit().StringFixed(2))
		assert.Equal(t, order.ID, order.Items[0].OrderID)
	})

	t.Run("rejected once the order is confirmed", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.AddItem(newTestItem(t, "100.00", "60.00", 1)))
		require.NoError(t, order.Confirm(uuid.New()))

		err := order.AddItem(newTestItem(t, "100.00", "60.00", 1))
		assert.Error(t, err)
	})
}

func TestOrder_Confirm(t *testing.T) {
	t.Run("confirms order and pending items", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.AddItem(newTestItem(t, "100.00", "60.00", 1)))

		operatorID := uuid.New()
		require.NoError(t, order.Confirm(operatorID))

		assert.Equal(t, OrderStatusConfirmed, order.Status)
		assert.Equal(t, ItemStatusConfirmed, order.Items[0].Status)
		last := order.ChangeLog[len(order.ChangeLog)-1]
		assert.Equal(t, ChangeTypeConfirmed, last.Type)
		assert.Equal(t, operatorID, last.OperatorID)
	})

	t.Run("rejects empty order", func(t *testing.T) {
		order := newTestOrder(t)
		var domainErr *shared.DomainError
		require.ErrorAs(t, order.Confirm(uuid.New()), &domainErr)
		assert.Equal(t, "ORDER_EMPTY", domainErr.Code)
	})

	t.Run("rejects double confirm", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.AddItem(newTestItem(t, "100.00", "60.00", 1)))
		require.NoError(t, order.Confirm(uuid.New()))
		assert.Error(t, order.Confirm(uuid.New()))
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("records reason, operator and time", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.AddItem(newTestItem(t, "100.00", "60.00", 1)))

		operatorID := uuid.New()
		require.NoError(t, order.Cancel("guest no-show", operatorID))

		assert.Equal(t, OrderStatusCanceled, order.Status)
		assert.Equal(t, "guest no-show", order.CancelReason)
		require.NotNil(t, order.CanceledAt)
		require.NotNil(t, order.CanceledBy)
		assert.Equal(t, operatorID, *order.CanceledBy)
		assert.Equal(t, ItemStatusCanceled, order.Items[0].Status)
	})

	t.Run("requires a reason", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Error(t, order.Cancel("", uuid.New()))
	})

	t.Run("confirmed orders can still be canceled", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.AddItem(newTestItem(t, "100.00", "60.00", 1)))
		require.NoError(t, order.Confirm(uuid.New()))
		assert.NoError(t, order.Cancel("hotel overbooked", uuid.New()))
	})

	t.Run("closed orders cannot be canceled", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.AddItem(newTestItem(t, "100.00", "60.00", 1)))
		require.NoError(t, order.Confirm(uuid.New()))
		require.NoError(t, order.Close(uuid.New()))
		assert.Error(t, order.Cancel("too late", uuid.New()))
	})
}

func TestOrder_Close(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.AddItem(newTestItem(t, "100.00", "60.00", 2)))
	require.NoError(t, order.Confirm(uuid.New()))

	require.NoError(t, order.Close(uuid.New()))

	assert.Equal(t, OrderStatusClosed, order.Status)
	assert.Equal(t, ItemStatusCompleted, order.Items[0].Status)

	t.Run("pending orders cannot be closed", func(t *testing.T) {
		pending := newTestOrder(t)
		assert.Error(t, pending.Close(uuid.New()))
	})
}

func TestOrder_AuditStatus(t *testing.T) {
	order := newTestOrder(t)
	operatorID := uuid.New()

	require.NoError(t, order.FlagRiskReview(operatorID))
	assert.Equal(t, AuditStatusRiskReview, order.AuditStatus)

	require.NoError(t, order.Approve(operatorID))
	assert.Equal(t, AuditStatusApproved, order.AuditStatus)

	assert.Error(t, order.Approve(operatorID))

	last := order.ChangeLog[len(order.ChangeLog)-1]
	assert.Equal(t, ChangeTypeAuditStatus, last.Type)
	assert.Equal(t, string(AuditStatusRiskReview), last.Changes["from"])
	assert.Equal(t, string(AuditStatusApproved), last.Changes["to"])
}

func TestOrder_ChangeLogSequence(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.AddItem(newTestItem(t, "100.00", "60.00", 1)))
	require.NoError(t, order.Confirm(uuid.New()))
	require.NoError(t, order.Close(uuid.New()))

	require.Len(t, order.ChangeLog, 3)
	for i, entry := range order.ChangeLog {
		assert.Equal(t, i+1, entry.Seq)
	}
}

func TestOrder_ReservedUnitIDs(t *testing.T) {
	order := newTestOrder(t)
	withUnit := newTestItem(t, "100.00", "60.00", 1)
	unitID := uuid.New()
	withUnit.AttachInventoryUnit(unitID)
	require.NoError(t, order.AddItem(withUnit))
	require.NoError(t, order.AddItem(newTestItem(t, "100.00", "60.00", 1)))

	ids := order.ReservedUnitIDs()
	require.Len(t, ids, 1)
	assert.Equal(t, unitID, ids[0])
}
