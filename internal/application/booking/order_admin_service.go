package booking

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderAdminService covers the back-office order operations that do not move
// the lifecycle status: queries, risk-review decisions, and item contract
// switches.
type OrderAdminService struct {
	scope     TransactionScope
	orderRepo booking.Repository
}

// NewOrderAdminService creates a new OrderAdminService
func NewOrderAdminService(scope TransactionScope, orderRepo booking.Repository) *OrderAdminService {
	return &OrderAdminService{scope: scope, orderRepo: orderRepo}
}

// GetOrder retrieves an order with its items and change log
func (s *OrderAdminService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// ListOrders retrieves orders with pagination and filtering
func (s *OrderAdminService) ListOrders(ctx context.Context, filter *OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Source != "" {
		domainFilter.Filters["source"] = filter.Source
	}
	if filter.AuditStatus != "" {
		domainFilter.Filters["audit_status"] = filter.AuditStatus
	}

	var page *shared.Paginated[booking.Order]
	var err error
	if filter.AgentID != nil {
		page, err = s.orderRepo.FindByAgent(ctx, *filter.AgentID, domainFilter)
	} else {
		page, err = s.orderRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(page.Items))
	for idx := range page.Items {
		items = append(items, *ToOrderResponse(&page.Items[idx]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// ApproveOrder marks an order as having passed risk review
func (s *OrderAdminService) ApproveOrder(ctx context.Context, orderID, operatorID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *booking.Order) error {
		return order.Approve(operatorID)
	})
}

// FlagOrderRiskReview sends an order into risk review
func (s *OrderAdminService) FlagOrderRiskReview(ctx context.Context, orderID, operatorID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *booking.Order) error {
		return order.FlagRiskReview(operatorID)
	})
}

// ChangeItemContract switches one order item to a different hotel contract
// and records the switch in both the item's contract history and the order's
// change log.
func (s *OrderAdminService) ChangeItemContract(ctx context.Context, orderID, itemID uuid.UUID, req *ChangeContractRequest, operatorID uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *booking.Order) error {
		for idx := range order.Items {
			item := &order.Items[idx]
			if item.ID != itemID {
				continue
			}
			oldContract := item.ContractID
			if err := item.ChangeContract(req.ContractID, req.Reason, operatorID); err != nil {
				return err
			}
			order.RecordItemUpdate(itemID, booking.ChangeSet{
				"old_contract_id": oldContract.String(),
				"new_contract_id": req.ContractID.String(),
				"reason":          req.Reason,
			}, operatorID)
			return nil
		}
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	})
}

// mutate loads, mutates, and saves an order inside one transaction
func (s *OrderAdminService) mutate(ctx context.Context, orderID uuid.UUID, fn func(order *booking.Order) error) (*OrderResponse, error) {
	var order *booking.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}
