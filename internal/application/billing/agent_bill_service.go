package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AgentBillService drives the monthly commission settlement: the generation
// sweep, recalculation, and the confirm/paid transitions.
type AgentBillService struct {
	scope     TransactionScope
	agentRepo agent.Repository
	billRepo  billing.BillRepository
	auditRepo billing.AuditLogRepository
	auditor   BillAuditor
	logger    *zap.Logger
}

// NewAgentBillService creates a new AgentBillService
func NewAgentBillService(
	scope TransactionScope,
	agentRepo agent.Repository,
	billRepo billing.BillRepository,
	auditRepo billing.AuditLogRepository,
	auditor BillAuditor,
	logger *zap.Logger,
) *AgentBillService {
	return &AgentBillService{
		scope:     scope,
		agentRepo: agentRepo,
		billRepo:  billRepo,
		auditRepo: auditRepo,
		auditor:   auditor,
		logger:    logger,
	}
}

// GenerateMonthlyBills sweeps every active agent and issues at most one bill
// per agent for the given settlement month. Existing bills are skipped unless
// force is set; a forced regeneration is refused while payments reference the
// old bill. Each agent settles in its own transaction, so one failure never
// rolls back its neighbors.
func (s *AgentBillService) GenerateMonthlyBills(ctx context.Context, billMonth string, force bool, operator billing.Operator) (*GenerateBillsResult, error) {
	monthStart, err := time.Parse(billing.BillMonthLayout, billMonth)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_BILL_MONTH",
			fmt.Sprintf("Bill month must be in YYYY-MM form, got %q", billMonth))
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	agents, err := s.agentRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &GenerateBillsResult{BillMonth: billMonth}
	for idx := range agents {
		ag := &agents[idx]
		outcome, err := s.generateForAgent(ctx, ag, billMonth, monthStart, monthEnd, force, operator)
		switch {
		case err != nil:
			result.Failed++
			result.Reasons = append(result.Reasons, fmt.Sprintf("agent %s: %s", ag.Code, err.Error()))
			s.logger.Error("bill generation failed for agent",
				zap.String("agent_code", ag.Code),
				zap.String("bill_month", billMonth),
				zap.Error(err))
		case outcome == "":
			result.Generated++
		default:
			result.Skipped++
			result.Reasons = append(result.Reasons, fmt.Sprintf("agent %s: %s", ag.Code, outcome))
		}
	}
	return result, nil
}

// generateForAgent settles one agent. Returns a non-empty skip reason when no
// bill was issued without this being an error.
func (s *AgentBillService) generateForAgent(ctx context.Context, ag *agent.Agent, billMonth string, monthStart, monthEnd time.Time, force bool, operator billing.Operator) (string, error) {
	var skipReason string

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.BillRepo().FindByAgentAndMonth(ctx, ag.ID, billMonth)
		if err != nil {
			return err
		}
		if existing != nil {
			if !force {
				skipReason = "bill already exists"
				return nil
			}
			hasPayments, err := repos.PaymentRepo().ExistsByBill(ctx, existing.ID)
			if err != nil {
				return err
			}
			if hasPayments {
				return shared.NewDomainError("BILL_HAS_PAYMENTS",
					"Cannot regenerate a bill that payments reference")
			}
			if err := repos.BillRepo().Delete(ctx, existing.ID); err != nil {
				return err
			}
			s.auditor.LogAuditAction(ctx, repos.AuditRepo(), existing,
				billing.AuditActionRegenerate, "forced regeneration, previous bill deleted", operator)
		}

		orders, err := repos.OrderRepo().FindConfirmedByAgentInPeriod(ctx, ag.ID, monthStart, monthEnd)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			skipReason = "no settled orders in month"
			return nil
		}

		totalAmount, totalProfit := sumOrders(orders)

		billNumber, err := repos.BillRepo().GenerateBillNumber(ctx, billMonth)
		if err != nil {
			return err
		}
		bill, err := billing.NewAgentBill(billNumber, ag.ID, billMonth, string(ag.SettlementType), ag.CommissionRate)
		if err != nil {
			return err
		}
		if err := bill.SetTotals(len(orders), totalAmount, totalProfit); err != nil {
			return err
		}
		if err := repos.BillRepo().Save(ctx, bill); err != nil {
			return err
		}

		s.auditor.LogAuditAction(ctx, repos.AuditRepo(), bill,
			billing.AuditActionGenerate, "auto-generated", operator)
		return nil
	})
	return skipReason, err
}

// RecalculateBill re-aggregates the bill's month from current order data.
// Paid bills are immutable; the old and new figures land in the audit log.
func (s *AgentBillService) RecalculateBill(ctx context.Context, billID uuid.UUID, operator billing.Operator) (*BillResponse, error) {
	var bill *billing.AgentBill

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		bill, err = repos.BillRepo().FindByID(ctx, billID)
		if err != nil {
			return err
		}
		if bill.Status == billing.BillStatusPaid {
			return shared.NewDomainError("BILL_IMMUTABLE", "Paid bills are immutable")
		}

		monthStart, err := time.Parse(billing.BillMonthLayout, bill.BillMonth)
		if err != nil {
			return err
		}
		orders, err := repos.OrderRepo().FindConfirmedByAgentInPeriod(ctx, bill.AgentID, monthStart, monthStart.AddDate(0, 1, 0))
		if err != nil {
			return err
		}

		old := billing.Snapshot(bill)
		totalAmount, totalProfit := sumOrders(orders)
		if err := bill.SetTotals(len(orders), totalAmount, totalProfit); err != nil {
			return err
		}
		if err := repos.BillRepo().Save(ctx, bill); err != nil {
			return err
		}

		s.auditor.LogRecalculation(ctx, repos.AuditRepo(), bill, old, billing.Snapshot(bill), operator)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToBillResponse(bill), nil
}

// ConfirmBill moves a pending bill to CONFIRMED. A bill in any other status
// is left untouched and reported as (false, nil) with a warning log.
func (s *AgentBillService) ConfirmBill(ctx context.Context, billID, operatorID uuid.UUID, operator billing.Operator) (bool, error) {
	confirmed := false

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		bill, err := repos.BillRepo().FindByID(ctx, billID)
		if err != nil {
			return err
		}
		if bill.Status != billing.BillStatusPending {
			s.logger.Warn("bill confirmation skipped, not pending",
				zap.String("bill_number", bill.BillNumber),
				zap.String("status", string(bill.Status)))
			return nil
		}

		if err := bill.Confirm(operatorID); err != nil {
			return err
		}
		if err := repos.BillRepo().Save(ctx, bill); err != nil {
			return err
		}

		s.auditor.LogStatusChange(ctx, repos.AuditRepo(), bill,
			billing.BillStatusPending, billing.BillStatusConfirmed, "", operator)
		confirmed = true
		return nil
	})
	return confirmed, err
}

// MarkBillAsPaid moves a confirmed bill to PAID, recording the external
// payment reference. Used by manual settlement; the payment workflow flips
// bills automatically once SUCCESS payments cover the commission.
func (s *AgentBillService) MarkBillAsPaid(ctx context.Context, billID uuid.UUID, paymentReference string, operator billing.Operator) (*BillResponse, error) {
	var bill *billing.AgentBill

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		bill, err = repos.BillRepo().FindByID(ctx, billID)
		if err != nil {
			return err
		}
		if err := bill.MarkAsPaid(paymentReference); err != nil {
			return err
		}
		if err := repos.BillRepo().Save(ctx, bill); err != nil {
			return err
		}

		s.auditor.LogStatusChange(ctx, repos.AuditRepo(), bill,
			billing.BillStatusConfirmed, billing.BillStatusPaid, "manual settlement", operator)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToBillResponse(bill), nil
}

// GetBill retrieves one bill
func (s *AgentBillService) GetBill(ctx context.Context, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	return ToBillResponse(bill), nil
}

// ListBills retrieves bills with pagination and filtering
func (s *AgentBillService) ListBills(ctx context.Context, filter *BillListFilter) (*shared.Paginated[BillResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = filter.OrderBy
	domainFilter.OrderDir = filter.OrderDir
	if filter.AgentID != nil {
		domainFilter.Filters["agent_id"] = filter.AgentID.String()
	}
	if filter.BillMonth != "" {
		domainFilter.Filters["bill_month"] = filter.BillMonth
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	page, err := s.billRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]BillResponse, 0, len(page.Items))
	for idx := range page.Items {
		items = append(items, *ToBillResponse(&page.Items[idx]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// GetBillAuditLogs returns the full audit trail of a bill, oldest first. The
// bill must exist.
func (s *AgentBillService) GetBillAuditLogs(ctx context.Context, billID uuid.UUID) ([]AuditLogResponse, error) {
	if _, err := s.billRepo.FindByID(ctx, billID); err != nil {
		return nil, err
	}

	logs, err := s.auditRepo.FindByBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	responses := make([]AuditLogResponse, 0, len(logs))
	for idx := range logs {
		responses = append(responses, *ToAuditLogResponse(&logs[idx]))
	}
	return responses, nil
}

// GetBillAuditTrail returns the raw audit entries of a bill, for export
func (s *AgentBillService) GetBillAuditTrail(ctx context.Context, billID uuid.UUID) ([]billing.BillAuditLog, error) {
	if _, err := s.billRepo.FindByID(ctx, billID); err != nil {
		return nil, err
	}
	return s.auditRepo.FindByBill(ctx, billID)
}

// sumOrders rolls up amount and profit over the settled orders of one month
func sumOrders(orders []booking.Order) (valueobject.Money, valueobject.Money) {
	totalAmount := valueobject.ZeroCNY()
	totalProfit := valueobject.ZeroCNY()
	for idx := range orders {
		totalAmount = totalAmount.MustAdd(orders[idx].TotalAmount)
		totalProfit = totalProfit.MustAdd(orders[idx].TotalProfit())
	}
	return totalAmount, totalProfit
}
