// Package report contains read-only reporting services over bills and
// payments, feeding the statistics endpoints and CSV exports.
package report

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/google/uuid"
)

// StatusBucket is one row of the per-status bill statistics
type StatusBucket struct {
	Status           string `json:"status"`
	Count            int64  `json:"count"`
	TotalAmount      string `json:"total_amount"`
	CommissionAmount string `json:"commission_amount"`
}

// BillStatistics aggregates one settlement month by bill status
type BillStatistics struct {
	BillMonth string         `json:"bill_month"`
	Buckets   []StatusBucket `json:"buckets"`
}

// DetailedReportFilter selects the bills included in a detailed report
type DetailedReportFilter struct {
	BillMonth string     `form:"bill_month" binding:"required"`
	Status    string     `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED PAID"`
	AgentID   *uuid.UUID `form:"agent_id"`
}

// ReportRow is one bill in a detailed report, flattened for CSV export
type ReportRow struct {
	BillNumber       string `json:"bill_number"`
	AgentCode        string `json:"agent_code"`
	AgentCompany     string `json:"agent_company"`
	BillMonth        string `json:"bill_month"`
	OrderCount       int    `json:"order_count"`
	TotalAmount      string `json:"total_amount"`
	TotalProfit      string `json:"total_profit"`
	CommissionRate   string `json:"commission_rate"`
	CommissionAmount string `json:"commission_amount"`
	PaidAmount       string `json:"paid_amount"`
	Status           string `json:"status"`
}

// BillReportService aggregates bills for statistics and exports
type BillReportService struct {
	billRepo  billing.BillRepository
	agentRepo agent.Repository
}

// NewBillReportService creates a new BillReportService
func NewBillReportService(billRepo billing.BillRepository, agentRepo agent.Repository) *BillReportService {
	return &BillReportService{billRepo: billRepo, agentRepo: agentRepo}
}

// GetBillStatistics groups one month's bills by status with count, total
// amount, and commission totals. Statuses with no bills are omitted.
func (s *BillReportService) GetBillStatistics(ctx context.Context, billMonth string) (*BillStatistics, error) {
	stats, err := s.billRepo.StatsByStatus(ctx, billMonth)
	if err != nil {
		return nil, err
	}

	result := &BillStatistics{BillMonth: billMonth}
	for _, status := range []billing.BillStatus{billing.BillStatusPending, billing.BillStatusConfirmed, billing.BillStatusPaid} {
		bucket, ok := stats[status]
		if !ok {
			continue
		}
		result.Buckets = append(result.Buckets, StatusBucket{
			Status:           string(status),
			Count:            bucket.Count,
			TotalAmount:      bucket.TotalAmount.StringFixed(2),
			CommissionAmount: bucket.CommissionAmount.StringFixed(2),
		})
	}
	return result, nil
}

// GetDetailedBillReport lists one month's bills with agent identity resolved,
// optionally narrowed by status or agent
func (s *BillReportService) GetDetailedBillReport(ctx context.Context, filter *DetailedReportFilter) ([]ReportRow, error) {
	bills, err := s.billRepo.FindByMonth(ctx, filter.BillMonth)
	if err != nil {
		return nil, err
	}

	rows := make([]ReportRow, 0, len(bills))
	for idx := range bills {
		bill := &bills[idx]
		if filter.Status != "" && string(bill.Status) != filter.Status {
			continue
		}
		if filter.AgentID != nil && bill.AgentID != *filter.AgentID {
			continue
		}

		row := ReportRow{
			BillNumber:       bill.BillNumber,
			BillMonth:        bill.BillMonth,
			OrderCount:       bill.OrderCount,
			TotalAmount:      bill.TotalAmount.StringFixed(2),
			TotalProfit:      bill.TotalProfit.StringFixed(2),
			CommissionRate:   bill.CommissionRate.String(),
			CommissionAmount: bill.CommissionAmount.StringFixed(2),
			PaidAmount:       bill.PaidAmount.StringFixed(2),
			Status:           string(bill.Status),
		}
		if ag, err := s.agentRepo.FindByID(ctx, bill.AgentID); err == nil {
			row.AgentCode = ag.Code
			row.AgentCompany = ag.CompanyName
		}
		rows = append(rows, row)
	}
	return rows, nil
}
