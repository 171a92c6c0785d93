package report

import (
	"strconv"

	"github.com/agentdesk/backend/internal/domain/billing"
	csvexport "github.com/agentdesk/backend/internal/infrastructure/export"
)

var billReportColumns = []string{
	"bill_number",
	"agent_code",
	"agent_company",
	"bill_month",
	"order_count",
	"total_amount",
	"total_profit",
	"commission_rate",
	"commission_amount",
	"paid_amount",
	"status",
}

var auditLogColumns = []string{
	"bill_number",
	"action",
	"from_status",
	"to_status",
	"operator",
	"operator_ip",
	"remark",
	"created_at",
}

// ExportDocument is a rendered CSV attachment
type ExportDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BuildBillReportCSV renders detailed report rows as a CSV attachment named
// after the billing month.
func BuildBillReportCSV(billMonth string, rows []ReportRow) (*ExportDocument, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.BillNumber,
			row.AgentCode,
			row.AgentCompany,
			row.BillMonth,
			strconv.Itoa(row.OrderCount),
			row.TotalAmount,
			row.TotalProfit,
			row.CommissionRate,
			row.CommissionAmount,
			row.PaidAmount,
			row.Status,
		})
	}

	data, err := csvexport.Build(billReportColumns, records)
	if err != nil {
		return nil, err
	}

	return &ExportDocument{
		Filename:    csvexport.MonthFilename("bill_report", billMonth),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// BuildAuditLogCSV renders a bill's audit trail as a CSV attachment
func BuildAuditLogCSV(billNumber string, logs []billing.BillAuditLog) (*ExportDocument, error) {
	records := make([][]string, 0, len(logs))
	for i := range logs {
		entry := &logs[i]
		records = append(records, []string{
			billNumber,
			string(entry.Action),
			string(entry.FromStatus),
			string(entry.ToStatus),
			entry.OperatorName,
			entry.OperatorIP,
			entry.Remark,
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	data, err := csvexport.Build(auditLogColumns, records)
	if err != nil {
		return nil, err
	}

	return &ExportDocument{
		Filename:    "bill_audit_" + billNumber + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}
