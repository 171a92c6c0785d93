package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditAction classifies entries in the bill audit log
type AuditAction string

const (
	AuditActionGenerate    AuditAction = "GENERATE"
	AuditActionRegenerate  AuditAction = "REGENERATE"
	AuditActionRecalculate AuditAction = "RECALCULATE"
	AuditActionConfirm     AuditAction = "CONFIRM"
	AuditActionMarkPaid    AuditAction = "MARK_PAID"
)

// AuditDetail carries the before/after figures of a bill operation as a flat
// key/value map, stored as a JSON column.
type AuditDetail map[string]string

// Value implements driver.Valuer for database storage
func (d AuditDetail) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit detail: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (d *AuditDetail) Scan(value interface{}) error {
	if value == nil {
		*d = AuditDetail{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AuditDetail", value)
	}
	if len(data) == 0 {
		*d = AuditDetail{}
		return nil
	}
	return json.Unmarshal(data, d)
}

// BillAuditLog is one immutable record of a bill mutation. Entries are only
// ever inserted, never updated or deleted.
type BillAuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BillID       uuid.UUID `gorm:"index"`
	AgentID      uuid.UUID
	Action       AuditAction `gorm:"not null"`
	FromStatus   BillStatus
	ToStatus     BillStatus
	OldSnapshot  AuditDetail `gorm:"type:jsonb"`
	NewSnapshot  AuditDetail `gorm:"type:jsonb"`
	Remark       string
	OperatorName string
	OperatorIP   string
	CreatedAt    time.Time
}

// TableName returns the database table name for GORM
func (BillAuditLog) TableName() string {
	return "bill_audit_logs"
}

// Operator identifies who performed an audited bill operation
type Operator struct {
	Name string
	IP   string
}

// NewBillAuditLog creates an audit record for a bill operation
func NewBillAuditLog(billID, agentID uuid.UUID, action AuditAction, operator Operator) *BillAuditLog {
	return &BillAuditLog{
		ID:           uuid.New(),
		BillID:       billID,
		AgentID:      agentID,
		Action:       action,
		OperatorName: operator.Name,
		OperatorIP:   operator.IP,
		CreatedAt:    time.Now(),
	}
}

// WithStatusChange records the status transition covered by the entry
func (l *BillAuditLog) WithStatusChange(from, to BillStatus) *BillAuditLog {
	l.FromStatus = from
	l.ToStatus = to
	return l
}

// WithSnapshots records the figures before and after the operation
func (l *BillAuditLog) WithSnapshots(old, new AuditDetail) *BillAuditLog {
	l.OldSnapshot = old
	l.NewSnapshot = new
	return l
}

// WithRemark attaches free-text context to the entry
func (l *BillAuditLog) WithRemark(remark string) *BillAuditLog {
	l.Remark = remark
	return l
}

// Snapshot captures a bill's figures for audit-log snapshots
func Snapshot(b *AgentBill) AuditDetail {
	return AuditDetail{
		"order_count":       fmt.Sprintf("%d", b.OrderCount),
		"total_amount":      b.TotalAmount.StringFixed(2),
		"total_profit":      b.TotalProfit.StringFixed(2),
		"commission_rate":   b.CommissionRate.String(),
		"commission_amount": b.CommissionAmount.StringFixed(2),
		"status":            string(b.Status),
	}
}
