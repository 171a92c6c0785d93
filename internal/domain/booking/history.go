package booking

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChangeType classifies entries in an order's change log
type ChangeType string

const (
	ChangeTypeCreated        ChangeType = "CREATED"
	ChangeTypeConfirmed      ChangeType = "CONFIRMED"
	ChangeTypeCanceled       ChangeType = "CANCELED"
	ChangeTypeClosed         ChangeType = "CLOSED"
	ChangeTypeAuditStatus    ChangeType = "AUDIT_STATUS"
	ChangeTypeItemUpdated    ChangeType = "ITEM_UPDATED"
	ChangeTypeContractSwitch ChangeType = "CONTRACT_SWITCH"
)

// ChangeSet holds the field-level detail of a change as a flat key/value map,
// stored as a JSON column.
type ChangeSet map[string]string

// Value implements driver.Valuer for database storage
func (c ChangeSet) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal change set: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (c *ChangeSet) Scan(value interface{}) error {
	if value == nil {
		*c = ChangeSet{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ChangeSet", value)
	}
	if len(data) == 0 {
		*c = ChangeSet{}
		return nil
	}
	return json.Unmarshal(data, c)
}

// ChangeEntry is one append-only record in an order's change log. Entries are
// keyed by (OrderID, Seq) and never updated after insert.
type ChangeEntry struct {
	OrderID    uuid.UUID  `gorm:"primaryKey"`
	Seq        int        `gorm:"primaryKey;autoIncrement:false"`
	Type       ChangeType `gorm:"not null"`
	Changes    ChangeSet  `gorm:"type:jsonb"`
	OperatorID uuid.UUID
	CreatedAt  time.Time
}

// TableName returns the database table name for GORM
func (ChangeEntry) TableName() string {
	return "order_change_entries"
}

// ContractChangeEntry records one contract switch on an order item, keyed by
// (OrderItemID, Seq).
type ContractChangeEntry struct {
	OrderItemID   uuid.UUID `gorm:"primaryKey"`
	Seq           int       `gorm:"primaryKey;autoIncrement:false"`
	OldContractID uuid.UUID
	NewContractID uuid.UUID
	Reason        string
	OperatorID    uuid.UUID
	CreatedAt     time.Time
}

// TableName returns the database table name for GORM
func (ContractChangeEntry) TableName() string {
	return "order_item_contract_changes"
}
