package agent

import (
	"fmt"
	"time"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
)

// Level represents the tier of an agent, which determines the default
// commission rate applied to newly created agents of that tier.
type Level string

const (
	LevelA Level = "A"
	LevelB Level = "B"
	LevelC Level = "C"
)

// IsValid checks if the level is a valid Level
func (l Level) IsValid() bool {
	switch l {
	case LevelA, LevelB, LevelC:
		return true
	}
	return false
}

// DefaultCommissionRate returns the default commission rate for the level
func (l Level) DefaultCommissionRate() valueobject.Rate {
	switch l {
	case LevelA:
		return valueobject.MustRate("10")
	case LevelB:
		return valueobject.MustRate("8")
	default:
		return valueobject.MustRate("5")
	}
}

// Status represents the lifecycle status of an agent account
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
	StatusFrozen   Status = "FROZEN"
	StatusExpired  Status = "EXPIRED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDisabled, StatusFrozen, StatusExpired:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// SettlementType represents how often an agent's bills are settled
type SettlementType string

const (
	SettlementMonthly     SettlementType = "MONTHLY"
	SettlementHalfMonthly SettlementType = "HALF_MONTHLY"
)

// IsValid checks if the settlement type is valid
func (s SettlementType) IsValid() bool {
	return s == SettlementMonthly || s == SettlementHalfMonthly
}

// Agent represents a reseller account in the agent channel.
// The human-facing code is generated by the repository on first save when
// empty (AGT + date + sequence).
type Agent struct {
	shared.BaseAggregateRoot
	Code           string
	CompanyName    string
	ContactName    string
	ContactPhone   string
	ContactEmail   string
	Level          Level
	CommissionRate valueobject.Rate
	SettlementType SettlementType
	Status         Status
	ExpiresAt      *time.Time
	Remark         string
}

// NewAgent creates a new agent with the level's default commission rate
func NewAgent(companyName, contactName string, level Level) (*Agent, error) {
	if companyName == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(companyName) > 200 {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	if contactName == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot be empty")
	}
	if !level.IsValid() {
		return nil, shared.NewDomainError("INVALID_LEVEL", fmt.Sprintf("Unknown agent level %q", level))
	}

	return &Agent{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyName:       companyName,
		ContactName:       contactName,
		Level:             level,
		CommissionRate:    level.DefaultCommissionRate(),
		SettlementType:    SettlementMonthly,
		Status:            StatusActive,
	}, nil
}

// IsActive reports whether the agent may currently place orders:
// status ACTIVE and either no expiry or an expiry in the future.
func (a *Agent) IsActive() bool {
	if a.Status != StatusActive {
		return false
	}
	if a.ExpiresAt != nil && !a.ExpiresAt.After(time.Now()) {
		return false
	}
	return true
}

// SetContact updates the agent's contact information
func (a *Agent) SetContact(name, phone, email string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot be empty")
	}
	a.ContactName = name
	a.ContactPhone = phone
	a.ContactEmail = email
	a.UpdatedAt = time.Now()
	return nil
}

// SetLevel changes the agent's level. The commission rate is not rewritten:
// an explicitly negotiated rate survives level changes.
func (a *Agent) SetLevel(level Level) error {
	if !level.IsValid() {
		return shared.NewDomainError("INVALID_LEVEL", fmt.Sprintf("Unknown agent level %q", level))
	}
	a.Level = level
	a.UpdatedAt = time.Now()
	return nil
}

// SetCommissionRate overrides the agent's commission rate
func (a *Agent) SetCommissionRate(rate valueobject.Rate) {
	a.CommissionRate = rate
	a.UpdatedAt = time.Now()
}

// SetSettlementType changes the settlement cadence
func (a *Agent) SetSettlementType(t SettlementType) error {
	if !t.IsValid() {
		return shared.NewDomainError("INVALID_SETTLEMENT_TYPE", fmt.Sprintf("Unknown settlement type %q", t))
	}
	a.SettlementType = t
	a.UpdatedAt = time.Now()
	return nil
}

// SetExpiry sets or clears the account expiry date
func (a *Agent) SetExpiry(expiresAt *time.Time) {
	a.ExpiresAt = expiresAt
	a.UpdatedAt = time.Now()
}

// Enable reactivates a disabled or frozen agent
func (a *Agent) Enable() error {
	if a.Status == StatusExpired {
		return shared.NewDomainError("INVALID_STATE", "Expired agents cannot be re-enabled")
	}
	a.Status = StatusActive
	a.UpdatedAt = time.Now()
	return nil
}

// Disable blocks the agent from placing new orders
func (a *Agent) Disable() {
	a.Status = StatusDisabled
	a.UpdatedAt = time.Now()
}

// Freeze suspends the agent pending review
func (a *Agent) Freeze() {
	a.Status = StatusFrozen
	a.UpdatedAt = time.Now()
}

// MarkExpired moves the agent to the EXPIRED terminal status
func (a *Agent) MarkExpired() {
	a.Status = StatusExpired
	a.UpdatedAt = time.Now()
}

// TableName returns the database table name for GORM
func (Agent) TableName() string {
	return "agents"
}
