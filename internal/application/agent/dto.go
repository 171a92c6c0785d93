package agent

import (
	"time"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/google/uuid"
)

// CreateAgentRequest registers a new reseller agent
type CreateAgentRequest struct {
	CompanyName    string `json:"company_name" binding:"required,max=200"`
	ContactName    string `json:"contact_name" binding:"required,max=100"`
	ContactPhone   string `json:"contact_phone,omitempty"`
	ContactEmail   string `json:"contact_email,omitempty" binding:"omitempty,email"`
	Level          string `json:"level" binding:"required,oneof=A B C"`
	CommissionRate string `json:"commission_rate,omitempty"`
	SettlementType string `json:"settlement_type,omitempty" binding:"omitempty,oneof=MONTHLY HALF_MONTHLY"`
	ExpiresAt      string `json:"expires_at,omitempty"`
	Remark         string `json:"remark,omitempty"`
}

// UpdateAgentRequest updates mutable agent fields. Nil pointers leave the
// field untouched.
type UpdateAgentRequest struct {
	ContactName    *string `json:"contact_name,omitempty"`
	ContactPhone   *string `json:"contact_phone,omitempty"`
	ContactEmail   *string `json:"contact_email,omitempty" binding:"omitempty,email"`
	Level          *string `json:"level,omitempty" binding:"omitempty,oneof=A B C"`
	CommissionRate *string `json:"commission_rate,omitempty"`
	SettlementType *string `json:"settlement_type,omitempty" binding:"omitempty,oneof=MONTHLY HALF_MONTHLY"`
	ExpiresAt      *string `json:"expires_at,omitempty"`
	Remark         *string `json:"remark,omitempty"`
}

// AgentListFilter represents filter options for agent lists
type AgentListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE DISABLED FROZEN EXPIRED"`
	Level    string `form:"level" binding:"omitempty,oneof=A B C"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AgentResponse represents an agent in API responses
type AgentResponse struct {
	ID             uuid.UUID  `json:"id"`
	Code           string     `json:"code"`
	CompanyName    string     `json:"company_name"`
	ContactName    string     `json:"contact_name"`
	ContactPhone   string     `json:"contact_phone,omitempty"`
	ContactEmail   string     `json:"contact_email,omitempty"`
	Level          string     `json:"level"`
	CommissionRate string     `json:"commission_rate"`
	SettlementType string     `json:"settlement_type"`
	Status         string     `json:"status"`
	Active         bool       `json:"active"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	Remark         string     `json:"remark,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// ToAgentResponse converts a domain agent to its API representation
func ToAgentResponse(ag *agent.Agent) *AgentResponse {
	return &AgentResponse{
		ID:             ag.ID,
		Code:           ag.Code,
		CompanyName:    ag.CompanyName,
		ContactName:    ag.ContactName,
		ContactPhone:   ag.ContactPhone,
		ContactEmail:   ag.ContactEmail,
		Level:          string(ag.Level),
		CommissionRate: ag.CommissionRate.String(),
		SettlementType: string(ag.SettlementType),
		Status:         string(ag.Status),
		Active:         ag.IsActive(),
		ExpiresAt:      ag.ExpiresAt,
		Remark:         ag.Remark,
		CreatedAt:      ag.CreatedAt,
		UpdatedAt:      ag.UpdatedAt,
		Version:        ag.Version,
	}
}
