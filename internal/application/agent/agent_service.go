// Package agent contains the application services for reseller agent
// administration.
package agent

import (
	"context"
	"time"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Service handles agent account administration
type Service struct {
	repo agent.Repository
}

// NewService creates a new agent Service
func NewService(repo agent.Repository) *Service {
	return &Service{repo: repo}
}

// CreateAgent registers a new agent with a generated code. The commission
// rate defaults from the level unless explicitly overridden.
func (s *Service) CreateAgent(ctx context.Context, req *CreateAgentRequest) (*AgentResponse, error) {
	ag, err := agent.NewAgent(req.CompanyName, req.ContactName, agent.Level(req.Level))
	if err != nil {
		return nil, err
	}

	if err := ag.SetContact(req.ContactName, req.ContactPhone, req.ContactEmail); err != nil {
		return nil, err
	}
	if req.CommissionRate != "" {
		rate, err := valueobject.NewRateFromString(req.CommissionRate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_COMMISSION_RATE", err.Error())
		}
		ag.SetCommissionRate(rate)
	}
	if req.SettlementType != "" {
		if err := ag.SetSettlementType(agent.SettlementType(req.SettlementType)); err != nil {
			return nil, err
		}
	}
	if req.ExpiresAt != "" {
		expiry, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_EXPIRY", "expires_at must be an RFC3339 timestamp")
		}
		ag.SetExpiry(&expiry)
	}
	ag.Remark = req.Remark

	code, err := s.repo.GenerateAgentCode(ctx)
	if err != nil {
		return nil, err
	}
	ag.Code = code

	if err := s.repo.Save(ctx, ag); err != nil {
		return nil, err
	}
	return ToAgentResponse(ag), nil
}

// GetAgent retrieves an agent by ID
func (s *Service) GetAgent(ctx context.Context, id uuid.UUID) (*AgentResponse, error) {
	ag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToAgentResponse(ag), nil
}

// GetAgentByCode retrieves an agent by its business code
func (s *Service) GetAgentByCode(ctx context.Context, code string) (*AgentResponse, error) {
	ag, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return ToAgentResponse(ag), nil
}

// ListAgents retrieves agents with pagination and filtering
func (s *Service) ListAgents(ctx context.Context, filter *AgentListFilter) (*shared.Paginated[AgentResponse], error) {
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
	if filter.Level != "" {
		domainFilter.Filters["level"] = filter.Level
	}

	agents, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]AgentResponse, 0, len(agents))
	for idx := range agents {
		items = append(items, *ToAgentResponse(&agents[idx]))
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// UpdateAgent applies the non-nil fields of the request
func (s *Service) UpdateAgent(ctx context.Context, id uuid.UUID, req *UpdateAgentRequest) (*AgentResponse, error) {
	ag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ContactName != nil || req.ContactPhone != nil || req.ContactEmail != nil {
		name := ag.ContactName
		phone := ag.ContactPhone
		email := ag.ContactEmail
		if req.ContactName != nil {
			name = *req.ContactName
		}
		if req.ContactPhone != nil {
			phone = *req.ContactPhone
		}
		if req.ContactEmail != nil {
			email = *req.ContactEmail
		}
		if err := ag.SetContact(name, phone, email); err != nil {
			return nil, err
		}
	}
	if req.Level != nil {
		if err := ag.SetLevel(agent.Level(*req.Level)); err != nil {
			return nil, err
		}
	}
	if req.CommissionRate != nil {
		rate, err := valueobject.NewRateFromString(*req.CommissionRate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_COMMISSION_RATE", err.Error())
		}
		ag.SetCommissionRate(rate)
	}
	if req.SettlementType != nil {
		if err := ag.SetSettlementType(agent.SettlementType(*req.SettlementType)); err != nil {
			return nil, err
		}
	}
	if req.ExpiresAt != nil {
		if *req.ExpiresAt == "" {
			ag.SetExpiry(nil)
		} else {
			expiry, err := time.Parse(time.RFC3339, *req.ExpiresAt)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_EXPIRY", "expires_at must be an RFC3339 timestamp")
			}
			ag.SetExpiry(&expiry)
		}
	}
	if req.Remark != nil {
		ag.Remark = *req.Remark
	}

	if err := s.repo.Save(ctx, ag); err != nil {
		return nil, err
	}
	return ToAgentResponse(ag), nil
}

// EnableAgent re-activates a disabled or frozen agent
func (s *Service) EnableAgent(ctx context.Context, id uuid.UUID) (*AgentResponse, error) {
	return s.mutate(ctx, id, func(ag *agent.Agent) error { return ag.Enable() })
}

// DisableAgent blocks an agent from placing orders
func (s *Service) DisableAgent(ctx context.Context, id uuid.UUID) (*AgentResponse, error) {
	return s.mutate(ctx, id, func(ag *agent.Agent) error {
		ag.Disable()
		return nil
	})
}

// FreezeAgent suspends an agent pending review
func (s *Service) FreezeAgent(ctx context.Context, id uuid.UUID) (*AgentResponse, error) {
	return s.mutate(ctx, id, func(ag *agent.Agent) error {
		ag.Freeze()
		return nil
	})
}

// DeleteAgent removes an agent record
func (s *Service) DeleteAgent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(ag *agent.Agent) error) (*AgentResponse, error) {
	ag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(ag); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ag); err != nil {
		return nil, err
	}
	return ToAgentResponse(ag), nil
}
