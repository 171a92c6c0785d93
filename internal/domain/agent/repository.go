package agent

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence operations for agents
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	FindByCode(ctx context.Context, code string) (*Agent, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Agent, error)
	// FindActive returns every agent for which IsActive() holds, used by
	// the monthly bill generation sweep.
	FindActive(ctx context.Context) ([]Agent, error)
	Save(ctx context.Context, agent *Agent) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// GenerateAgentCode produces a unique agent code: AGT + yyyymmdd + a
	// 2-digit daily sequence, widening to a timestamp-derived suffix when
	// the daily sequence or the retry budget is exhausted.
	GenerateAgentCode(ctx context.Context) (string, error)
}
