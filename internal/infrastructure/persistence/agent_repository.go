package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentdesk/backend/internal/domain/agent"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAgentRepository implements agent.Repository using GORM
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository creates a new GormAgentRepository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

// FindByID finds an agent by its ID
func (r *GormAgentRepository) FindByID(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	var ag agent.Agent
	if err := r.db.WithContext(ctx).First(&ag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ag, nil
}

// FindByCode finds an agent by its business code
func (r *GormAgentRepository) FindByCode(ctx context.Context, code string) (*agent.Agent, error) {
	var ag agent.Agent
	if err := r.db.WithContext(ctx).First(&ag, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ag, nil
}

// FindAll finds agents with filtering and pagination
func (r *GormAgentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]agent.Agent, error) {
	var agents []agent.Agent
	query := applyFilter(r.db.WithContext(ctx).Model(&agent.Agent{}), filter)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("company_name ILIKE ? OR contact_name ILIKE ? OR code ILIKE ?", pattern, pattern, pattern)
	}
	if err := query.Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

// FindActive finds agents in ACTIVE status whose account has not expired
func (r *GormAgentRepository) FindActive(ctx context.Context) ([]agent.Agent, error) {
	var agents []agent.Agent
	if err := r.db.WithContext(ctx).
		Where("status = ?", agent.StatusActive).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("code ASC").
		Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

// Save creates or updates an agent. An agent arriving without a code is
// assigned one before the write, so every persistence path produces a
// coded agent, not just the create flow.
func (r *GormAgentRepository) Save(ctx context.Context, ag *agent.Agent) error {
	if ag.Code == "" {
		code, err := r.GenerateAgentCode(ctx)
		if err != nil {
			return err
		}
		ag.Code = code
	}
	return r.db.WithContext(ctx).Save(ag).Error
}

// Delete removes an agent
func (r *GormAgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&agent.Agent{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts agents matching the filter
func (r *GormAgentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&agent.Agent{}), filter)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("company_name ILIKE ? OR contact_name ILIKE ? OR code ILIKE ?", pattern, pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if an agent code is already taken
func (r *GormAgentRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&agent.Agent{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateAgentCode generates a unique agent code.
// Format: AGT + yyyymmdd + 2-digit daily sequence (e.g. AGT2026083101).
func (r *GormAgentRepository) GenerateAgentCode(ctx context.Context) (string, error) {
	prefix := "AGT" + time.Now().Format("20060102")

	var lastCode string
	err := r.db.WithContext(ctx).
		Model(&agent.Agent{}).
		Where("code LIKE ?", prefix+"%").
		Order("code DESC").
		Limit(1).
		Pluck("code", &lastCode).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if lastCode != "" {
		suffix := strings.TrimPrefix(lastCode, prefix)
		var num int64
		if _, parseErr := fmt.Sscanf(suffix, "%d", &num); parseErr == nil {
			nextNum = num + 1
		}
	}

	for i := 0; i < 100 && nextNum <= 99; i++ {
		code := fmt.Sprintf("%s%02d", prefix, nextNum)
		exists, err := r.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		nextNum++
	}

	// Daily sequence exhausted, widen to a timestamp-derived suffix
	return fmt.Sprintf("%s%06d", prefix, time.Now().UnixNano()%1000000), nil
}

var _ agent.Repository = (*GormAgentRepository)(nil)
