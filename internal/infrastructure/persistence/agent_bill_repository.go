package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/agentdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormBillRepository implements billing.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID finds a bill by its ID
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.AgentBill, error) {
	var bill billing.AgentBill
	if err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindByBillNumber finds a bill by its business number
func (r *GormBillRepository) FindByBillNumber(ctx context.Context, billNumber string) (*billing.AgentBill, error) {
	var bill billing.AgentBill
	if err := r.db.WithContext(ctx).First(&bill, "bill_number = ?", billNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindByAgentAndMonth finds the unique bill for an agent and month.
// Returns nil without an error when no bill exists yet.
func (r *GormBillRepository) FindByAgentAndMonth(ctx context.Context, agentID uuid.UUID, billMonth string) (*billing.AgentBill, error) {
	var bill billing.AgentBill
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND bill_month = ?", agentID, billMonth).
		First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

// FindByMonth finds all bills for a settlement month
func (r *GormBillRepository) FindByMonth(ctx context.Context, billMonth string) ([]billing.AgentBill, error) {
	var bills []billing.AgentBill
	if err := r.db.WithContext(ctx).
		Where("bill_month = ?", billMonth).
		Order("bill_number ASC").
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// FindAll finds bills with pagination and filtering
func (r *GormBillRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.AgentBill], error) {
	base := r.db.WithContext(ctx).Model(&billing.AgentBill{})

	var total int64
	if err := applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var bills []billing.AgentBill
	if err := applyFilter(base.Session(&gorm.Session{}), filter).Find(&bills).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return shared.NewPaginated(bills, total, page, pageSize), nil
}

// Save creates or updates a bill
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.AgentBill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

// Delete removes a bill. Only used by forced regeneration.
func (r *GormBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.AgentBill{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// StatsByStatus aggregates count, total amount, and commission per status
// for one settlement month
func (r *GormBillRepository) StatsByStatus(ctx context.Context, billMonth string) (map[billing.BillStatus]billing.BillStats, error) {
	type row struct {
		Status           billing.BillStatus
		Count            int64
		TotalAmount      decimal.Decimal
		CommissionAmount decimal.Decimal
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&billing.AgentBill{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total_amount, COALESCE(SUM(commission_amount), 0) AS commission_amount").
		Where("bill_month = ?", billMonth).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[billing.BillStatus]billing.BillStats, len(rows))
	for _, rw := range rows {
		stats[rw.Status] = billing.BillStats{
			Count:            rw.Count,
			TotalAmount:      valueobject.NewMoneyCNY(rw.TotalAmount),
			CommissionAmount: valueobject.NewMoneyCNY(rw.CommissionAmount),
		}
	}
	return stats, nil
}

// GenerateBillNumber generates a unique bill number for a settlement month.
// Format: BILL + yyyymm + 4-digit monthly sequence (e.g. BILL2026070001).
func (r *GormBillRepository) GenerateBillNumber(ctx context.Context, billMonth string) (string, error) {
	month, err := time.Parse(billing.BillMonthLayout, billMonth)
	if err != nil {
		return "", fmt.Errorf("invalid bill month %q: %w", billMonth, err)
	}
	prefix := "BILL" + month.Format("200601")

	var lastNumber string
	dbErr := r.db.WithContext(ctx).
		Model(&billing.AgentBill{}).
		Where("bill_number LIKE ?", prefix+"%").
		Order("bill_number DESC").
		Limit(1).
		Pluck("bill_number", &lastNumber).Error
	if dbErr != nil && !errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return "", dbErr
	}

	var nextNum int64 = 1
	if lastNumber != "" {
		suffix := strings.TrimPrefix(lastNumber, prefix)
		var num int64
		if _, parseErr := fmt.Sscanf(suffix, "%d", &num); parseErr == nil {
			nextNum = num + 1
		}
	}

	for i := 0; i < 100 && nextNum <= 9999; i++ {
		billNumber := fmt.Sprintf("%s%04d", prefix, nextNum)
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&billing.AgentBill{}).
			Where("bill_number = ?", billNumber).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return billNumber, nil
		}
		nextNum++
	}

	return fmt.Sprintf("%s%08d", prefix, time.Now().UnixNano()%100000000), nil
}

var _ billing.BillRepository = (*GormBillRepository)(nil)
