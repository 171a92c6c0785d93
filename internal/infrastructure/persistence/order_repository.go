package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentdesk/backend/internal/domain/booking"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements booking.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.created_at ASC")
		}).
		Preload("Items.ContractChanges", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_item_contract_changes.seq ASC")
		}).
		Preload("ChangeLog", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_change_entries.seq ASC")
		})
}

// FindByID finds an order with its items and change log
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Order, error) {
	var order booking.Order
	if err := r.preloaded(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds an order by its business number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*booking.Order, error) {
	var order booking.Order
	if err := r.preloaded(ctx).First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds orders with pagination and filtering
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[booking.Order], error) {
	return r.findPaginated(ctx, r.db.WithContext(ctx).Model(&booking.Order{}), filter)
}

// FindByAgent finds orders belonging to an agent
func (r *GormOrderRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[booking.Order], error) {
	base := r.db.WithContext(ctx).Model(&booking.Order{}).Where("agent_id = ?", agentID)
	return r.findPaginated(ctx, base, filter)
}

func (r *GormOrderRepository) findPaginated(ctx context.Context, base *gorm.DB, filter shared.Filter) (*shared.Paginated[booking.Order], error) {
	var total int64
	if err := applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []booking.Order
	query := applyFilter(base.Session(&gorm.Session{}), filter).
		Preload("Items").
		Preload("Items.ContractChanges")
	if err := query.Find(&orders).Error; err != nil {
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
	return shared.NewPaginated(orders, total, page, pageSize), nil
}

// FindConfirmedByAgentInPeriod finds CONFIRMED and CLOSED orders for an agent
// that were created inside [from, to). An order confirmed after the month
// closes still bills into the month it was placed in.
func (r *GormOrderRepository) FindConfirmedByAgentInPeriod(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]booking.Order, error) {
	var orders []booking.Order
	err := r.preloaded(ctx).
		Where("agent_id = ?", agentID).
		Where("status IN ?", []booking.OrderStatus{booking.OrderStatusConfirmed, booking.OrderStatusClosed}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("order_number ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists an order with its items, contract change history, and any
// new change log entries. Change log rows are append-only: existing
// (order_id, seq) pairs are left untouched.
func (r *GormOrderRepository) Save(ctx context.Context, order *booking.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return err
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Omit(clause.Associations).Save(&order.Items[i]).Error; err != nil {
				return err
			}
			for j := range order.Items[i].ContractChanges {
				order.Items[i].ContractChanges[j].OrderItemID = order.Items[i].ID
			}
			if len(order.Items[i].ContractChanges) > 0 {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&order.Items[i].ContractChanges).Error; err != nil {
					return err
				}
			}
		}

		if len(order.ChangeLog) > 0 {
			for i := range order.ChangeLog {
				order.ChangeLog[i].OrderID = order.ID
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&order.ChangeLog).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// CountByStatus counts orders per lifecycle status
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[booking.OrderStatus]int64, error) {
	type row struct {
		Status booking.OrderStatus
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&booking.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[booking.OrderStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

// ExistsByOrderNumber checks if an order number is already taken
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&booking.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderNumber generates a unique order number.
// Format: ORD + yyyymmdd + 4-digit daily sequence (e.g. ORD202608310001).
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	prefix := "ORD" + time.Now().Format("20060102")

	var lastNumber string
	err := r.db.WithContext(ctx).
		Model(&booking.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &lastNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
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
		orderNumber := fmt.Sprintf("%s%04d", prefix, nextNum)
		exists, err := r.ExistsByOrderNumber(ctx, orderNumber)
		if err != nil {
			return "", err
		}
		if !exists {
			return orderNumber, nil
		}
		nextNum++
	}

	// Daily sequence exhausted, widen to a timestamp-derived suffix
	return fmt.Sprintf("%s%08d", prefix, time.Now().UnixNano()%100000000), nil
}

var _ booking.Repository = (*GormOrderRepository)(nil)
