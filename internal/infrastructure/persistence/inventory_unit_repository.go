package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agentdesk/backend/internal/domain/inventory"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryUnitRepository implements inventory.UnitRepository using GORM
type GormInventoryUnitRepository struct {
	db *gorm.DB
}

// NewGormInventoryUnitRepository creates a new GormInventoryUnitRepository
func NewGormInventoryUnitRepository(db *gorm.DB) *GormInventoryUnitRepository {
	return &GormInventoryUnitRepository{db: db}
}

// FindByID finds an inventory unit by its ID
func (r *GormInventoryUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryUnit, error) {
	var unit inventory.InventoryUnit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByIDs finds inventory units by their IDs
func (r *GormInventoryUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.InventoryUnit, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var units []inventory.InventoryUnit
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindAvailable lists AVAILABLE units for one room type on one date
func (r *GormInventoryUnitRepository) FindAvailable(ctx context.Context, roomTypeID uuid.UUID, date time.Time) ([]inventory.InventoryUnit, error) {
	var units []inventory.InventoryUnit
	if err := r.db.WithContext(ctx).
		Where("room_type_id = ? AND date = ? AND status = ?",
			roomTypeID, date.Format("2006-01-02"), inventory.UnitStatusAvailable).
		Order("selling_price ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Transition moves a unit from expectedStatus to newStatus as a single
// compare-and-set UPDATE. Returns false when the row no longer carries
// expectedStatus, meaning a concurrent request won the unit.
func (r *GormInventoryUnitRepository) Transition(ctx context.Context, id uuid.UUID, expectedStatus, newStatus inventory.UnitStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryUnit{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var _ inventory.UnitRepository = (*GormInventoryUnitRepository)(nil)

// availabilitySummary is the per-date availability rollup consumed by the
// hotel-contract module's calendar views
type availabilitySummary struct {
	HotelID        uuid.UUID `gorm:"primaryKey"`
	RoomTypeID     uuid.UUID `gorm:"primaryKey"`
	Date           time.Time `gorm:"primaryKey;type:date"`
	AvailableCount int64
	PendingCount   int64
	SoldCount      int64
	UpdatedAt      time.Time
}

// TableName returns the database table name for GORM
func (availabilitySummary) TableName() string {
	return "room_availability_summaries"
}

// GormSummarySynchronizer implements inventory.SummarySynchronizer by
// recounting a slot's units and upserting the rollup row
type GormSummarySynchronizer struct {
	db *gorm.DB
}

// NewGormSummarySynchronizer creates a new GormSummarySynchronizer
func NewGormSummarySynchronizer(db *gorm.DB) *GormSummarySynchronizer {
	return &GormSummarySynchronizer{db: db}
}

// SyncDate recomputes the availability summary for one (hotel, room type, date) slot
func (s *GormSummarySynchronizer) SyncDate(ctx context.Context, hotelID, roomTypeID uuid.UUID, date time.Time) error {
	type row struct {
		Status inventory.UnitStatus
		Count  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&inventory.InventoryUnit{}).
		Select("status, COUNT(*) AS count").
		Where("hotel_id = ? AND room_type_id = ? AND date = ?", hotelID, roomTypeID, date.Format("2006-01-02")).
		Group("status").
		Scan(&rows).Error; err != nil {
		return err
	}

	summary := availabilitySummary{
		HotelID:    hotelID,
		RoomTypeID: roomTypeID,
		Date:       date,
		UpdatedAt:  time.Now(),
	}
	for _, rw := range rows {
		switch rw.Status {
		case inventory.UnitStatusAvailable:
			summary.AvailableCount = rw.Count
		case inventory.UnitStatusPending:
			summary.PendingCount = rw.Count
		case inventory.UnitStatusSold:
			summary.SoldCount = rw.Count
		}
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hotel_id"}, {Name: "room_type_id"}, {Name: "date"}},
			UpdateAll: true,
		}).
		Create(&summary).Error
}

var _ inventory.SummarySynchronizer = (*GormSummarySynchronizer)(nil)
