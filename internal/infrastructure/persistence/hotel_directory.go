package persistence

import (
	"context"
	"errors"

	"github.com/agentdesk/backend/internal/domain/hotel"
	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormHotelDirectory implements hotel.Directory using GORM. It only reads:
// hotel and room-type rows are owned by the hotel-profile context.
type GormHotelDirectory struct {
	db *gorm.DB
}

// NewGormHotelDirectory creates a new GormHotelDirectory
func NewGormHotelDirectory(db *gorm.DB) *GormHotelDirectory {
	return &GormHotelDirectory{db: db}
}

// FindHotelByID resolves a hotel reference
func (r *GormHotelDirectory) FindHotelByID(ctx context.Context, id uuid.UUID) (*hotel.Hotel, error) {
	var h hotel.Hotel
	if err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// FindRoomTypeByID resolves a room-type reference
func (r *GormHotelDirectory) FindRoomTypeByID(ctx context.Context, id uuid.UUID) (*hotel.RoomType, error) {
	var rt hotel.RoomType
	if err := r.db.WithContext(ctx).First(&rt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// FindRoomTypeByNames resolves a (hotel name, room type name) pair, the
// lookup path used by spreadsheet imports
func (r *GormHotelDirectory) FindRoomTypeByNames(ctx context.Context, hotelName, roomTypeName string) (*hotel.RoomType, error) {
	var rt hotel.RoomType
	err := r.db.WithContext(ctx).
		Joins("JOIN hotels ON hotels.id = room_types.hotel_id").
		Where("hotels.name = ? AND room_types.name = ?", hotelName, roomTypeName).
		First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

var _ hotel.Directory = (*GormHotelDirectory)(nil)
