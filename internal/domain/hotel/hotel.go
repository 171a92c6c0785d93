// Package hotel holds the narrow read-only view of the hotel-profile
// context that the agent channel consumes. Hotels, room types, and their
// contracts are owned elsewhere; this package only resolves references.
package hotel

import (
	"context"

	"github.com/agentdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Hotel is a reference projection of a hotel profile
type Hotel struct {
	shared.BaseEntity
	Name string
	City string
}

// TableName returns the database table name for GORM
func (Hotel) TableName() string {
	return "hotels"
}

// RoomType is a reference projection of a hotel room type
type RoomType struct {
	shared.BaseEntity
	HotelID uuid.UUID
	Name    string
}

// TableName returns the database table name for GORM
func (RoomType) TableName() string {
	return "room_types"
}

// Directory resolves hotel and room-type references
type Directory interface {
	FindHotelByID(ctx context.Context, id uuid.UUID) (*Hotel, error)
	FindRoomTypeByID(ctx context.Context, id uuid.UUID) (*RoomType, error)
	// FindRoomTypeByNames resolves a (hotel name, room type name) pair, the
	// lookup path used by spreadsheet imports.
	FindRoomTypeByNames(ctx context.Context, hotelName, roomTypeName string) (*RoomType, error)
}
