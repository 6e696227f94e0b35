// Package courierrepo persists courier positions.
// One row exists per courier; every heartbeat replaces it.
package courierrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// PositionDTO represents the database structure for a courier's last-known
// position. The courier identity is the primary key, so the table can never
// hold more than one row per courier.
type PositionDTO struct {
	CourierID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Latitude      float64
	Longitude     float64
	Address       string
	Region        string    `gorm:"index"`
	LastUpdatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for courier positions.
func (PositionDTO) TableName() string {
	return "courier_positions"
}

// fromDomain converts a position domain aggregate to its database representation.
func fromDomain(position *courier.Position) PositionDTO {
	return PositionDTO{
		CourierID:     position.CourierID().Bytes(),
		Latitude:      position.Point().Latitude(),
		Longitude:     position.Point().Longitude(),
		Address:       position.Address(),
		Region:        position.Region(),
		LastUpdatedAt: position.LastUpdatedAt(),
	}
}

// toDomain converts a database DTO to a position domain aggregate.
func toDomain(dto PositionDTO) (*courier.Position, error) {
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	return courier.RestorePosition(courierID, point, dto.Address, dto.Region, dto.LastUpdatedAt)
}
