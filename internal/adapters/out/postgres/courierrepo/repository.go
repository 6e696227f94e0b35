package courierrepo

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierPositionRepository implements CourierPositionRepository using GORM.
type GormCourierPositionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCourierPositionRepository creates a new GORM courier position repository.
func NewGormCourierPositionRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierPositionRepository {
	return &GormCourierPositionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Upsert writes the position, overwriting any previous row for the same
// courier. Concurrent heartbeats resolve last-writer-wins at the row level;
// no ordering between them is guaranteed or needed.
func (r *GormCourierPositionRepository) Upsert(ctx context.Context, position *courier.Position) error {
	if err := position.Validate(); err != nil {
		return err
	}

	dto := fromDomain(position)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "courier_id"}},
		UpdateAll: true,
	}).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(position.CourierID(), position)
	return nil
}

// Get retrieves the last-known position of a courier.
func (r *GormCourierPositionRepository) Get(ctx context.Context, courierID kernel.UUID) (*courier.Position, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dto PositionDTO
	if err := r.db.WithContext(ctx).First(&dto, "courier_id = ?", courierID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier position", courierID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves the last-known position of every courier.
// The result is a snapshot; freshness filtering is the caller's concern.
func (r *GormCourierPositionRepository) GetAll(ctx context.Context) ([]*courier.Position, error) {
	var dtos []PositionDTO
	if err := r.db.WithContext(ctx).Find(&dtos).Error; err != nil {
		return nil, err
	}

	positions := make([]*courier.Position, 0, len(dtos))
	for _, dto := range dtos {
		position, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}

	return positions, nil
}
