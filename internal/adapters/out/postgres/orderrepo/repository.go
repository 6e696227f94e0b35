package orderrepo

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateStatus persists the aggregate's status and audit stamp, guarded by
// the status the caller based its transition on. A row whose status moved
// in the meantime is left untouched and ErrStaleStatus is returned.
func (r *GormOrderRepository) UpdateStatus(
	ctx context.Context, aggregate *order.Order, expected order.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	var statusUpdatedBy *uuid.UUID
	if updatedBy := aggregate.StatusUpdatedBy(); updatedBy != nil {
		raw := updatedBy.Bytes()
		statusUpdatedBy = &raw
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", aggregate.ID().Bytes(), int(expected)).
		Updates(map[string]any{
			"status":              int(aggregate.Status()),
			"status_updated_by":   statusUpdatedBy,
			"status_updated_at":   aggregate.StatusUpdatedAt(),
			"cancellation_reason": aggregate.CancellationReason(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrStaleStatus
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateAssignment persists the aggregate's assigned courier.
// The write is guarded the same way UpdateStatus is: the row must still be
// claimable (Ready or OutForDelivery) and either unclaimed or already held by
// this courier. A competing claim that landed first leaves zero rows affected
// and surfaces ports.ErrStaleStatus, so the losing courier sees a conflict
// instead of silently overwriting the winner.
func (r *GormOrderRepository) UpdateAssignment(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	var courierID *uuid.UUID
	if assigned := aggregate.AssignedCourier(); assigned != nil {
		raw := assigned.Bytes()
		courierID = &raw
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where(
			"id = ? AND status IN ? AND (assigned_courier_id IS NULL OR assigned_courier_id = ?)",
			aggregate.ID().Bytes(),
			[]int{int(order.Ready), int(order.OutForDelivery)},
			courierID,
		).
		Update("assigned_courier_id", courierID)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrStaleStatus
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}
