// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed for the hot paths: status scans and courier assignment lookups.
type OrderDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber string     `gorm:"uniqueIndex"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;index"`
	Fulfillment int        `gorm:"type:smallint"`
	Pricing     PricingDTO `gorm:"embedded;embeddedPrefix:pricing_"`
	ItemCount   int

	Pickup PickupDTO `gorm:"embedded;embeddedPrefix:pickup_"`

	// Delivery destination, NULL for pickup orders.
	DeliveryAddress   *string
	DeliveryLatitude  *float64
	DeliveryLongitude *float64

	Status                   int        `gorm:"type:smallint;index"`
	AssignedCourierID        *uuid.UUID `gorm:"type:uuid;index"`
	EstimatedReadyTime       time.Time
	DeliveryConfirmationCode string

	StatusUpdatedBy    *uuid.UUID `gorm:"type:uuid"`
	StatusUpdatedAt    time.Time
	CancellationReason string
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// PricingDTO is the embedded monetary breakdown, minor-currency units.
type PricingDTO struct {
	Subtotal    int64
	Extras      int64
	Discount    int64
	DeliveryFee int64
	Total       int64
}

// PickupDTO is the embedded pickup location snapshot within the order row.
type PickupDTO struct {
	ID        uuid.UUID `gorm:"type:uuid"`
	Name      string
	Address   string
	Region    string `gorm:"index"`
	Latitude  float64
	Longitude float64
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	pickup := aggregate.PickupLocation()

	dto := OrderDTO{
		ID:          aggregate.ID().Bytes(),
		OrderNumber: aggregate.OrderNumber(),
		CustomerID:  aggregate.CustomerID().Bytes(),
		Fulfillment: int(aggregate.Fulfillment()),
		Pricing: PricingDTO{
			Subtotal:    aggregate.Pricing().Subtotal,
			Extras:      aggregate.Pricing().Extras,
			Discount:    aggregate.Pricing().Discount,
			DeliveryFee: aggregate.Pricing().DeliveryFee,
			Total:       aggregate.Pricing().Total,
		},
		ItemCount: aggregate.ItemCount(),
		Pickup: PickupDTO{
			ID:        pickup.ID.Bytes(),
			Name:      pickup.Name,
			Address:   pickup.Address,
			Region:    pickup.Region,
			Latitude:  pickup.Point.Latitude(),
			Longitude: pickup.Point.Longitude(),
		},
		Status:                   int(aggregate.Status()),
		EstimatedReadyTime:       aggregate.EstimatedReadyTime(),
		DeliveryConfirmationCode: aggregate.DeliveryConfirmationCode(),
		StatusUpdatedAt:          aggregate.StatusUpdatedAt(),
		CancellationReason:       aggregate.CancellationReason(),
	}

	if address := aggregate.DeliveryAddress(); address != nil {
		text := address.Address
		latitude := address.Point.Latitude()
		longitude := address.Point.Longitude()
		dto.DeliveryAddress = &text
		dto.DeliveryLatitude = &latitude
		dto.DeliveryLongitude = &longitude
	}

	if courierID := aggregate.AssignedCourier(); courierID != nil {
		raw := courierID.Bytes()
		dto.AssignedCourierID = &raw
	}

	if updatedBy := aggregate.StatusUpdatedBy(); updatedBy != nil {
		raw := updatedBy.Bytes()
		dto.StatusUpdatedBy = &raw
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder, so no state is regenerated.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	pickupID, err := kernel.UUIDFromBytes(dto.Pickup.ID[:])
	if err != nil {
		return nil, err
	}

	pickupPoint, err := kernel.NewGeoPoint(dto.Pickup.Latitude, dto.Pickup.Longitude)
	if err != nil {
		return nil, err
	}

	var deliveryAddress *order.DeliveryAddress
	if dto.DeliveryAddress != nil && dto.DeliveryLatitude != nil && dto.DeliveryLongitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.DeliveryLatitude, *dto.DeliveryLongitude)
		if pointErr != nil {
			return nil, pointErr
		}
		deliveryAddress = &order.DeliveryAddress{
			Address: *dto.DeliveryAddress,
			Point:   point,
		}
	}

	assignedCourierID, err := optionalUUID(dto.AssignedCourierID)
	if err != nil {
		return nil, err
	}

	statusUpdatedBy, err := optionalUUID(dto.StatusUpdatedBy)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		customerID,
		order.FulfillmentType(dto.Fulfillment),
		order.Pricing{
			Subtotal:    dto.Pricing.Subtotal,
			Extras:      dto.Pricing.Extras,
			Discount:    dto.Pricing.Discount,
			DeliveryFee: dto.Pricing.DeliveryFee,
			Total:       dto.Pricing.Total,
		},
		dto.ItemCount,
		order.PickupLocation{
			ID:      pickupID,
			Name:    dto.Pickup.Name,
			Address: dto.Pickup.Address,
			Region:  dto.Pickup.Region,
			Point:   pickupPoint,
		},
		deliveryAddress,
		order.Status(dto.Status),
		assignedCourierID,
		dto.EstimatedReadyTime,
		dto.DeliveryConfirmationCode,
		statusUpdatedBy,
		dto.StatusUpdatedAt,
		dto.CancellationReason,
	)
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}

	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
