package http

import (
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/order"
)

// updateStatusRequest is the body of PATCH /orders/:id/status.
// Status uses the external vocabulary; reason is required only when
// cancelling.
type updateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// heartbeatRequest is the body of POST /couriers/location.
type heartbeatRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Region    string  `json:"region,omitempty"`
}

type geoPointBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type pickupLocationBody struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Address string       `json:"address"`
	Region  string       `json:"region,omitempty"`
	Point   geoPointBody `json:"point"`
}

type deliveryAddressBody struct {
	Address string       `json:"address"`
	Point   geoPointBody `json:"point"`
}

type pricingBody struct {
	Subtotal    int64 `json:"subtotal"`
	Extras      int64 `json:"extras"`
	Discount    int64 `json:"discount"`
	DeliveryFee int64 `json:"deliveryFee"`
	Total       int64 `json:"total"`
}

// orderBody is the order projection returned by write endpoints.
// Status carries the external vocabulary name.
type orderBody struct {
	ID                 string               `json:"id"`
	OrderNumber        string               `json:"orderNumber"`
	Status             string               `json:"status"`
	Fulfillment        string               `json:"fulfillment"`
	ItemCount          int                  `json:"itemCount"`
	Pricing            pricingBody          `json:"pricing"`
	PickupLocation     pickupLocationBody   `json:"pickupLocation"`
	DeliveryAddress    *deliveryAddressBody `json:"deliveryAddress,omitempty"`
	AssignedCourierID  *string              `json:"assignedCourierId,omitempty"`
	EstimatedReadyTime *time.Time           `json:"estimatedReadyTime,omitempty"`
	StatusUpdatedAt    time.Time            `json:"statusUpdatedAt"`
	CancellationReason string               `json:"cancellationReason,omitempty"`
}

// orderBodyFrom projects the aggregate into its API shape.
func orderBodyFrom(aggregate *order.Order) orderBody {
	pickup := aggregate.PickupLocation()

	body := orderBody{
		ID:          aggregate.ID().String(),
		OrderNumber: aggregate.OrderNumber(),
		Status:      aggregate.Status().ExternalName(),
		Fulfillment: aggregate.Fulfillment().String(),
		ItemCount:   aggregate.ItemCount(),
		Pricing: pricingBody{
			Subtotal:    aggregate.Pricing().Subtotal,
			Extras:      aggregate.Pricing().Extras,
			Discount:    aggregate.Pricing().Discount,
			DeliveryFee: aggregate.Pricing().DeliveryFee,
			Total:       aggregate.Pricing().Total,
		},
		PickupLocation: pickupLocationBody{
			ID:      pickup.ID.String(),
			Name:    pickup.Name,
			Address: pickup.Address,
			Region:  pickup.Region,
			Point: geoPointBody{
				Latitude:  pickup.Point.Latitude(),
				Longitude: pickup.Point.Longitude(),
			},
		},
		StatusUpdatedAt:    aggregate.StatusUpdatedAt(),
		CancellationReason: aggregate.CancellationReason(),
	}

	if address := aggregate.DeliveryAddress(); address != nil {
		body.DeliveryAddress = &deliveryAddressBody{
			Address: address.Address,
			Point: geoPointBody{
				Latitude:  address.Point.Latitude(),
				Longitude: address.Point.Longitude(),
			},
		}
	}

	if courierID := aggregate.AssignedCourier(); courierID != nil {
		id := courierID.String()
		body.AssignedCourierID = &id
	}

	if ready := aggregate.EstimatedReadyTime(); !ready.IsZero() {
		body.EstimatedReadyTime = &ready
	}

	return body
}

// notificationBody is one feed entry of GET /notifications.
type notificationBody struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Payload   map[string]any `json:"payload,omitempty"`
	Read      bool           `json:"read"`
	ReadAt    *time.Time     `json:"readAt,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// notificationPageBody is the paginated feed envelope.
type notificationPageBody struct {
	Items   []notificationBody `json:"items"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"perPage"`
}

func notificationPageFrom(page queries.GetNotificationsQueryResponse) notificationPageBody {
	items := make([]notificationBody, len(page.Items))
	for i, view := range page.Items {
		items[i] = notificationBody{
			ID:        view.ID.String(),
			Type:      view.Kind,
			Title:     view.Title,
			Body:      view.Body,
			Payload:   view.Payload,
			Read:      view.Read,
			ReadAt:    view.ReadAt,
			CreatedAt: view.CreatedAt,
		}
	}

	return notificationPageBody{
		Items:   items,
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	}
}
