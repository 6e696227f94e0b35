package commands_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

// restoreOrderIn builds a persisted-looking order in the given status.
func restoreOrderIn(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	point, err := kernel.NewGeoPoint(6.4281, 3.4219)
	require.NoError(t, err)
	deliveryPoint, err := kernel.NewGeoPoint(6.4541, 3.3947)
	require.NoError(t, err)

	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(), "FD-20001", kernel.NewUUID(),
		order.DoorDelivery,
		order.Pricing{Subtotal: 300000, Extras: 0, Discount: 0, DeliveryFee: 50000, Total: 350000},
		2,
		order.PickupLocation{
			ID:      kernel.NewUUID(),
			Name:    "Suya Spot",
			Address: "4 Admiralty Way",
			Region:  "Lagos",
			Point:   point,
		},
		&order.DeliveryAddress{Address: "18 Fola Osibo Rd", Point: deliveryPoint},
		status, nil,
		time.Now().Add(20*time.Minute), "8311",
		nil, time.Now().UTC(), "",
	)
	require.NoError(t, err)
	return aggregate
}
