package dispatch

import "strconv"

// GeoPointPayload is a coordinate as it appears on the wire.
type GeoPointPayload struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// PickupLocationPayload is the pickup stop as it appears on the wire.
type PickupLocationPayload struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// DeliveryAddressPayload is the drop-off stop as it appears on the wire.
type DeliveryAddressPayload struct {
	Address     string          `json:"address"`
	Coordinates GeoPointPayload `json:"coordinates"`
}

// OrderReadyEvent announces an order waiting for a rider. It carries enough
// for a rider client to decide whether to claim without a follow-up request.
type OrderReadyEvent struct {
	OrderID         string                  `json:"orderId"`
	OrderNumber     string                  `json:"orderNumber"`
	PickupLocation  PickupLocationPayload   `json:"pickupLocation"`
	DeliveryAddress *DeliveryAddressPayload `json:"deliveryAddress,omitempty"`
	Total           int64                   `json:"total"`
	FormattedTotal  string                  `json:"formattedTotal"`
	ItemCount       int                     `json:"itemCount"`
	Timestamp       string                  `json:"timestamp"`
}

// EventName implements ports.Event.
func (OrderReadyEvent) EventName() string {
	return "order:ready"
}

// OrderPickedUpEvent tells the assigned rider the pickup was recorded.
type OrderPickedUpEvent struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
}

// EventName implements ports.Event.
func (OrderPickedUpEvent) EventName() string {
	return "order:picked_up"
}

// formatMinorUnits renders an amount held in minor units as a display
// string, e.g. 240000 becomes "₦2,400.00".
func formatMinorUnits(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	major := strconv.FormatInt(amount/100, 10)
	grouped := make([]byte, 0, len(major)+len(major)/3)
	for i := range len(major) {
		if i > 0 && (len(major)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, major[i])
	}

	return sign + "₦" + string(grouped) + "." + fmtTwoDigits(amount%100)
}

func fmtTwoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
