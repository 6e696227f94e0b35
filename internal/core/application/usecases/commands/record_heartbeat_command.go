package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrRecordHeartbeatCommandIsNotConstructed = errors.New(
	"RecordHeartbeatCommand must be created via NewRecordHeartbeatCommand constructor",
)

// RecordHeartbeatCommand represents a courier location heartbeat.
// Coordinates are validated into a kernel.GeoPoint at construction time so
// an out-of-range latitude never reaches the handler.
type RecordHeartbeatCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	point     kernel.GeoPoint
	address   string
	region    string

	guard guard.ConstructorGuard
}

// NewRecordHeartbeatCommand creates a command to record a courier heartbeat.
// Region is optional; address is required by the domain.
func NewRecordHeartbeatCommand(
	courierID kernel.UUID, latitude, longitude float64, address, region string,
) (RecordHeartbeatCommand, error) {
	heartbeatCommand := RecordHeartbeatCommand{
		address: address,
		region:  region,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		heartbeatCommand.setCourierID(courierID),
		heartbeatCommand.setPoint(latitude, longitude),
	); err != nil {
		return RecordHeartbeatCommand{}, err
	}

	return heartbeatCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordHeartbeatCommand) Validate() error {
	return c.guard.Validate(ErrRecordHeartbeatCommandIsNotConstructed)
}

// CourierID returns the reporting courier.
func (c RecordHeartbeatCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Point returns the reported coordinate.
func (c RecordHeartbeatCommand) Point() kernel.GeoPoint {
	return c.point
}

// Address returns the reported street address.
func (c RecordHeartbeatCommand) Address() string {
	return c.address
}

// Region returns the reported region tag, possibly empty.
func (c RecordHeartbeatCommand) Region() string {
	return c.region
}

func (c *RecordHeartbeatCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *RecordHeartbeatCommand) setPoint(latitude, longitude float64) error {
	point, err := kernel.NewGeoPoint(latitude, longitude)
	if err != nil {
		return err
	}

	c.point = point
	return nil
}
