// Package dispatch decides which riders hear about an order that became
// ready and pushes the announcement over the realtime channel.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// Defaults applied when the corresponding Config field is zero.
const (
	DefaultRadiusMeters    = 5000.0
	DefaultFreshnessCutoff = 15 * time.Minute
)

// PositionUoW is the read surface the coordinator needs.
type PositionUoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	CourierPositionRepository() ports.CourierPositionRepository
}

// PositionUoWFactory creates a fresh PositionUoW per dispatch decision.
type PositionUoWFactory interface {
	Create() PositionUoW
}

// Config carries the dispatch tuning knobs.
type Config struct {
	// RadiusMeters bounds how far from the pickup point candidate riders
	// may be.
	RadiusMeters float64
	// FreshnessCutoff bounds how old a heartbeat may be before its courier
	// stops being a candidate.
	FreshnessCutoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.RadiusMeters <= 0 {
		c.RadiusMeters = DefaultRadiusMeters
	}
	if c.FreshnessCutoff <= 0 {
		c.FreshnessCutoff = DefaultFreshnessCutoff
	}
	return c
}

// Coordinator resolves a single best scope per ready order and emits exactly
// one announcement to it:
//
//  1. the assigned courier's individual scope, when a courier already claimed
//     the order;
//  2. otherwise a region scope with live listeners, preferring the pickup
//     region, then regions reported by fresh candidate riders near the pickup
//     point;
//  3. otherwise the global couriers scope.
//
// No listeners anywhere is logged and absorbed; the order stays Ready and
// riders recover it on reconnect or by polling.
type Coordinator struct {
	uowFactory PositionUoWFactory
	locator    services.CourierLocator
	emitter    ports.RealtimeEmitter
	runner     AsyncRunner
	config     Config
	logger     *slog.Logger
}

// NewCoordinator creates the dispatch coordinator.
func NewCoordinator(
	uowFactory PositionUoWFactory,
	emitter ports.RealtimeEmitter,
	runner AsyncRunner,
	config Config,
	logger *slog.Logger,
) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Coordinator{
		uowFactory: uowFactory,
		locator:    services.NewCourierLocator(),
		emitter:    emitter,
		runner:     runner,
		config:     config.withDefaults(),
		logger:     logger,
	}
}

// OrderBecameReady implements commands.StatusObserver. The decision runs
// asynchronously; nothing here can fail the committed transition.
func (c *Coordinator) OrderBecameReady(aggregate *order.Order) {
	c.runner.Submit(func() {
		c.announceReady(context.Background(), aggregate)
	})
}

// OrderPickedUp implements commands.StatusObserver. The pickup announcement
// goes to the assigned courier's individual scope only.
func (c *Coordinator) OrderPickedUp(aggregate *order.Order) {
	c.runner.Submit(func() {
		c.announcePickedUp(aggregate)
	})
}

func (c *Coordinator) announceReady(ctx context.Context, aggregate *order.Order) {
	event := buildReadyEvent(aggregate)

	scope, err := c.resolveScope(ctx, aggregate)
	if err != nil {
		c.logger.Error("dispatch scope resolution failed, falling back to global",
			"orderId", aggregate.ID().String(), "error", err)
		scope = ports.ScopeGlobalCouriers
	}

	if !c.emitter.EmitToScope(scope, event) {
		c.logger.Warn("no riders heard the ready announcement",
			"orderId", aggregate.ID().String(), "scope", string(scope))
	}
}

func (c *Coordinator) announcePickedUp(aggregate *order.Order) {
	assigned := aggregate.AssignedCourier()
	if assigned == nil {
		c.logger.Warn("picked up without an assigned courier, nothing to announce",
			"orderId", aggregate.ID().String())
		return
	}

	delivered := c.emitter.EmitToScope(ports.CourierScope(*assigned), OrderPickedUpEvent{
		OrderID:     aggregate.ID().String(),
		OrderNumber: aggregate.OrderNumber(),
		Message:     "Pickup confirmed for order " + aggregate.OrderNumber(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
	if !delivered {
		c.logger.Warn("assigned courier not connected for pickup announcement",
			"orderId", aggregate.ID().String(), "courierId", assigned.String())
	}
}

// resolveScope picks the single scope the announcement goes to.
func (c *Coordinator) resolveScope(ctx context.Context, aggregate *order.Order) (ports.Scope, error) {
	if assigned := aggregate.AssignedCourier(); assigned != nil {
		return ports.CourierScope(*assigned), nil
	}

	for _, region := range c.candidateRegions(ctx, aggregate) {
		scope := ports.RegionScope(region)
		if c.emitter.ListenerCount(scope) > 0 {
			return scope, nil
		}
	}

	return ports.ScopeGlobalCouriers, nil
}

// candidateRegions orders the regions worth trying: the pickup region first,
// then regions reported by fresh riders near the pickup point.
func (c *Coordinator) candidateRegions(ctx context.Context, aggregate *order.Order) []string {
	seen := map[string]bool{}
	var regions []string

	appendRegion := func(region string) {
		if region == "" || seen[region] {
			return
		}
		seen[region] = true
		regions = append(regions, region)
	}

	appendRegion(aggregate.PickupLocation().Region)

	nearby, err := c.nearbyFreshPositions(ctx, aggregate)
	if err != nil {
		c.logger.Error("candidate lookup failed, using pickup region only",
			"orderId", aggregate.ID().String(), "error", err)
		return regions
	}

	for _, position := range nearby {
		appendRegion(position.Region())
	}

	return regions
}

func (c *Coordinator) nearbyFreshPositions(
	ctx context.Context, aggregate *order.Order,
) ([]*courier.Position, error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	positions, err := uow.CourierPositionRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-c.config.FreshnessCutoff)
	freshOnly := func(p *courier.Position) bool { return p.IsFresherThan(cutoff) }

	// Door-delivery candidates must be able to reach both stops; pickup-only
	// orders have a single stop.
	stops := []kernel.GeoPoint{aggregate.PickupLocation().Point}
	if address := aggregate.DeliveryAddress(); address != nil {
		stops = append(stops, address.Point)
	}

	return c.locator.WithinRadiusOfAll(positions, stops, c.config.RadiusMeters, freshOnly)
}

func buildReadyEvent(aggregate *order.Order) OrderReadyEvent {
	pickup := aggregate.PickupLocation()
	event := OrderReadyEvent{
		OrderID:     aggregate.ID().String(),
		OrderNumber: aggregate.OrderNumber(),
		PickupLocation: PickupLocationPayload{
			ID:        pickup.ID.String(),
			Name:      pickup.Name,
			Address:   pickup.Address,
			Latitude:  pickup.Point.Latitude(),
			Longitude: pickup.Point.Longitude(),
		},
		Total:          aggregate.Pricing().Total,
		FormattedTotal: formatMinorUnits(aggregate.Pricing().Total),
		ItemCount:      aggregate.ItemCount(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	if address := aggregate.DeliveryAddress(); address != nil {
		event.DeliveryAddress = &DeliveryAddressPayload{
			Address: address.Address,
			Coordinates: GeoPointPayload{
				Latitude:  address.Point.Latitude(),
				Longitude: address.Point.Longitude(),
			},
		}
	}

	return event
}
