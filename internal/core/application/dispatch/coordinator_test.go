package dispatch_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/core/application/dispatch"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDispatchPositionRepository struct{ mock.Mock }

func (m *MockDispatchPositionRepository) Upsert(ctx context.Context, p *courier.Position) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockDispatchPositionRepository) Get(
	ctx context.Context, id kernel.UUID,
) (*courier.Position, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Position), args.Error(1)
}

func (m *MockDispatchPositionRepository) GetAll(ctx context.Context) ([]*courier.Position, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Position), args.Error(1)
}

type MockDispatchUoW struct{ mock.Mock }

func (m *MockDispatchUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatchUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatchUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDispatchUoW) CourierPositionRepository() ports.CourierPositionRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierPositionRepository)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() dispatch.PositionUoW {
	args := m.Called()
	return args.Get(0).(dispatch.PositionUoW)
}

type MockDispatchEmitter struct{ mock.Mock }

func (m *MockDispatchEmitter) EmitToScope(scope ports.Scope, event ports.Event) bool {
	args := m.Called(scope, event)
	return args.Bool(0)
}

func (m *MockDispatchEmitter) ListenerCount(scope ports.Scope) int {
	args := m.Called(scope)
	return args.Int(0)
}

func readyOrder(t *testing.T, assignedCourier *kernel.UUID) *order.Order {
	t.Helper()

	pickupPoint, err := kernel.NewGeoPoint(6.4281, 3.4219)
	require.NoError(t, err)
	deliveryPoint, err := kernel.NewGeoPoint(6.4541, 3.3947)
	require.NoError(t, err)

	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(), "FD-30001", kernel.NewUUID(),
		order.DoorDelivery,
		order.Pricing{Subtotal: 200000, Extras: 0, Discount: 0, DeliveryFee: 40000, Total: 240000},
		1,
		order.PickupLocation{
			ID:      kernel.NewUUID(),
			Name:    "Suya Spot",
			Address: "4 Admiralty Way",
			Region:  "Lagos",
			Point:   pickupPoint,
		},
		&order.DeliveryAddress{Address: "18 Fola Osibo Rd", Point: deliveryPoint},
		order.Ready, assignedCourier,
		time.Now().Add(10*time.Minute), "1234",
		nil, time.Now().UTC(), "",
	)
	require.NoError(t, err)
	return aggregate
}

func positionIn(t *testing.T, region string, lat, lng float64) *courier.Position {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	p, err := courier.NewPosition(kernel.NewUUID(), point, "on the road", region)
	require.NoError(t, err)
	return p
}

func newCoordinator(
	factory dispatch.PositionUoWFactory, emitter ports.RealtimeEmitter,
) *dispatch.Coordinator {
	return dispatch.NewCoordinator(
		factory, emitter, dispatch.NewSyncRunner(nil), dispatch.Config{}, nil)
}

func expectPositionRead(
	ctx context.Context,
	factory *MockDispatchUoWFactory,
	uow *MockDispatchUoW,
	repo *MockDispatchPositionRepository,
	positions []*courier.Position,
) {
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CourierPositionRepository").Return(repo).Once()
	repo.On("GetAll", ctx).Return(positions, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
}

func TestCoordinator_OrderBecameReady_AssignedCourierGetsPersonalScope(t *testing.T) {
	courierID := kernel.NewUUID()
	aggregate := readyOrder(t, &courierID)

	emitter := new(MockDispatchEmitter)
	emitter.On("EmitToScope", ports.CourierScope(courierID), mock.Anything).Return(true).Once()

	factory := new(MockDispatchUoWFactory)
	coordinator := newCoordinator(factory, emitter)

	coordinator.OrderBecameReady(aggregate)

	event := emitter.Calls[0].Arguments[1].(dispatch.OrderReadyEvent)
	assert.Equal(t, "order:ready", event.EventName())
	assert.Equal(t, aggregate.ID().String(), event.OrderID)
	assert.Equal(t, int64(240000), event.Total)
	assert.Equal(t, "₦2,400.00", event.FormattedTotal)
	assert.Equal(t, "Suya Spot", event.PickupLocation.Name)
	require.NotNil(t, event.DeliveryAddress)
	assert.Equal(t, "18 Fola Osibo Rd", event.DeliveryAddress.Address)

	// With an assigned courier the geo index is never consulted.
	factory.AssertNotCalled(t, "Create")
	emitter.AssertExpectations(t)
}

func TestCoordinator_OrderBecameReady_RegionScopeWithListeners(t *testing.T) {
	ctx := context.Background()
	aggregate := readyOrder(t, nil)

	// One fresh rider near the pickup point, reporting the pickup region.
	positions := []*courier.Position{positionIn(t, "Lagos", 6.4285, 3.4225)}

	repo := new(MockDispatchPositionRepository)
	uow := new(MockDispatchUoW)
	factory := new(MockDispatchUoWFactory)
	expectPositionRead(ctx, factory, uow, repo, positions)

	emitter := new(MockDispatchEmitter)
	emitter.On("ListenerCount", ports.RegionScope("Lagos")).Return(3).Once()
	emitter.On("EmitToScope", ports.RegionScope("Lagos"), mock.Anything).Return(true).Once()

	coordinator := newCoordinator(factory, emitter)
	coordinator.OrderBecameReady(aggregate)

	emitter.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCoordinator_OrderBecameReady_FallsBackToCandidateRegion(t *testing.T) {
	ctx := context.Background()
	aggregate := readyOrder(t, nil)

	// The nearby rider reports a different region than the pickup location;
	// the pickup region has no listeners.
	positions := []*courier.Position{positionIn(t, "Lekki", 6.4285, 3.4225)}

	repo := new(MockDispatchPositionRepository)
	uow := new(MockDispatchUoW)
	factory := new(MockDispatchUoWFactory)
	expectPositionRead(ctx, factory, uow, repo, positions)

	emitter := new(MockDispatchEmitter)
	emitter.On("ListenerCount", ports.RegionScope("Lagos")).Return(0).Once()
	emitter.On("ListenerCount", ports.RegionScope("Lekki")).Return(1).Once()
	emitter.On("EmitToScope", ports.RegionScope("Lekki"), mock.Anything).Return(true).Once()

	coordinator := newCoordinator(factory, emitter)
	coordinator.OrderBecameReady(aggregate)

	emitter.AssertExpectations(t)
}

func TestCoordinator_OrderBecameReady_GlobalWhenNoRegionListeners(t *testing.T) {
	ctx := context.Background()
	aggregate := readyOrder(t, nil)

	positions := []*courier.Position{positionIn(t, "Lagos", 6.4285, 3.4225)}

	repo := new(MockDispatchPositionRepository)
	uow := new(MockDispatchUoW)
	factory := new(MockDispatchUoWFactory)
	expectPositionRead(ctx, factory, uow, repo, positions)

	emitter := new(MockDispatchEmitter)
	emitter.On("ListenerCount", ports.RegionScope("Lagos")).Return(0).Once()
	emitter.On("EmitToScope", ports.ScopeGlobalCouriers, mock.Anything).Return(true).Once()

	coordinator := newCoordinator(factory, emitter)
	coordinator.OrderBecameReady(aggregate)

	emitter.AssertExpectations(t)
}

func TestCoordinator_OrderBecameReady_StaleAndFarRidersIgnored(t *testing.T) {
	ctx := context.Background()
	aggregate := readyOrder(t, nil)

	stalePoint, err := kernel.NewGeoPoint(6.4285, 3.4225)
	require.NoError(t, err)
	stale, err := courier.RestorePosition(
		kernel.NewUUID(), stalePoint, "parked", "Ikeja",
		time.Now().Add(-time.Hour).UTC(),
	)
	require.NoError(t, err)

	far := positionIn(t, "Ibadan", 7.3775, 3.9470) // ~115km away

	repo := new(MockDispatchPositionRepository)
	uow := new(MockDispatchUoW)
	factory := new(MockDispatchUoWFactory)
	expectPositionRead(ctx, factory, uow, repo, []*courier.Position{stale, far})

	// Only the pickup region remains a candidate; neither Ikeja nor Ibadan
	// is consulted.
	emitter := new(MockDispatchEmitter)
	emitter.On("ListenerCount", ports.RegionScope("Lagos")).Return(0).Once()
	emitter.On("EmitToScope", ports.ScopeGlobalCouriers, mock.Anything).Return(true).Once()

	coordinator := newCoordinator(factory, emitter)
	coordinator.OrderBecameReady(aggregate)

	emitter.AssertExpectations(t)
	emitter.AssertNotCalled(t, "ListenerCount", ports.RegionScope("Ikeja"))
	emitter.AssertNotCalled(t, "ListenerCount", ports.RegionScope("Ibadan"))
}

func TestCoordinator_OrderBecameReady_CandidatesMustReachBothStops(t *testing.T) {
	ctx := context.Background()

	pickupPoint, err := kernel.NewGeoPoint(6.4281, 3.4219)
	require.NoError(t, err)
	// ~5.6km due north of the pickup point.
	deliveryPoint, err := kernel.NewGeoPoint(6.4781, 3.4219)
	require.NoError(t, err)

	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(), "FD-30002", kernel.NewUUID(),
		order.DoorDelivery,
		order.Pricing{Subtotal: 200000, Extras: 0, Discount: 0, DeliveryFee: 40000, Total: 240000},
		1,
		order.PickupLocation{
			ID:      kernel.NewUUID(),
			Name:    "Suya Spot",
			Address: "4 Admiralty Way",
			Region:  "Lagos",
			Point:   pickupPoint,
		},
		&order.DeliveryAddress{Address: "2 Herbert Macaulay Way", Point: deliveryPoint},
		order.Ready, nil,
		time.Now().Add(10*time.Minute), "1234",
		nil, time.Now().UTC(), "",
	)
	require.NoError(t, err)

	// The first rider sits next to the pickup point but out of range of the
	// drop-off; only the midway rider can reach both stops.
	pickupOnly := positionIn(t, "Surulere", 6.4301, 3.4219)
	midway := positionIn(t, "Yaba", 6.4531, 3.4219)

	repo := new(MockDispatchPositionRepository)
	uow := new(MockDispatchUoW)
	factory := new(MockDispatchUoWFactory)
	expectPositionRead(ctx, factory, uow, repo, []*courier.Position{pickupOnly, midway})

	emitter := new(MockDispatchEmitter)
	emitter.On("ListenerCount", ports.RegionScope("Lagos")).Return(0).Once()
	emitter.On("ListenerCount", ports.RegionScope("Yaba")).Return(1).Once()
	emitter.On("EmitToScope", ports.RegionScope("Yaba"), mock.Anything).Return(true).Once()

	coordinator := newCoordinator(factory, emitter)
	coordinator.OrderBecameReady(aggregate)

	emitter.AssertExpectations(t)
	emitter.AssertNotCalled(t, "ListenerCount", ports.RegionScope("Surulere"))
}

func TestCoordinator_OrderBecameReady_NoListenersAnywhereIsAbsorbed(t *testing.T) {
	ctx := context.Background()
	aggregate := readyOrder(t, nil)

	repo := new(MockDispatchPositionRepository)
	uow := new(MockDispatchUoW)
	factory := new(MockDispatchUoWFactory)
	expectPositionRead(ctx, factory, uow, repo, []*courier.Position{})

	emitter := new(MockDispatchEmitter)
	emitter.On("ListenerCount", ports.RegionScope("Lagos")).Return(0).Once()
	emitter.On("EmitToScope", ports.ScopeGlobalCouriers, mock.Anything).Return(false).Once()

	coordinator := newCoordinator(factory, emitter)

	// Must not panic or propagate anything.
	coordinator.OrderBecameReady(aggregate)

	emitter.AssertExpectations(t)
	assert.Equal(t, order.Ready, aggregate.Status())
}

func TestCoordinator_OrderPickedUp_PersonalScopeOnly(t *testing.T) {
	courierID := kernel.NewUUID()
	aggregate := readyOrder(t, &courierID)

	emitter := new(MockDispatchEmitter)
	emitter.On("EmitToScope", ports.CourierScope(courierID), mock.Anything).Return(true).Once()

	factory := new(MockDispatchUoWFactory)
	coordinator := newCoordinator(factory, emitter)

	coordinator.OrderPickedUp(aggregate)

	event := emitter.Calls[0].Arguments[1].(dispatch.OrderPickedUpEvent)
	assert.Equal(t, "order:picked_up", event.EventName())
	assert.Equal(t, "FD-30001", event.OrderNumber)
	assert.Equal(t, "Pickup confirmed for order FD-30001", event.Message)
	assert.NotEmpty(t, event.Timestamp)
	emitter.AssertExpectations(t)
}

func TestCoordinator_OrderPickedUp_NoAssignedCourierIsAbsorbed(t *testing.T) {
	aggregate := readyOrder(t, nil)

	emitter := new(MockDispatchEmitter)
	factory := new(MockDispatchUoWFactory)
	coordinator := newCoordinator(factory, emitter)

	coordinator.OrderPickedUp(aggregate)

	emitter.AssertNotCalled(t, "EmitToScope", mock.Anything, mock.Anything)
}
