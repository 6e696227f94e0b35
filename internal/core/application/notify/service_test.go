package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fooddelivery/internal/core/application/notify"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifyRepository struct{ mock.Mock }

func (m *MockNotifyRepository) Add(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotifyRepository) Get(
	ctx context.Context, id kernel.UUID,
) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotifyRepository) GetByRecipient(
	ctx context.Context, recipientID kernel.UUID, params ports.NotificationFetchParams,
) ([]*notification.Notification, int64, error) {
	args := m.Called(ctx, recipientID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotifyRepository) CountUnread(ctx context.Context, recipientID kernel.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotifyRepository) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotifyRepository) MarkAllRead(ctx context.Context, recipientID kernel.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotifyRepository) Enqueue(ctx context.Context, job *notification.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockNotifyRepository) ClaimDue(
	ctx context.Context, now time.Time, limit int,
) ([]*notification.Job, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Job), args.Error(1)
}

func (m *MockNotifyRepository) UpdateJob(ctx context.Context, job *notification.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockNotifyRepository) DeleteFinishedJobsBefore(
	ctx context.Context, cutoff time.Time,
) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifyUoW struct{ mock.Mock }

func (m *MockNotifyUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotifyUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotifyUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotifyUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

type MockNotifyUoWFactory struct{ mock.Mock }

func (m *MockNotifyUoWFactory) Create() notify.UoW {
	args := m.Called()
	return args.Get(0).(notify.UoW)
}

type MockEmitter struct{ mock.Mock }

func (m *MockEmitter) EmitToScope(scope ports.Scope, event ports.Event) bool {
	args := m.Called(scope, event)
	return args.Bool(0)
}

func (m *MockEmitter) ListenerCount(scope ports.Scope) int {
	args := m.Called(scope)
	return args.Int(0)
}

// panickingEmitter simulates a broken realtime layer.
type panickingEmitter struct{}

func (panickingEmitter) EmitToScope(ports.Scope, ports.Event) bool { panic("hub is down") }
func (panickingEmitter) ListenerCount(ports.Scope) int             { return 0 }

func expectTx(repo *MockNotifyRepository, uow *MockNotifyUoW, ctx context.Context) {
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("NotificationRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
}

func TestService_Dispatch_RealtimeAndSMS(t *testing.T) {
	ctx := t.Context()
	recipientID := kernel.NewUUID()

	repo := new(MockNotifyRepository)
	uow := new(MockNotifyUoW)
	expectTx(repo, uow, ctx)
	expectTx(repo, uow, ctx)
	repo.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()
	repo.On("Enqueue", ctx, mock.AnythingOfType("*notification.Job")).Return(nil).Once()

	factory := new(MockNotifyUoWFactory)
	factory.On("Create").Return(uow).Twice()

	emitter := new(MockEmitter)
	emitter.On("EmitToScope", ports.UserScope(recipientID), mock.Anything).Return(true).Once()

	service := notify.NewService(factory, emitter, nil)
	id, queued, err := service.Dispatch(ctx, recipientID,
		"order_update", "Order ready", "Order FD-20001 is ready",
		map[string]any{"orderId": "FD-20001"},
		[]notification.Channel{notification.ChannelRealtime, notification.ChannelSMS},
	)

	require.NoError(t, err)
	require.NoError(t, id.Validate())
	assert.True(t, queued)

	// The pushed event is the typed notification:new frame.
	event := emitter.Calls[0].Arguments[1].(ports.Event)
	assert.Equal(t, "notification:new", event.EventName())

	// The queued job carries only the background channel.
	job := repo.Calls[1].Arguments[1].(*notification.Job)
	assert.Equal(t, []notification.Channel{notification.ChannelSMS}, job.Channels())
	assert.True(t, job.NotificationID().IsEqual(id))

	repo.AssertExpectations(t)
	emitter.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestService_Dispatch_RealtimeOnlySkipsQueue(t *testing.T) {
	ctx := t.Context()
	recipientID := kernel.NewUUID()

	repo := new(MockNotifyRepository)
	uow := new(MockNotifyUoW)
	expectTx(repo, uow, ctx)
	repo.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()

	factory := new(MockNotifyUoWFactory)
	factory.On("Create").Return(uow).Once()

	emitter := new(MockEmitter)
	emitter.On("EmitToScope", ports.UserScope(recipientID), mock.Anything).Return(true).Once()

	service := notify.NewService(factory, emitter, nil)
	_, queued, err := service.Dispatch(ctx, recipientID,
		"order_update", "Order ready", "", nil,
		[]notification.Channel{notification.ChannelRealtime},
	)

	require.NoError(t, err)
	assert.True(t, queued)
	repo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestService_Dispatch_NoListenersIsStillSuccess(t *testing.T) {
	ctx := t.Context()
	recipientID := kernel.NewUUID()

	repo := new(MockNotifyRepository)
	uow := new(MockNotifyUoW)
	expectTx(repo, uow, ctx)
	repo.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()

	factory := new(MockNotifyUoWFactory)
	factory.On("Create").Return(uow).Once()

	emitter := new(MockEmitter)
	emitter.On("EmitToScope", ports.UserScope(recipientID), mock.Anything).Return(false).Once()

	service := notify.NewService(factory, emitter, nil)
	_, queued, err := service.Dispatch(ctx, recipientID,
		"order_update", "Order ready", "", nil,
		[]notification.Channel{notification.ChannelRealtime},
	)

	require.NoError(t, err)
	assert.True(t, queued)
}

func TestService_Dispatch_PanickingEmitterDoesNotFailDispatch(t *testing.T) {
	ctx := t.Context()

	repo := new(MockNotifyRepository)
	uow := new(MockNotifyUoW)
	expectTx(repo, uow, ctx)
	expectTx(repo, uow, ctx)
	repo.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()
	repo.On("Enqueue", ctx, mock.AnythingOfType("*notification.Job")).Return(nil).Once()

	factory := new(MockNotifyUoWFactory)
	factory.On("Create").Return(uow).Twice()

	service := notify.NewService(factory, panickingEmitter{}, nil)
	id, queued, err := service.Dispatch(ctx, kernel.NewUUID(),
		"order_update", "Order ready", "", nil,
		[]notification.Channel{notification.ChannelRealtime, notification.ChannelEmail},
	)

	require.NoError(t, err)
	require.NoError(t, id.Validate())
	assert.True(t, queued)
	repo.AssertExpectations(t)
}

func TestService_Dispatch_QueueFailureDoesNotRollBackNotification(t *testing.T) {
	ctx := t.Context()

	repo := new(MockNotifyRepository)
	uow := new(MockNotifyUoW)

	// Persist transaction succeeds.
	expectTx(repo, uow, ctx)
	repo.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()

	// Enqueue transaction fails and is rolled back.
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("NotificationRepository").Return(repo).Once()
	repo.On("Enqueue", ctx, mock.AnythingOfType("*notification.Job")).
		Return(errors.New("jobs table unavailable")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockNotifyUoWFactory)
	factory.On("Create").Return(uow).Twice()

	service := notify.NewService(factory, nil, nil)
	id, queued, err := service.Dispatch(ctx, kernel.NewUUID(),
		"order_update", "Order ready", "", nil,
		[]notification.Channel{notification.ChannelSMS},
	)

	require.NoError(t, err)
	require.NoError(t, id.Validate())
	assert.False(t, queued)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestService_Dispatch_PersistFailureIsAnError(t *testing.T) {
	ctx := t.Context()

	repo := new(MockNotifyRepository)
	uow := new(MockNotifyUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("NotificationRepository").Return(repo).Once()
	repo.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).
		Return(errors.New("insert failed")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockNotifyUoWFactory)
	factory.On("Create").Return(uow).Once()

	emitter := new(MockEmitter)

	service := notify.NewService(factory, emitter, nil)
	_, _, err := service.Dispatch(ctx, kernel.NewUUID(),
		"order_update", "Order ready", "", nil,
		[]notification.Channel{notification.ChannelRealtime},
	)

	require.EqualError(t, err, "insert failed")
	emitter.AssertNotCalled(t, "EmitToScope", mock.Anything, mock.Anything)
}

func TestService_Dispatch_InvalidInputRejectedBeforePersist(t *testing.T) {
	ctx := t.Context()

	factory := new(MockNotifyUoWFactory)
	service := notify.NewService(factory, nil, nil)

	_, _, err := service.Dispatch(ctx, kernel.NewUUID(),
		"", "Order ready", "", nil,
		[]notification.Channel{notification.ChannelRealtime},
	)

	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}
