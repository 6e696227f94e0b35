package queries_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/postgres/notificationrepo"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetNotificationsQueryHandlerTestSuite struct {
	suite.Suite
	container    *postgres.PostgresContainer
	db           *gorm.DB
	handler      queries.GetNotificationsQueryHandler
	countHandler queries.GetUnreadCountQueryHandler
}

func (suite *GetNotificationsQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&notificationrepo.NotificationDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetNotificationsQueryHandler(db)
	suite.countHandler = queries.NewGetUnreadCountQueryHandler(db)
}

func (suite *GetNotificationsQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetNotificationsQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE notifications").Error
	suite.Require().NoError(err)
}

func (suite *GetNotificationsQueryHandlerTestSuite) TestHandle_EmptyFeed_ReturnsEmptyPage() {
	query, err := queries.NewGetNotificationsQuery(kernel.NewUUID(), 1, 20, false, "")
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Empty(result.Items)
	suite.Zero(result.Total)
	suite.Equal(1, result.Page)
	suite.Equal(20, result.PerPage)
}

func (suite *GetNotificationsQueryHandlerTestSuite) TestHandle_ReturnsNewestFirstWithPayload() {
	recipientID := kernel.NewUUID()

	older := suite.saveNotification(recipientID, "order_update", map[string]any{"orderId": "abc"}, false)
	suite.bumpCreatedAt(older, -time.Hour)
	newest := suite.saveNotification(recipientID, "order_update", nil, false)

	query, err := queries.NewGetNotificationsQuery(recipientID, 1, 20, false, "")
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(int64(2), result.Total)
	suite.Require().Len(result.Items, 2)
	suite.True(result.Items[0].ID.IsEqual(newest))
	suite.True(result.Items[1].ID.IsEqual(older))
	suite.Equal(map[string]any{"orderId": "abc"}, result.Items[1].Payload)
}

func (suite *GetNotificationsQueryHandlerTestSuite) TestHandle_UnreadAndKindFilters() {
	recipientID := kernel.NewUUID()

	suite.saveNotification(recipientID, "order_update", nil, true)
	unreadOrder := suite.saveNotification(recipientID, "order_update", nil, false)
	suite.saveNotification(recipientID, "promo", nil, false)
	suite.saveNotification(kernel.NewUUID(), "order_update", nil, false)

	query, err := queries.NewGetNotificationsQuery(recipientID, 1, 20, true, "order_update")
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(int64(1), result.Total)
	suite.Require().Len(result.Items, 1)
	suite.True(result.Items[0].ID.IsEqual(unreadOrder))
	suite.False(result.Items[0].Read)
}

func (suite *GetNotificationsQueryHandlerTestSuite) TestHandle_PaginationWindow() {
	recipientID := kernel.NewUUID()

	for i := range 5 {
		id := suite.saveNotification(recipientID, "order_update", nil, false)
		suite.bumpCreatedAt(id, time.Duration(i)*time.Minute)
	}

	query, err := queries.NewGetNotificationsQuery(recipientID, 3, 2, false, "")
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(int64(5), result.Total)
	suite.Len(result.Items, 1)
	suite.Equal(3, result.Page)
	suite.Equal(2, result.PerPage)
}

func (suite *GetNotificationsQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetNotificationsQuery{}

	_, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetNotificationsQuery constructor")
}

func (suite *GetNotificationsQueryHandlerTestSuite) TestUnreadCount_CountsOnlyUnread() {
	recipientID := kernel.NewUUID()

	suite.saveNotification(recipientID, "order_update", nil, true)
	suite.saveNotification(recipientID, "order_update", nil, false)
	suite.saveNotification(recipientID, "promo", nil, false)
	suite.saveNotification(kernel.NewUUID(), "order_update", nil, false)

	query, err := queries.NewGetUnreadCountQuery(recipientID)
	suite.Require().NoError(err)

	count, err := suite.countHandler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(int64(2), count)
}

// saveNotification persists a notification through the write-side repository
// so the read model sees exactly what production writes.
func (suite *GetNotificationsQueryHandlerTestSuite) saveNotification(
	recipientID kernel.UUID, kind string, payload map[string]any, read bool,
) kernel.UUID {
	aggregate, err := notification.NewNotification(
		kernel.NewUUID(), recipientID, kind, "Order update", "Body text", payload,
		[]notification.Channel{notification.ChannelRealtime})
	suite.Require().NoError(err)

	if read {
		aggregate.MarkRead()
	}

	repo := notificationrepo.NewGormNotificationRepository(suite.db, noopTracker{})
	suite.Require().NoError(repo.Add(context.Background(), aggregate))
	return aggregate.ID()
}

func (suite *GetNotificationsQueryHandlerTestSuite) bumpCreatedAt(id kernel.UUID, offset time.Duration) {
	suite.Require().NoError(suite.db.Model(&notificationrepo.NotificationDTO{}).
		Where("id = ?", id.Bytes()).
		Update("created_at", time.Now().UTC().Add(offset)).Error)
}

// noopTracker satisfies the repository's tracker without recording anything.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

func TestGetNotificationsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetNotificationsQueryHandlerTestSuite))
}
