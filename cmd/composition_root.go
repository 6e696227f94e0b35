package cmd

import (
	"log/slog"
	"strconv"
	"time"

	"fooddelivery/internal/adapters/in/auth"
	httpadapter "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/in/ws"
	"fooddelivery/internal/adapters/out/messaging"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/core/application/dispatch"
	"fooddelivery/internal/core/application/notify"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	hub            *ws.Hub
	resolver       auth.JWTResolver
	notifyService  *notify.Service
	coordinator    *dispatch.Coordinator
	statusNotifier *notify.StatusNotifier
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)

	hub := ws.NewHub(logger)
	runner := dispatch.NewGoRunner(logger)

	notifyService := notify.NewService(FuncNotifyUoWFactory(func() notify.UoW {
		return uowFactory.Create()
	}), hub, logger)

	coordinator := dispatch.NewCoordinator(
		FuncDispatchUoWFactory(func() dispatch.PositionUoW {
			return uowFactory.Create()
		}),
		hub,
		runner,
		dispatchConfig(config),
		logger,
	)

	return CompositionRoot{
		config:         config,
		gormDB:         gormDB,
		uowFactory:     *uowFactory,
		logger:         logger,
		hub:            hub,
		resolver:       auth.NewJWTResolver([]byte(config.JWTSecret)),
		notifyService:  notifyService,
		coordinator:    coordinator,
		statusNotifier: notify.NewStatusNotifier(notifyService, runner, logger),
	}
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	observers := commands.StatusObservers{c.coordinator, c.statusNotifier}
	return commands.NewUpdateOrderStatusCommandHandler(f, observers)
}

func (c *CompositionRoot) CreateAssignRiderCommandHandler() commands.AssignRiderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignRiderCommandHandler(f)
}

func (c *CompositionRoot) CreateRecordHeartbeatCommandHandler() commands.RecordHeartbeatCommandHandler {
	var f commands.PositionUoWFactory = FuncPositionUoWFactory(func() commands.PositionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordHeartbeatCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() commands.MarkNotificationReadCommandHandler {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkNotificationReadCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkAllNotificationsReadCommandHandler() commands.MarkAllNotificationsReadCommandHandler {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkAllNotificationsReadCommandHandler(f)
}

func (c *CompositionRoot) CreateGetNotificationsQueryHandler() queries.GetNotificationsQueryHandler {
	return queries.NewGetNotificationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnreadCountQueryHandler() queries.GetUnreadCountQueryHandler {
	return queries.NewGetUnreadCountQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	wsHandler := ws.NewHandler(c.hub, c.resolver, c.logger)

	return httpadapter.NewServer(
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateAssignRiderCommandHandler(),
		c.CreateRecordHeartbeatCommandHandler(),
		c.CreateMarkNotificationReadCommandHandler(),
		c.CreateMarkAllNotificationsReadCommandHandler(),
		c.CreateGetNotificationsQueryHandler(),
		c.CreateGetUnreadCountQueryHandler(),
		c.resolver,
		wsHandler,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	gateways := []ports.MessageGateway{
		messaging.NewSMSGateway(c.logger),
		messaging.NewEmailGateway(c.logger),
		messaging.NewMobilePushGateway(c.logger),
	}
	workers, _ := strconv.Atoi(c.config.DeliveryWorkers)
	return jobs.NewJobManager(&c.uowFactory, gateways, workers, c.logger)
}

// dispatchConfig parses the dispatch knobs; empty or malformed values fall
// back to the coordinator defaults.
func dispatchConfig(config Config) dispatch.Config {
	var parsed dispatch.Config
	if radius, err := strconv.ParseFloat(config.DispatchRadiusMeters, 64); err == nil {
		parsed.RadiusMeters = radius
	}
	if cutoff, err := time.ParseDuration(config.DispatchFreshnessCutoff); err == nil {
		parsed.FreshnessCutoff = cutoff
	}
	return parsed
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPositionUoWFactory func() commands.PositionUoW

func (f FuncPositionUoWFactory) Create() commands.PositionUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

type FuncNotifyUoWFactory func() notify.UoW

func (f FuncNotifyUoWFactory) Create() notify.UoW {
	return f()
}

type FuncDispatchUoWFactory func() dispatch.PositionUoW

func (f FuncDispatchUoWFactory) Create() dispatch.PositionUoW {
	return f()
}
