package cmd

import (
	"context"
	"fmt"
	"log/slog"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/inmemory"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/settlementrepo"
	"marketplace/internal/adapters/out/postgres/stockrepo"
	"marketplace/internal/core/application/eventhandlers"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
	"marketplace/internal/notifications"
)

// CompositionRoot wires the adapters behind the core's ports. The database
// and broker come in two flavors each: postgres/kafka when configured,
// in-memory otherwise, so the binary also runs standalone.
type CompositionRoot struct {
	config Config
	log    *slog.Logger

	gormDB *gorm.DB        // nil in local mode
	store  *inmemory.Store // nil in postgres mode

	broker     ports.EventBroker
	uowFactory ports.UnitOfWorkFactory
	registry   *notifications.Registry
	riders     *inmemory.StaticRiderDirectory
	stores     *inmemory.StaticStoreDirectory
	indexer    ports.SearchIndexer
}

// NewCompositionRoot builds the object graph for the given configuration.
func NewCompositionRoot(config Config, log *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		config:   config,
		log:      log,
		registry: notifications.NewRegistry(log),
		riders:   inmemory.NewStaticRiderDirectory(),
		stores:   inmemory.NewStaticStoreDirectory(),
		indexer:  inmemory.NewLoggingSearchIndexer(log),
	}

	if config.KafkaConfigured() {
		root.broker = kafka.NewBroker(config.KafkaHosts, config.KafkaConsumerGroup, log)
	} else {
		root.broker = inmemory.NewBroker(log)
	}

	if config.DatabaseConfigured() {
		db, err := gorm.Open(gormpostgres.Open(config.PostgresDSN()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("opening postgres connection: %w", err)
		}
		if err = db.AutoMigrate(
			&orderrepo.OrderDTO{},
			&orderrepo.OrderItemDTO{},
			&deliveryrepo.DeliveryDTO{},
			&stockrepo.StockDTO{},
			&notificationrepo.NotificationDTO{},
			&settlementrepo.SettlementDetailDTO{},
		); err != nil {
			return nil, fmt.Errorf("migrating schema: %w", err)
		}
		root.gormDB = db
		root.uowFactory = postgres.NewGormUnitOfWorkFactory(db, root.broker, log)
	} else {
		root.store = inmemory.NewStore()
		root.uowFactory = inmemory.NewUnitOfWorkFactory(root.store, root.broker, log)
	}

	return root, nil
}

// Registry returns the live notification registry.
func (c *CompositionRoot) Registry() *notifications.Registry {
	return c.registry
}

// StoreDirectory returns the seller lookup so deployments can register the
// stores they serve.
func (c *CompositionRoot) StoreDirectory() *inmemory.StaticStoreDirectory {
	return c.stores
}

// RiderDirectory returns the candidate pool so deployments can register the
// riders currently online.
func (c *CompositionRoot) RiderDirectory() *inmemory.StaticRiderDirectory {
	return c.riders
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.placementUoWFactory(), c.stores)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.placementUoWFactory(), c.stores)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.dispatchUoWFactory(), c.stores)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.placementUoWFactory(), c.stores)
}

func (c *CompositionRoot) CreateRecordRiderDecisionCommandHandler() commands.RecordRiderDecisionCommandHandler {
	return commands.NewRecordRiderDecisionCommandHandler(c.dispatchUoWFactory(), c.stores)
}

func (c *CompositionRoot) CreateAdvanceDeliveryCommandHandler() commands.AdvanceDeliveryCommandHandler {
	return commands.NewAdvanceDeliveryCommandHandler(c.dispatchUoWFactory(), c.stores)
}

func (c *CompositionRoot) CreateAdjustStockCommandHandler() commands.AdjustStockCommandHandler {
	return commands.NewAdjustStockCommandHandler(c.stockUoWFactory())
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() commands.MarkNotificationReadCommandHandler {
	return commands.NewMarkNotificationReadCommandHandler(c.notificationUoWFactory())
}

func (c *CompositionRoot) CreateMatchRidersCommandHandler() commands.MatchRidersCommandHandler {
	return commands.NewMatchRidersCommandHandler(
		c.dispatchUoWFactory(),
		c.stores,
		c.riders,
		services.NewRiderMatcher(services.NewLowestEtaSelector()),
		c.registry,
		c.log,
	)
}

func (c *CompositionRoot) CreateExpireMatchingCommandHandler() commands.ExpireMatchingCommandHandler {
	return commands.NewExpireMatchingCommandHandler(c.dispatchUoWFactory(), c.stores, c.log)
}

// CreateJobManager wires the scheduled matching round and expiry sweep.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateMatchRidersCommandHandler(),
		c.CreateExpireMatchingCommandHandler(),
		c.config.MatchingWindow,
		c.log,
	)
}

// CreateHTTPServer wires the API surface over the command handlers and the
// mode-appropriate read models.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateAcceptOrderCommandHandler(),
		c.CreateRejectOrderCommandHandler(),
		c.CreateRecordRiderDecisionCommandHandler(),
		c.CreateAdvanceDeliveryCommandHandler(),
		c.CreateAdjustStockCommandHandler(),
		c.CreateMarkNotificationReadCommandHandler(),
		c.createOrderReader(),
		c.createUncompletedDeliveriesReader(),
		c.createUnreadNotificationsReader(),
		c.registry,
	)
}

// SubscribeEventHandlers attaches the consumers to their topics. Must run
// before the broker starts consuming.
func (c *CompositionRoot) SubscribeEventHandlers() {
	notificationHandler := eventhandlers.NewNotificationEventHandler(
		c.consumerNotificationUoWFactory(), c.registry, c.log,
	)
	settlementHandler := eventhandlers.NewSettlementEventHandler(
		c.settlementUoWFactory(), c.log,
	)
	searchHandler := eventhandlers.NewSearchSyncEventHandler(c.indexer, c.log)

	for _, topic := range []string{events.TopicOrders, events.TopicDeliveries, events.TopicPayments} {
		c.broker.Subscribe(topic, notificationHandler.Handle)
	}
	c.broker.Subscribe(events.TopicOrders, settlementHandler.Handle)
	c.broker.Subscribe(events.TopicOrders, searchHandler.Handle)
}

// RunConsumers starts the kafka consumer groups. The in-memory broker
// delivers synchronously and needs no loop.
func (c *CompositionRoot) RunConsumers(ctx context.Context) {
	if broker, ok := c.broker.(*kafka.Broker); ok {
		go broker.Run(ctx)
	}
}

// Close releases broker and database resources.
func (c *CompositionRoot) Close() error {
	var err error
	if broker, ok := c.broker.(*kafka.Broker); ok {
		err = broker.Close()
	}
	if c.gormDB != nil {
		if db, dbErr := c.gormDB.DB(); dbErr == nil {
			if closeErr := db.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}
	}
	return err
}

func (c *CompositionRoot) createOrderReader() httpadapter.OrderReader {
	if c.gormDB != nil {
		return queries.NewGetOrderQueryHandler(c.gormDB)
	}
	return inmemory.NewOrderQueryHandler(c.store)
}

func (c *CompositionRoot) createUncompletedDeliveriesReader() httpadapter.UncompletedDeliveriesReader {
	if c.gormDB != nil {
		return queries.NewGetUncompletedDeliveriesQueryHandler(c.gormDB)
	}
	return inmemory.NewUncompletedDeliveriesQueryHandler(c.store)
}

func (c *CompositionRoot) createUnreadNotificationsReader() httpadapter.UnreadNotificationsReader {
	if c.gormDB != nil {
		return queries.NewGetUnreadNotificationsQueryHandler(c.gormDB)
	}
	return inmemory.NewUnreadNotificationsQueryHandler(c.store)
}

func (c *CompositionRoot) placementUoWFactory() commands.PlacementUoWFactory {
	return FuncPlacementUoWFactory(func() commands.PlacementUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) stockUoWFactory() commands.StockUoWFactory {
	return FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notificationUoWFactory() commands.NotificationUoWFactory {
	return FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) consumerNotificationUoWFactory() eventhandlers.NotificationUoWFactory {
	return FuncConsumerNotificationUoWFactory(func() eventhandlers.NotificationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) settlementUoWFactory() eventhandlers.SettlementUoWFactory {
	return FuncSettlementUoWFactory(func() eventhandlers.SettlementUoW {
		return c.uowFactory.Create()
	})
}

type FuncPlacementUoWFactory func() commands.PlacementUoW

func (f FuncPlacementUoWFactory) Create() commands.PlacementUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncStockUoWFactory func() commands.StockUoW

func (f FuncStockUoWFactory) Create() commands.StockUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

type FuncConsumerNotificationUoWFactory func() eventhandlers.NotificationUoW

func (f FuncConsumerNotificationUoWFactory) Create() eventhandlers.NotificationUoW {
	return f()
}

type FuncSettlementUoWFactory func() eventhandlers.SettlementUoW

func (f FuncSettlementUoWFactory) Create() eventhandlers.SettlementUoW {
	return f()
}
