package postgres_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/settlementrepo"
	"marketplace/internal/adapters/out/postgres/stockrepo"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/stock"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type UnitOfWorkTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	publisher *recordingPublisher
	factory   *postgres.GormUnitOfWorkFactory
}

func (s *UnitOfWorkTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&deliveryrepo.DeliveryDTO{},
		&stockrepo.StockDTO{},
		&notificationrepo.NotificationDTO{},
		&settlementrepo.SettlementDetailDTO{},
	)
	s.Require().NoError(err)

	s.publisher = &recordingPublisher{}
	s.factory = postgres.NewGormUnitOfWorkFactory(db, s.publisher, slog.New(slog.DiscardHandler))
}

func (s *UnitOfWorkTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *UnitOfWorkTestSuite) SetupTest() {
	for _, table := range []string{"order_items", "orders", "deliveries", "stocks", "notifications", "settlement_details"} {
		s.Require().NoError(s.db.Exec("TRUNCATE TABLE " + table + " CASCADE").Error)
	}
	s.publisher.mu.Lock()
	s.publisher.events = nil
	s.publisher.mu.Unlock()
}

func (s *UnitOfWorkTestSuite) newOrder(ctx context.Context, uow ports.UnitOfWork) *order.Order {
	repo := uow.OrderRepository()
	id, err := repo.NextID(ctx)
	s.Require().NoError(err)

	item, err := order.NewItem(10, kernel.NewMoneyFromInt(2500), 2)
	s.Require().NoError(err)
	ord, err := order.NewOrder(id, 3, 7, "24 Harbor Lane", "", kernel.NewMoneyFromInt(3000), []order.Item{item})
	s.Require().NoError(err)

	s.Require().NoError(repo.Add(ctx, ord))
	return ord
}

func (s *UnitOfWorkTestSuite) TestOrderRoundTrip() {
	ctx := context.Background()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	ord := s.newOrder(ctx, uow)
	s.Require().NoError(uow.Commit(ctx))

	uow2 := s.factory.Create()
	s.Require().NoError(uow2.Begin(ctx))
	defer func() { _ = uow2.Rollback(ctx) }()

	restored, err := uow2.OrderRepository().Get(ctx, ord.ID())
	s.Require().NoError(err)
	s.Equal(order.StatusPending, restored.Status())
	s.Len(restored.Items(), 1)
	s.True(restored.TotalPrice().IsEqual(kernel.NewMoneyFromInt(8000)))
}

func (s *UnitOfWorkTestSuite) TestCommitFlushesBufferedEvents() {
	ctx := context.Background()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))

	ord := s.newOrder(ctx, uow)
	uow.EnqueueEvent(events.OrderCreated{
		Meta: events.NewMeta(time.Now()), OrderID: int64(ord.ID()), StoreID: 3, CustomerID: 7,
	})
	s.Equal(0, s.publisher.count(), "nothing may publish before commit")

	s.Require().NoError(uow.Commit(ctx))
	s.Equal(1, s.publisher.count())
}

func (s *UnitOfWorkTestSuite) TestRollbackDiscardsStateAndEvents() {
	ctx := context.Background()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))

	ord := s.newOrder(ctx, uow)
	uow.EnqueueEvent(events.OrderCreated{
		Meta: events.NewMeta(time.Now()), OrderID: int64(ord.ID()), StoreID: 3, CustomerID: 7,
	})
	s.Require().NoError(uow.Rollback(ctx))

	s.Equal(0, s.publisher.count(), "no event may escape a rolled-back transaction")

	uow2 := s.factory.Create()
	s.Require().NoError(uow2.Begin(ctx))
	defer func() { _ = uow2.Rollback(ctx) }()
	_, err := uow2.OrderRepository().Get(ctx, ord.ID())
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *UnitOfWorkTestSuite) TestRollbackAfterCommitIsNoOp() {
	ctx := context.Background()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	ord := s.newOrder(ctx, uow)
	s.Require().NoError(uow.Commit(ctx))
	s.Require().NoError(uow.Rollback(ctx))

	uow2 := s.factory.Create()
	s.Require().NoError(uow2.Begin(ctx))
	defer func() { _ = uow2.Rollback(ctx) }()
	_, err := uow2.OrderRepository().Get(ctx, ord.ID())
	s.Require().NoError(err, "commit must survive a later deferred rollback")
}

func (s *UnitOfWorkTestSuite) seedStock(quantity int) {
	ctx := context.Background()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	row, err := stock.NewStock(10, quantity)
	s.Require().NoError(err)
	s.Require().NoError(uow.StockRepository().Add(ctx, row))
	s.Require().NoError(uow.Commit(ctx))
}

func (s *UnitOfWorkTestSuite) TestStockVersionConflict() {
	ctx := context.Background()
	s.seedStock(10)

	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	repo := uow.StockRepository()

	first, err := repo.GetByProductID(ctx, 10)
	s.Require().NoError(err)
	second, err := repo.GetByProductID(ctx, 10)
	s.Require().NoError(err)

	s.Require().NoError(first.Adjust(-1))
	s.Require().NoError(repo.Update(ctx, first))

	s.Require().NoError(second.Adjust(-1))
	err = repo.Update(ctx, second)
	s.Require().ErrorIs(err, errs.ErrVersionConflict, "stale version must not win")
}

func (s *UnitOfWorkTestSuite) TestConcurrentReservationsNeverOversell() {
	ctx := context.Background()
	const available = 20
	const workers = 40
	s.seedStock(available)

	service := commands.NewStockReservationService()
	var wg sync.WaitGroup
	var successes int64
	var mu sync.Mutex

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := s.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				return
			}
			defer func() { _ = uow.Rollback(ctx) }()

			if _, err := service.Adjust(ctx, uow.StockRepository(), 10, -1); err != nil {
				return
			}
			if err := uow.Commit(ctx); err != nil {
				return
			}
			mu.Lock()
			successes++
			mu.Unlock()
		}()
	}
	wg.Wait()

	var remaining int
	s.Require().NoError(s.db.Raw("SELECT quantity FROM stocks WHERE product_id = 10").Scan(&remaining).Error)
	s.GreaterOrEqual(remaining, 0, "stock must never go negative")
	s.LessOrEqual(successes, int64(available), "reservations must never oversell")
	s.Equal(int64(available-remaining), successes, "every success consumed exactly one unit")
}

func (s *UnitOfWorkTestSuite) TestSettlementCreateIfAbsent() {
	ctx := context.Background()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	repo := uow.SettlementRepository()

	detail := ports.SettlementDetail{
		OrderID: 5, TargetType: ports.SettlementTargetSeller, TargetID: 903,
		Amount: kernel.NewMoneyFromInt(5000),
	}

	created, err := repo.CreateIfAbsent(ctx, detail)
	s.Require().NoError(err)
	s.True(created)

	created, err = repo.CreateIfAbsent(ctx, detail)
	s.Require().NoError(err)
	s.False(created, "second insert of the same (order, target) must be a no-op")

	s.Require().NoError(uow.Commit(ctx))

	details, err := s.factory.Create().SettlementRepository().GetByOrderID(ctx, 5)
	s.Require().NoError(err)
	s.Len(details, 1)
}

func TestUnitOfWorkTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkTestSuite))
}
