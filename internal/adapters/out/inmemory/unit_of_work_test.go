package inmemory_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketplace/internal/adapters/out/inmemory"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

type capturingPublisher struct {
	mu    sync.Mutex
	names []string
}

func (p *capturingPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = append(p.names, event.EventName())
	return nil
}

func (p *capturingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.names...)
}

func newFixture() (*inmemory.Store, *capturingPublisher, *inmemory.UnitOfWorkFactory) {
	store := inmemory.NewStore()
	publisher := &capturingPublisher{}
	factory := inmemory.NewUnitOfWorkFactory(store, publisher, slog.New(slog.DiscardHandler))
	return store, publisher, factory
}

func addOrder(t *testing.T, factory *inmemory.UnitOfWorkFactory) kernel.OrderID {
	t.Helper()
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	repo := uow.OrderRepository()
	id, err := repo.NextID(ctx)
	require.NoError(t, err)

	item, err := order.NewItem(10, kernel.NewMoneyFromInt(2500), 2)
	require.NoError(t, err)
	ord, err := order.NewOrder(id, 3, 7, "24 Harbor Lane", "", kernel.NewMoneyFromInt(3000), []order.Item{item})
	require.NoError(t, err)

	require.NoError(t, repo.Add(ctx, ord))
	require.NoError(t, uow.Commit(ctx))
	return id
}

func TestCommitPublishesBufferedEvents(t *testing.T) {
	_, publisher, factory := newFixture()
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	uow.EnqueueEvent(events.OrderCreated{Meta: events.NewMeta(time.Now()), OrderID: 1, StoreID: 3, CustomerID: 7})

	require.Empty(t, publisher.published(), "nothing may publish before commit")
	require.NoError(t, uow.Commit(ctx))
	require.Equal(t, []string{events.NameOrderCreated}, publisher.published())
}

func TestRollbackRestoresWritesAndDiscardsEvents(t *testing.T) {
	_, publisher, factory := newFixture()
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	repo := uow.OrderRepository()
	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	item, err := order.NewItem(10, kernel.NewMoneyFromInt(2500), 1)
	require.NoError(t, err)
	ord, err := order.NewOrder(id, 3, 7, "24 Harbor Lane", "", kernel.NewMoneyFromInt(3000), []order.Item{item})
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, ord))
	uow.EnqueueEvent(events.OrderCreated{Meta: events.NewMeta(time.Now()), OrderID: int64(id), StoreID: 3, CustomerID: 7})

	require.NoError(t, uow.Rollback(ctx))
	require.Empty(t, publisher.published())

	_, err = factory.Create().OrderRepository().Get(ctx, id)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestRollbackAfterCommitKeepsWrites(t *testing.T) {
	_, _, factory := newFixture()
	ctx := context.Background()
	id := addOrder(t, factory)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	ord, err := uow.OrderRepository().Get(ctx, id)
	require.NoError(t, err)
	require.NoError(t, ord.TransitTo(order.StatusPreparing))
	require.NoError(t, uow.OrderRepository().Update(ctx, ord))
	require.NoError(t, uow.Commit(ctx))
	require.NoError(t, uow.Rollback(ctx))

	restored, err := factory.Create().OrderRepository().Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, order.StatusPreparing, restored.Status())
}

func TestConcurrentOrderUpdatesSerialize(t *testing.T) {
	_, _, factory := newFixture()
	ctx := context.Background()
	id := addOrder(t, factory)

	first := factory.Create()
	second := factory.Create()
	require.NoError(t, first.Begin(ctx))
	require.NoError(t, second.Begin(ctx))

	ordA, err := first.OrderRepository().Get(ctx, id)
	require.NoError(t, err)
	ordB, err := second.OrderRepository().Get(ctx, id)
	require.NoError(t, err)

	require.NoError(t, ordA.TransitTo(order.StatusPreparing))
	require.NoError(t, first.OrderRepository().Update(ctx, ordA))
	require.NoError(t, first.Commit(ctx))

	require.NoError(t, ordB.TransitTo(order.StatusCancelled))
	err = second.OrderRepository().Update(ctx, ordB)
	require.ErrorIs(t, err, errs.ErrVersionConflict, "second writer must lose")
}

func TestStockUpdateGuardsOnVersion(t *testing.T) {
	store, _, factory := newFixture()
	ctx := context.Background()
	store.SeedStock(10, 10)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	repo := uow.StockRepository()

	first, err := repo.GetByProductID(ctx, 10)
	require.NoError(t, err)
	second, err := repo.GetByProductID(ctx, 10)
	require.NoError(t, err)

	require.NoError(t, first.Adjust(-1))
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.Adjust(-1))
	require.ErrorIs(t, repo.Update(ctx, second), errs.ErrVersionConflict)
}

func TestRollbackRestoresStock(t *testing.T) {
	store, _, factory := newFixture()
	ctx := context.Background()
	store.SeedStock(10, 10)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	repo := uow.StockRepository()

	row, err := repo.GetByProductID(ctx, 10)
	require.NoError(t, err)
	require.NoError(t, row.Adjust(-4))
	require.NoError(t, repo.Update(ctx, row))
	require.NoError(t, uow.Rollback(ctx))

	quantity, ok := store.StockQuantity(10)
	require.True(t, ok)
	require.Equal(t, 10, quantity)
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	const available = 20
	const workers = 40

	store, _, factory := newFixture()
	store.SeedStock(10, available)
	ctx := context.Background()

	service := commands.NewStockReservationService()
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := factory.Create()
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

	remaining, ok := store.StockQuantity(10)
	require.True(t, ok)
	require.GreaterOrEqual(t, remaining, 0, "stock must never go negative")
	require.LessOrEqual(t, successes, available, "reservations must never oversell")
	require.Equal(t, available-remaining, successes, "every success consumed exactly one unit")
}
