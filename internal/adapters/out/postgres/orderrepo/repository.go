package orderrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
// Get takes a row lock, so concurrent transitions on the same order are
// serialized by the database; the loser re-reads the new status and fails in
// the state machine instead of overwriting.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a repository bound to the given handle,
// which is the transaction handle when created through the unit of work.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// NextID reserves a fresh order identifier from the table's sequence.
func (r *GormOrderRepository) NextID(ctx context.Context) (kernel.OrderID, error) {
	var id int64
	err := r.db.WithContext(ctx).
		Raw("SELECT nextval(pg_get_serial_sequence('orders', 'id'))").
		Scan(&id).Error
	if err != nil {
		return 0, err
	}
	return kernel.OrderID(id), nil
}

// Add saves a new order with its item lines.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves the mutable fields of an existing order. Item lines are frozen
// after placement and never rewritten here.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "delivery_id").
		Updates(map[string]any{
			"status":      dto.Status,
			"delivery_id": dto.DeliveryID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderId", dto.ID)
	}
	return nil
}

// Get retrieves an order by ID, locking the row for the transaction.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&dto, "id = ?", int64(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", int64(id))
		}
		return nil, err
	}

	return toDomain(dto)
}
