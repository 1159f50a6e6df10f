package deliveryrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
// Single-row reads take a row lock, so two riders accepting the same delivery
// are serialized: the second reads the assigned status and fails in the
// aggregate instead of overwriting the first assignment.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a repository bound to the given handle.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// NextID reserves a fresh delivery identifier from the table's sequence.
func (r *GormDeliveryRepository) NextID(ctx context.Context) (kernel.DeliveryID, error) {
	var id int64
	err := r.db.WithContext(ctx).
		Raw("SELECT nextval(pg_get_serial_sequence('deliveries', 'id'))").
		Scan(&id).Error
	if err != nil {
		return 0, err
	}
	return kernel.DeliveryID(id), nil
}

// Add saves a new delivery.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing delivery.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&DeliveryDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"rider_id":          dto.RiderID,
			"status":            dto.Status,
			"expected_minutes":  dto.ExpectedMinutes,
			"remaining_minutes": dto.RemainingMinutes,
			"tried_riders":      dto.TriedRiders,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("deliveryId", dto.ID)
	}
	return nil
}

// Get retrieves a delivery by ID, locking the row for the transaction.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.DeliveryID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.getOne(ctx, "id = ?", int64(id), "deliveryId", int64(id))
}

// GetByOrderID retrieves the delivery attached to an order, locking the row.
func (r *GormDeliveryRepository) GetByOrderID(ctx context.Context, orderID kernel.OrderID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.getOne(ctx, "order_id = ?", int64(orderID), "orderId", int64(orderID))
}

func (r *GormDeliveryRepository) getOne(
	ctx context.Context,
	where string,
	value int64,
	paramName string,
	paramValue int64,
) (*delivery.Delivery, error) {
	var dto DeliveryDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, where, value).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(paramName, paramValue)
		}
		return nil, err
	}
	return toDomain(dto)
}

// GetAllPending retrieves the deliveries waiting in the matching pool,
// oldest request first. No row lock: the matching job mutates deliveries only
// through later Get calls in its own transactions.
func (r *GormDeliveryRepository) GetAllPending(ctx context.Context) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).
		Order("requested_at").
		Find(&dtos, "status = ?", string(delivery.StatusPending)).Error
	if err != nil {
		return nil, err
	}

	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}
