package stockrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/stock"
	"marketplace/internal/pkg/errs"
)

// GormStockRepository implements ports.StockRepository using GORM.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a repository bound to the given handle.
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Add creates the stock row for a new product at version 1.
func (r *GormStockRepository) Add(ctx context.Context, aggregate *stock.Stock) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByProductID reads the stock row fresh, including its current version.
// Deliberately no row lock: writers race on the version instead of blocking.
func (r *GormStockRepository) GetByProductID(ctx context.Context, productID kernel.ProductID) (*stock.Stock, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}

	var dto StockDTO
	err := r.db.WithContext(ctx).First(&dto, "product_id = ?", int64(productID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("productId", int64(productID))
		}
		return nil, err
	}
	return toDomain(dto)
}

// Update writes the row guarded by the version it was read with. A concurrent
// writer has bumped the version, the guarded update matches nothing and the
// caller gets a VersionConflictError to retry on.
func (r *GormStockRepository) Update(ctx context.Context, aggregate *stock.Stock) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&StockDTO{}).
		Where("product_id = ? AND version = ?", dto.ProductID, dto.Version).
		Updates(map[string]any{
			"quantity": dto.Quantity,
			"version":  dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionConflictError("stock", dto.ProductID)
	}
	return nil
}
