package settlementrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

// GormSettlementRepository implements ports.SettlementRepository using GORM.
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewGormSettlementRepository creates a repository bound to the given handle.
func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// CreateIfAbsent inserts the detail unless its (order, target) key exists.
// ON CONFLICT DO NOTHING makes the insert race-free: of two concurrent
// consumers, exactly one reports created=true.
func (r *GormSettlementRepository) CreateIfAbsent(ctx context.Context, detail ports.SettlementDetail) (bool, error) {
	dto := fromDetail(detail)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GetByOrderID lists the details recorded for an order.
func (r *GormSettlementRepository) GetByOrderID(ctx context.Context, orderID kernel.OrderID) ([]ports.SettlementDetail, error) {
	var dtos []SettlementDetailDTO
	err := r.db.WithContext(ctx).
		Order("target_type").
		Find(&dtos, "order_id = ?", int64(orderID)).Error
	if err != nil {
		return nil, err
	}

	details := make([]ports.SettlementDetail, 0, len(dtos))
	for _, dto := range dtos {
		detail, mapErr := toDetail(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		details = append(details, detail)
	}
	return details, nil
}
