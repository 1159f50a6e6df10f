// Package stockrepo persists stock rows under optimistic concurrency control.
// Every update is guarded by the version the row was read with; a lost race
// surfaces as a version conflict the reservation service retries.
package stockrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/stock"
)

// StockDTO is the database row of a product's stock.
type StockDTO struct {
	ProductID int64 `gorm:"primaryKey;autoIncrement:false"`
	Quantity  int
	Version   int64

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName maps the DTO to the "stocks" table.
func (StockDTO) TableName() string {
	return "stocks"
}

func fromDomain(aggregate *stock.Stock) StockDTO {
	return StockDTO{
		ProductID: int64(aggregate.ProductID()),
		Quantity:  aggregate.Quantity(),
		Version:   aggregate.Version(),
	}
}

func toDomain(dto StockDTO) (*stock.Stock, error) {
	return stock.RestoreStock(kernel.ProductID(dto.ProductID), dto.Quantity, dto.Version)
}
