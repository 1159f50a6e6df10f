// Package settlementrepo persists settlement details with a composite primary
// key on (order_id, target_type). The key is what gives the settlement
// consumer its exactly-once behavior under redelivery.
package settlementrepo

import (
	"time"

	"github.com/shopspring/decimal"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

// SettlementDetailDTO is the database row of one settlement split.
type SettlementDetailDTO struct {
	OrderID    int64           `gorm:"primaryKey;autoIncrement:false"`
	TargetType string          `gorm:"primaryKey;type:varchar(16)"`
	TargetID   int64           `gorm:"index"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName maps the DTO to the "settlement_details" table.
func (SettlementDetailDTO) TableName() string {
	return "settlement_details"
}

func fromDetail(detail ports.SettlementDetail) SettlementDetailDTO {
	return SettlementDetailDTO{
		OrderID:    int64(detail.OrderID),
		TargetType: string(detail.TargetType),
		TargetID:   detail.TargetID,
		Amount:     detail.Amount.Decimal(),
	}
}

func toDetail(dto SettlementDetailDTO) (ports.SettlementDetail, error) {
	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return ports.SettlementDetail{}, err
	}
	return ports.SettlementDetail{
		OrderID:    kernel.OrderID(dto.OrderID),
		TargetType: ports.SettlementTargetType(dto.TargetType),
		TargetID:   dto.TargetID,
		Amount:     amount,
	}, nil
}
