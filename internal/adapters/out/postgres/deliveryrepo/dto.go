// Package deliveryrepo persists the delivery aggregate, including the set of
// riders already tried during matching (stored as a JSONB array).
package deliveryrepo

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
)

// DeliveryDTO is the database row of a delivery aggregate.
type DeliveryDTO struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	OrderID    int64  `gorm:"uniqueIndex"`
	StoreID    int64  `gorm:"index"`
	CustomerID int64  `gorm:"index"`
	RiderID    *int64 `gorm:"index"`
	Status     string `gorm:"type:varchar(32);index"`

	ExpectedMinutes  float64
	RemainingMinutes float64
	Charge           decimal.Decimal `gorm:"type:numeric(14,2)"`

	RequestedAt time.Time
	TriedRiders []byte `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName maps the DTO to the "deliveries" table.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

func fromDomain(aggregate *delivery.Delivery) (DeliveryDTO, error) {
	tried := aggregate.TriedRiders()
	triedRaw, err := json.Marshal(tried)
	if err != nil {
		return DeliveryDTO{}, err
	}

	var riderID *int64
	if id := aggregate.RiderID(); id != nil {
		raw := int64(*id)
		riderID = &raw
	}

	return DeliveryDTO{
		ID:               int64(aggregate.ID()),
		OrderID:          int64(aggregate.OrderID()),
		StoreID:          int64(aggregate.StoreID()),
		CustomerID:       int64(aggregate.CustomerID()),
		RiderID:          riderID,
		Status:           string(aggregate.Status()),
		ExpectedMinutes:  aggregate.ExpectedMinutes(),
		RemainingMinutes: aggregate.RemainingMinutes(),
		Charge:           aggregate.Charge().Decimal(),
		RequestedAt:      aggregate.RequestedAt(),
		TriedRiders:      triedRaw,
	}, nil
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	var tried []kernel.RiderID
	if len(dto.TriedRiders) > 0 {
		if err := json.Unmarshal(dto.TriedRiders, &tried); err != nil {
			return nil, err
		}
	}

	charge, err := kernel.NewMoney(dto.Charge)
	if err != nil {
		return nil, err
	}

	var riderID *kernel.RiderID
	if dto.RiderID != nil {
		id := kernel.RiderID(*dto.RiderID)
		riderID = &id
	}

	return delivery.RestoreDelivery(
		kernel.DeliveryID(dto.ID),
		kernel.OrderID(dto.OrderID),
		kernel.StoreID(dto.StoreID),
		kernel.CustomerID(dto.CustomerID),
		riderID,
		delivery.Status(dto.Status),
		dto.ExpectedMinutes,
		dto.RemainingMinutes,
		charge,
		dto.RequestedAt,
		tried,
	)
}
