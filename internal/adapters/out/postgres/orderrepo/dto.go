// Package orderrepo persists the order aggregate. The DTO split keeps the
// domain model free of persistence tags; mapping goes through RestoreOrder so
// a stored row always rehydrates into a valid aggregate.
package orderrepo

import (
	"time"

	"github.com/shopspring/decimal"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderDTO is the database row of an order aggregate.
type OrderDTO struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	StoreID    int64  `gorm:"index"`
	CustomerID int64  `gorm:"index"`
	Status     string `gorm:"type:varchar(32);index"`

	StorePrice    decimal.Decimal `gorm:"type:numeric(14,2)"`
	DeliveryPrice decimal.Decimal `gorm:"type:numeric(14,2)"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(14,2)"`

	Address string `gorm:"type:varchar(255)"`
	Note    string `gorm:"type:varchar(255)"`

	DeliveryID *int64 `gorm:"index"`

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName maps the DTO to the "orders" table.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one frozen item line of an order.
type OrderItemDTO struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"index"`
	ProductID int64           `gorm:"index"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2)"`
	Quantity  int
}

// TableName maps the DTO to the "order_items" table.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   int64(aggregate.ID()),
			ProductID: int64(item.ProductID()),
			UnitPrice: item.UnitPrice().Decimal(),
			Quantity:  item.Quantity(),
		})
	}

	var deliveryID *int64
	if id := aggregate.DeliveryID(); id != nil {
		raw := int64(*id)
		deliveryID = &raw
	}

	return OrderDTO{
		ID:            int64(aggregate.ID()),
		StoreID:       int64(aggregate.StoreID()),
		CustomerID:    int64(aggregate.CustomerID()),
		Status:        string(aggregate.Status()),
		StorePrice:    aggregate.StorePrice().Decimal(),
		DeliveryPrice: aggregate.DeliveryPrice().Decimal(),
		TotalPrice:    aggregate.TotalPrice().Decimal(),
		Address:       aggregate.Address(),
		Note:          aggregate.Note(),
		DeliveryID:    deliveryID,
		Items:         items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		unitPrice, err := kernel.NewMoney(itemDTO.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(kernel.ProductID(itemDTO.ProductID), unitPrice, itemDTO.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	storePrice, err := kernel.NewMoney(dto.StorePrice)
	if err != nil {
		return nil, err
	}
	deliveryPrice, err := kernel.NewMoney(dto.DeliveryPrice)
	if err != nil {
		return nil, err
	}

	var deliveryID *kernel.DeliveryID
	if dto.DeliveryID != nil {
		id := kernel.DeliveryID(*dto.DeliveryID)
		deliveryID = &id
	}

	return order.RestoreOrder(
		kernel.OrderID(dto.ID),
		kernel.StoreID(dto.StoreID),
		kernel.CustomerID(dto.CustomerID),
		dto.Address,
		dto.Note,
		storePrice,
		deliveryPrice,
		order.Status(dto.Status),
		items,
		deliveryID,
	)
}
