package queries

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"marketplace/internal/pkg/errs"
)

// GetOrderQueryHandler reads an order row directly from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var resp GetOrderQueryResponse
	var deliveryID sql.NullInt64

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			store_price,
			delivery_price,
			total_price,
			delivery_id
		FROM orders
		WHERE id = ?
	`, int64(query.OrderID())).Row()

	err := row.Scan(
		&resp.OrderID,
		&resp.Status,
		&resp.StorePrice,
		&resp.DeliveryPrice,
		&resp.TotalPrice,
		&deliveryID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderId", int64(query.OrderID()))
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if deliveryID.Valid {
		resp.DeliveryID = &deliveryID.Int64
	}
	return resp, nil
}
