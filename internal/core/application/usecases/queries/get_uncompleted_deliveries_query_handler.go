package queries

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"marketplace/internal/core/domain/model/delivery"
)

// GetUncompletedDeliveriesQueryHandler reads the in-flight deliveries directly
// from the database, skipping the terminal statuses.
type GetUncompletedDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetUncompletedDeliveriesQueryHandler creates a handler for dispatch
// monitoring reads.
func NewGetUncompletedDeliveriesQueryHandler(db *gorm.DB) GetUncompletedDeliveriesQueryHandler {
	return GetUncompletedDeliveriesQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by delivery ID.
func (h GetUncompletedDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetUncompletedDeliveriesQuery,
) ([]GetUncompletedDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]GetUncompletedDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			status,
			rider_id,
			remaining_minutes
		FROM deliveries
		WHERE status NOT IN (?, ?, ?)
		ORDER BY id
	`, delivery.StatusCompleted, delivery.StatusCanceled, delivery.StatusRejected).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetUncompletedDeliveriesQueryResponse
		var riderID sql.NullInt64

		if err = rows.Scan(
			&resp.DeliveryID,
			&resp.OrderID,
			&resp.Status,
			&riderID,
			&resp.RemainingMinutes,
		); err != nil {
			return nil, err
		}
		if riderID.Valid {
			resp.RiderID = &riderID.Int64
		}
		deliveries = append(deliveries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return deliveries, nil
}
