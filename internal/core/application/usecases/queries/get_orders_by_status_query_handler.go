package queries

import (
	"context"
	"database/sql"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrdersByStatusQueryHandler reads order summaries straight from the
// orders table without loading aggregates.
type GetOrdersByStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersByStatusQueryHandler creates a handler for order list queries.
func NewGetOrdersByStatusQueryHandler(db *gorm.DB) GetOrdersByStatusQueryHandler {
	return GetOrdersByStatusQueryHandler{db: db}
}

// Handle executes the query. Results are sorted oldest first.
func (h GetOrdersByStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersByStatusQuery,
) ([]GetOrdersByStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := ""
	if status, ok := query.Status(); ok {
		filter = status.String()
	}

	orders := make([]GetOrdersByStatusQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			map_data->>'title',
			status,
			production->'material'->>'material',
			created_at,
			updated_at,
			exported_at
		FROM orders
		WHERE (?::text = '' OR status = ?)
		ORDER BY created_at, id
	`, filter, filter).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOrdersByStatusQueryResponse
		var id uuid.UUID
		var status string
		var exportedAt sql.NullTime

		err = rows.Scan(
			&id,
			&resp.Number,
			&resp.Title,
			&status,
			&resp.Material,
			&resp.CreatedAt,
			&resp.UpdatedAt,
			&exportedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		resp.Status = order.Status(status)
		resp.CreatedAt = resp.CreatedAt.UTC()
		resp.UpdatedAt = resp.UpdatedAt.UTC()
		if exportedAt.Valid {
			at := exportedAt.Time.UTC()
			resp.ExportedAt = &at
		}
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

