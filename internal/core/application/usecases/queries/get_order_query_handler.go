package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"storymap/internal/core/domain/model/order"
	"storymap/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order and its history with two statements.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ObjectNotFoundError for an unknown id.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	resp := GetOrderQueryResponse{ID: query.OrderID()}

	var status string
	var mapData, productionData []byte
	err := db.Raw(`
		SELECT
			number,
			status,
			map_data,
			production,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row().Scan(
		&resp.Number,
		&status,
		&mapData,
		&productionData,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	resp.Status = order.Status(status)
	resp.CreatedAt = resp.CreatedAt.UTC()
	resp.UpdatedAt = resp.UpdatedAt.UTC()
	if err = json.Unmarshal(mapData, &resp.MapData); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err = json.Unmarshal(productionData, &resp.Production); err != nil {
		return GetOrderQueryResponse{}, err
	}

	rows, err := db.Raw(`
		SELECT
			status,
			timestamp,
			actor,
			note
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY sequence
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry StatusHistoryResponse
		var entryStatus string
		if err = rows.Scan(&entryStatus, &entry.Timestamp, &entry.Actor, &entry.Note); err != nil {
			return GetOrderQueryResponse{}, err
		}
		entry.Status = order.Status(entryStatus)
		entry.Timestamp = entry.Timestamp.UTC()
		resp.History = append(resp.History, entry)
	}

	if err = rows.Err(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}
