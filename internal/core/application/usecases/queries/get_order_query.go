package queries

import (
	"errors"
	"time"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/core/domain/model/production"
	"storymap/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order with its full status history.
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewGetOrderQuery creates the query for an order id.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order id.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// StatusHistoryResponse is one status history entry.
type StatusHistoryResponse struct {
	Status    order.Status
	Timestamp time.Time
	Actor     string
	Note      string
}

// GetOrderQueryResponse is the full view of an order.
type GetOrderQueryResponse struct {
	ID         kernel.UUID
	Number     string
	Status     order.Status
	MapData    mapdata.MapData
	Production production.Data
	CreatedAt  time.Time
	UpdatedAt  time.Time
	History    []StatusHistoryResponse
}
