package queries

import (
	"errors"
	"time"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/pkg/guard"
)

var (
	ErrGetOrdersByStatusQueryIsNotConstructed = errors.New(
		"GetOrdersByStatusQuery must be created via NewGetOrdersByStatusQuery constructor",
	)
)

// GetOrdersByStatusQuery lists orders, optionally restricted to one status.
// Used by the production floor to see what is waiting at each stage.
//
// Example:
//
//	approved := order.Approved
//	query, err := NewGetOrdersByStatusQuery(&approved)
//	if err != nil {
//	    return err
//	}
//
//	orders, err := handler.Handle(ctx, query)
//	for _, o := range orders {
//	    fmt.Printf("%s %q (%s)\n", o.Number, o.Title, o.Material)
//	}
type GetOrdersByStatusQuery struct {
	status *order.Status
	guard  guard.ConstructorGuard
}

// NewGetOrdersByStatusQuery creates the query. A nil status lists all orders.
func NewGetOrdersByStatusQuery(status *order.Status) (GetOrdersByStatusQuery, error) {
	q := GetOrdersByStatusQuery{guard: guard.NewConstructorGuard()}
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetOrdersByStatusQuery{}, err
		}
		s := *status
		q.status = &s
	}
	return q, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrdersByStatusQueryIsNotConstructed if validation fails.
func (q GetOrdersByStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByStatusQueryIsNotConstructed)
}

// Status returns the status filter and whether one is set.
func (q GetOrdersByStatusQuery) Status() (order.Status, bool) {
	if q.status == nil {
		return "", false
	}
	return *q.status, true
}

// GetOrdersByStatusQueryResponse is the summary of one order.
type GetOrdersByStatusQueryResponse struct {
	ID         kernel.UUID
	Number     string
	Title      string
	Status     order.Status
	Material   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExportedAt *time.Time
}
