package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storymap/internal/core/domain/model/order"
	"storymap/internal/core/domain/model/production"
	"storymap/internal/core/ports"
)

// maxNumberAttempts bounds order number regeneration on collision.
const maxNumberAttempts = 5

// ErrOrderNumberExhausted is returned when no free order number was found.
var ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")

// CreateOrderCommandHandler handles the business logic for placing orders.
// Snapshots the referenced template, resolves production data and allocates
// a unique order number.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, templates, materials, nil)
//	cmd, _ := NewCreateOrderCommand(kernel.NewUUID(), snapshot, "customer-42")
//
//	number, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now pending design review
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	templates  ports.TemplateCatalog
	materials  ports.MaterialCatalog
	clock      Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// A nil clock uses time.Now.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	templates ports.TemplateCatalog,
	materials ports.MaterialCatalog,
	clock Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		templates:  templates,
		materials:  materials,
		clock:      clock,
	}
}

// Handle processes the order creation command and returns the new order number.
// Uses a transaction to ensure the order is properly persisted or rolled back on error.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (order.Number, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	snapshot := cmd.MapData()
	if snapshot.TemplateID != "" && snapshot.Template == nil {
		tmpl, err := h.templates.Template(snapshot.TemplateID)
		if err != nil {
			return "", err
		}
		copied := *tmpl
		snapshot.Template = &copied
	}

	material, err := h.materials.Material(snapshot.Export.Material)
	if err != nil {
		return "", err
	}

	now := h.clock.now()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	number, err := allocateNumber(ctx, orderRepo, now)
	if err != nil {
		return "", err
	}

	data, err := production.NewData(snapshot.Export, material, number.String())
	if err != nil {
		return "", err
	}

	o, err := order.NewOrder(cmd.OrderID(), number, snapshot, data, cmd.Actor(), now)
	if err != nil {
		return "", err
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return number, nil
}

func allocateNumber(ctx context.Context, repo ports.OrderRepository, now time.Time) (order.Number, error) {
	for range maxNumberAttempts {
		number := order.GenerateNumber(now)
		exists, err := repo.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrOrderNumberExhausted, maxNumberAttempts)
}
