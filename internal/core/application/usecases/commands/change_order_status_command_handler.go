package commands

import (
	"context"

	"storymap/internal/core/domain/model/order"
)

// ChangeOrderStatusCommandHandler applies status changes under the configured
// transition policy. The status and its history entry are written in one
// transaction.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     order.TransitionPolicy
	clock      Clock
}

// NewChangeOrderStatusCommandHandler creates the handler. A nil policy
// accepts every transition.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	policy order.TransitionPolicy,
	clock Clock,
) ChangeOrderStatusCommandHandler {
	if policy == nil {
		policy = order.PermissivePolicy{}
	}
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		clock:      clock,
	}
}

// Handle loads the order, checks the expected status, applies the change and
// returns the updated order.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if expected, ok := cmd.Expected(); ok {
		if err = o.ExpectStatus(expected); err != nil {
			return nil, err
		}
	}

	if err = o.ChangeStatus(cmd.Status(), cmd.Actor(), cmd.Note(), h.clock.now(), h.policy); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
