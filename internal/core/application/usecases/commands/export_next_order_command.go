package commands

import (
	"errors"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/pkg/guard"
)

var ErrExportNextOrderCommandIsNotConstructed = errors.New(
	"ExportNextOrderCommand must be created via NewExportNextOrderCommand constructor",
)

// ExportNextOrderCommand triggers the export of the oldest approved order that
// has no export yet. Orders listed in skip are passed over, which lets a
// scheduler back off from an order that keeps failing.
//
// Example:
//
//	cmd := NewExportNextOrderCommand(failingOrderID)
//	id, err := handler.Handle(ctx, cmd)
type ExportNextOrderCommand struct { //nolint:recvcheck //using for validation
	skip []kernel.UUID

	guard guard.ConstructorGuard
}

// NewExportNextOrderCommand creates the command. Invalid skip ids are ignored.
func NewExportNextOrderCommand(skip ...kernel.UUID) ExportNextOrderCommand {
	ids := make([]kernel.UUID, 0, len(skip))
	for _, id := range skip {
		if id.Validate() == nil {
			ids = append(ids, id)
		}
	}

	return ExportNextOrderCommand{
		skip:  ids,
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ExportNextOrderCommand) Validate() error {
	return c.guard.Validate(ErrExportNextOrderCommandIsNotConstructed)
}

// Skip returns the orders to pass over.
func (c ExportNextOrderCommand) Skip() []kernel.UUID {
	out := make([]kernel.UUID, len(c.skip))
	copy(out, c.skip)
	return out
}
