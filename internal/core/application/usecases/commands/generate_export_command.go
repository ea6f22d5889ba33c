package commands

import (
	"errors"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/pkg/guard"
)

var ErrGenerateExportCommandIsNotConstructed = errors.New(
	"GenerateExportCommand must be created via NewGenerateExportCommand constructor",
)

// GenerateExportCommand requests the manufacturing files of an order.
type GenerateExportCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGenerateExportCommand creates an export command for an order.
func NewGenerateExportCommand(orderID kernel.UUID) (GenerateExportCommand, error) {
	if err := orderID.Validate(); err != nil {
		return GenerateExportCommand{}, err
	}

	return GenerateExportCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c GenerateExportCommand) Validate() error {
	return c.guard.Validate(ErrGenerateExportCommandIsNotConstructed)
}

// OrderID returns the order to export.
func (c GenerateExportCommand) OrderID() kernel.UUID {
	return c.orderID
}
