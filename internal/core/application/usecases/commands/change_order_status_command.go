package commands

import (
	"errors"
	"strings"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents a request to move an order to a new status.
//
// Example:
//
//	approved := order.DesignReview
//	cmd, err := NewChangeOrderStatusCommand(orderID, order.Approved, "ops-7", "proof signed", &approved)
//	if err != nil {
//	    return err
//	}
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	status   order.Status
	actor    string
	note     string
	expected *order.Status

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a status change command.
// expected is optional; when set the change fails with order.ErrStatusConflict
// if the order is no longer in that status.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	status order.Status,
	actor string,
	note string,
	expected *order.Status,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		actor: strings.TrimSpace(actor),
		note:  strings.TrimSpace(note),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
		cmd.setExpected(expected),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to change.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Status returns the target status.
func (c ChangeOrderStatusCommand) Status() order.Status {
	return c.status
}

// Actor returns who requested the change.
func (c ChangeOrderStatusCommand) Actor() string {
	return c.actor
}

// Note returns the optional note.
func (c ChangeOrderStatusCommand) Note() string {
	return c.note
}

// Expected returns the expected current status and whether one was given.
func (c ChangeOrderStatusCommand) Expected() (order.Status, bool) {
	if c.expected == nil {
		return "", false
	}
	return *c.expected, true
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

func (c *ChangeOrderStatusCommand) setExpected(expected *order.Status) error {
	if expected == nil {
		return nil
	}
	if err := expected.Validate(); err != nil {
		return err
	}

	s := *expected
	c.expected = &s
	return nil
}
