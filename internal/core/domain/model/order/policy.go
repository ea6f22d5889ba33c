package order

import (
	"errors"
	"fmt"
)

// ErrTransitionNotAllowed is returned by a TransitionPolicy rejecting a move.
var ErrTransitionNotAllowed = errors.New("status transition is not allowed")

// TransitionPolicy decides whether an order may move between two statuses.
// Both statuses are already known to be valid when the policy is consulted.
type TransitionPolicy interface {
	CheckTransition(from, to Status) error
}

// PermissivePolicy accepts every transition so operations staff can correct
// an order by hand. It is the default.
type PermissivePolicy struct{}

func (PermissivePolicy) CheckTransition(_, _ Status) error {
	return nil
}

// LifecyclePolicy only allows the next happy path step, cancellation from a
// non terminal status, and a refund from any status but refunded.
type LifecyclePolicy struct{}

func (LifecyclePolicy) CheckTransition(from, to Status) error {
	switch {
	case to == Refunded && from != Refunded:
		return nil
	case to == Cancelled && !from.IsTerminal():
		return nil
	}

	path := getHappyPath()
	fromPos, fromOK := path[from]
	toPos, toOK := path[to]
	if fromOK && toOK && toPos == fromPos+1 {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from, to)
}
