package ports

import (
	"context"
)

// UnitOfWorkFactory hands out one UnitOfWork per command. A unit of work is
// never shared between goroutines.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary around order changes. A status
// change and its history entry, or an export record, are committed together
// or not at all.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails when no transaction was started.
	Commit(ctx context.Context) error

	// Rollback is deferred by every handler. After a successful Commit it only
	// reports that no transaction is active, and callers ignore that.
	Rollback(ctx context.Context) error

	// OrderRepository is bound to the transaction started by Begin, or to
	// the plain connection before it.
	OrderRepository() OrderRepository
}
