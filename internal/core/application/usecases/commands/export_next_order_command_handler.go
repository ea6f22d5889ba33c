package commands

import (
	"context"
	"errors"

	"storymap/internal/core/application/exporter"
	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/pkg/errs"
)

// ErrNoOrderAwaitingExport is returned when no approved order needs an export.
var ErrNoOrderAwaitingExport = errors.New("no order awaiting export")

// ExportHandler generates, delivers and records the export of one order.
// Implemented by *GenerateExportCommandHandler.
type ExportHandler interface {
	Handle(ctx context.Context, cmd GenerateExportCommand) (*exporter.ManufacturingExport, error)
}

// ExportNextOrderCommandHandler picks the next order awaiting export and
// hands it to the export handler.
//
// Example:
//
//	id, err := handler.Handle(ctx, NewExportNextOrderCommand())
//	switch {
//	case errors.Is(err, ErrNoOrderAwaitingExport):
//	    // queue is empty
//	case err != nil:
//	    log.Printf("export of %s failed: %v", id, err)
//	}
type ExportNextOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	exports    ExportHandler
}

// NewExportNextOrderCommandHandler creates the handler.
func NewExportNextOrderCommandHandler(uowFactory OrderUoWFactory, exports ExportHandler) ExportNextOrderCommandHandler {
	return ExportNextOrderCommandHandler{
		uowFactory: uowFactory,
		exports:    exports,
	}
}

// Handle exports the next order and returns its id. The id is also returned
// when the export fails, so the caller can skip the order next time.
func (h ExportNextOrderCommandHandler) Handle(ctx context.Context, cmd ExportNextOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	id, err := h.next(ctx, cmd.Skip())
	if err != nil {
		return kernel.UUID{}, err
	}

	exportCmd, err := NewGenerateExportCommand(id)
	if err != nil {
		return id, err
	}

	if _, err = h.exports.Handle(ctx, exportCmd); err != nil {
		return id, err
	}

	return id, nil
}

func (h ExportNextOrderCommandHandler) next(ctx context.Context, skip []kernel.UUID) (kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetFirstAwaitingExport(ctx, skip...)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return kernel.UUID{}, ErrNoOrderAwaitingExport
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	return o.ID(), nil
}
