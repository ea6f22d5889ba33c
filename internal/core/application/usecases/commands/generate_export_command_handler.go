package commands

import (
	"context"
	"log/slog"

	"storymap/internal/core/application/exporter"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/core/domain/model/production"
	"storymap/internal/core/ports"
)

// GenerateExportCommandHandler produces an order's export bundle and records
// it on the order.
//
// The export runs between two short transactions: the first loads the order
// and checks the export gate, the second records and delivers the export. The
// feature fetch therefore never holds a database transaction open. The record
// is written with a version check before the bundle reaches the sink, so a
// concurrent change to the order in between surfaces as
// ports.ErrConcurrentUpdate and nothing is delivered. The sink runs while the
// record transaction is open and a failed delivery rolls the record back.
type GenerateExportCommandHandler struct {
	uowFactory OrderUoWFactory
	exporter   ExportGenerator
	sink       ports.ExportSink
	logger     *slog.Logger
}

// NewGenerateExportCommandHandler creates the handler. sink may be nil, in
// which case the bundle is only returned to the caller.
func NewGenerateExportCommandHandler(
	uowFactory OrderUoWFactory,
	generator ExportGenerator,
	sink ports.ExportSink,
	logger *slog.Logger,
) GenerateExportCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return GenerateExportCommandHandler{
		uowFactory: uowFactory,
		exporter:   generator,
		sink:       sink,
		logger:     logger,
	}
}

// Handle generates, records and delivers the export. Fails with
// order.ErrNotExportable unless the order is approved, in production or in
// quality check. The record is committed only after the sink accepted the
// bundle, so a failed delivery leaves the order awaiting export.
func (h *GenerateExportCommandHandler) Handle(ctx context.Context, cmd GenerateExportCommand) (*exporter.ManufacturingExport, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.load(ctx, cmd)
	if err != nil {
		return nil, err
	}

	export, err := h.exporter.Export(ctx, o)
	if err != nil {
		return nil, err
	}

	if err = h.recordAndDeliver(ctx, o, export); err != nil {
		return nil, err
	}

	return export, nil
}

func (h *GenerateExportCommandHandler) load(ctx context.Context, cmd GenerateExportCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.CheckExportable(); err != nil {
		return nil, err
	}

	return o, nil
}

// recordAndDeliver updates the order under its version check, hands the
// bundle to the sink and commits. Nothing reaches the sink when the update
// fails, and nothing is committed when the sink fails.
func (h *GenerateExportCommandHandler) recordAndDeliver(ctx context.Context, o *order.Order, export *exporter.ManufacturingExport) error {
	if err := o.RecordExport(production.ExportRecord{
		FormatVersion: export.FormatVersion,
		ExportedAt:    export.ExportedAt,
		Files:         export.FileNames(),
	}); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if h.sink != nil {
		if err := h.sink.Store(ctx, export.OrderNumber, export.Files()); err != nil {
			h.logger.ErrorContext(ctx, "failed to deliver export bundle",
				"order_number", export.OrderNumber,
				"error", err,
			)
			return err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		h.logger.ErrorContext(ctx, "export delivered but not recorded",
			"order_number", export.OrderNumber,
			"error", err,
		)
		return err
	}
	return nil
}
