package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"

	"storymap/internal/core/application/usecases/commands"
	"storymap/internal/core/domain/model/geo"
	"storymap/internal/core/domain/model/kernel"
)

const (
	// DefaultExportSchedule runs the export job every 30 seconds.
	DefaultExportSchedule = "*/30 * * * * *"
	// DefaultExportBatch is the most orders exported in one run.
	DefaultExportBatch = 5
	// DefaultRetryInterval is the first wait before a failed order is retried.
	DefaultRetryInterval = time.Minute
	// DefaultMaxRetryInterval caps the wait between retries of one order.
	DefaultMaxRetryInterval = time.Hour
)

// ExportNextOrderHandler exports the oldest order awaiting export.
type ExportNextOrderHandler interface {
	Handle(ctx context.Context, cmd commands.ExportNextOrderCommand) (kernel.UUID, error)
}

// ExportJobConfig tunes ProductionExportJob. Zero values use the defaults.
type ExportJobConfig struct {
	Schedule         string
	Batch            int
	RetryInterval    time.Duration
	MaxRetryInterval time.Duration
}

func (c ExportJobConfig) withDefaults() ExportJobConfig {
	if c.Schedule == "" {
		c.Schedule = DefaultExportSchedule
	}
	if c.Batch <= 0 {
		c.Batch = DefaultExportBatch
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = DefaultRetryInterval
	}
	if c.MaxRetryInterval < c.RetryInterval {
		c.MaxRetryInterval = max(DefaultMaxRetryInterval, c.RetryInterval)
	}
	return c
}

// retry tracks one failing order.
type retry struct {
	policy *backoff.ExponentialBackOff
	next   time.Time
}

// ProductionExportJob generates manufacturing files for approved orders in
// the background. An order whose export fails is skipped until its backoff
// expires, so it cannot hold up the orders behind it.
type ProductionExportJob struct {
	handler ExportNextOrderHandler
	config  ExportJobConfig
	cron    *cron.Cron
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	failed map[kernel.UUID]*retry

	ctx    context.Context
	cancel context.CancelFunc
}

// NewProductionExportJob creates the job.
func NewProductionExportJob(handler ExportNextOrderHandler, config ExportJobConfig, logger *slog.Logger) *ProductionExportJob {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "production_export_job")
	ctx, cancel := context.WithCancel(context.Background())

	return &ProductionExportJob{
		handler: handler,
		config:  config.withDefaults(),
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		logger: logger,
		now:    time.Now,
		failed: make(map[kernel.UUID]*retry),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start schedules the job.
func (j *ProductionExportJob) Start() error {
	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		j.RunOnce(j.ctx)
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(j.ctx, "Production export job started", "schedule", j.config.Schedule)
	return nil
}

// Stop cancels a running export and waits for it to return.
func (j *ProductionExportJob) Stop() {
	j.cancel()
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Production export job stopped")
}

// RunOnce exports up to the configured batch of orders and returns how many
// succeeded.
func (j *ProductionExportJob) RunOnce(ctx context.Context) int {
	exported := 0
	for range j.config.Batch {
		if ctx.Err() != nil {
			return exported
		}

		id, err := j.handler.Handle(ctx, commands.NewExportNextOrderCommand(j.skipped()...))
		switch {
		case errors.Is(err, commands.ErrNoOrderAwaitingExport):
			return exported
		case err != nil && id.Validate() != nil:
			j.logger.ErrorContext(ctx, "Production export job failed", "error", err)
			return exported
		case err != nil:
			j.markFailed(ctx, id, err)
		default:
			j.clear(id)
			exported++
		}
	}
	return exported
}

// skipped lists the orders still inside their backoff window. Expired entries
// stay in failed until an export succeeds, so the next failure backs off longer.
func (j *ProductionExportJob) skipped() []kernel.UUID {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	ids := make([]kernel.UUID, 0, len(j.failed))
	for id, r := range j.failed {
		if now.Before(r.next) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (j *ProductionExportJob) markFailed(ctx context.Context, id kernel.UUID, err error) {
	j.mu.Lock()
	r, ok := j.failed[id]
	if !ok {
		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = j.config.RetryInterval
		policy.MaxInterval = j.config.MaxRetryInterval
		policy.RandomizationFactor = 0
		policy.MaxElapsedTime = 0
		policy.Reset()
		r = &retry{policy: policy}
		j.failed[id] = r
	}
	wait := r.policy.NextBackOff()
	r.next = j.now().Add(wait)
	j.mu.Unlock()

	attrs := []any{"order_id", id.String(), "retry_in", wait.String(), "error", err}
	if reason, isSource := geo.FeatureSourceReason(err); isSource {
		attrs = append(attrs, "reason", string(reason))
	}
	j.logger.WarnContext(ctx, "Order export failed", attrs...)
}

func (j *ProductionExportJob) clear(id kernel.UUID) {
	j.mu.Lock()
	delete(j.failed, id)
	j.mu.Unlock()
}
