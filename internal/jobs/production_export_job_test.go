package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storymap/internal/core/application/usecases/commands"
	"storymap/internal/core/domain/model/geo"
	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/jobs"
)

type MockExportNextOrderHandler struct{ mock.Mock }

func (m *MockExportNextOrderHandler) Handle(ctx context.Context, cmd commands.ExportNextOrderCommand) (kernel.UUID, error) {
	args := m.Called(ctx, cmd.Skip())
	id, _ := args.Get(0).(kernel.UUID)
	return id, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noSkip(skip []kernel.UUID) bool { return len(skip) == 0 }

func TestProductionExportJob_RunOnce_ExportsUntilQueueIsEmpty(t *testing.T) {
	ctx := t.Context()
	handler := new(MockExportNextOrderHandler)
	handler.On("Handle", mock.Anything, mock.MatchedBy(noSkip)).Return(kernel.NewUUID(), nil).Twice()
	handler.On("Handle", mock.Anything, mock.MatchedBy(noSkip)).
		Return(kernel.UUID{}, commands.ErrNoOrderAwaitingExport).Once()

	job := jobs.NewProductionExportJob(handler, jobs.ExportJobConfig{}, discardLogger())
	exported := job.RunOnce(ctx)

	assert.Equal(t, 2, exported)
	handler.AssertExpectations(t)
}

func TestProductionExportJob_RunOnce_StopsAtBatch(t *testing.T) {
	ctx := t.Context()
	handler := new(MockExportNextOrderHandler)
	handler.On("Handle", mock.Anything, mock.Anything).Return(kernel.NewUUID(), nil)

	job := jobs.NewProductionExportJob(handler, jobs.ExportJobConfig{Batch: 3}, discardLogger())
	exported := job.RunOnce(ctx)

	assert.Equal(t, 3, exported)
	handler.AssertNumberOfCalls(t, "Handle", 3)
}

func TestProductionExportJob_RunOnce_SkipsFailingOrder(t *testing.T) {
	ctx := t.Context()
	failing := kernel.NewUUID()
	healthy := kernel.NewUUID()

	handler := new(MockExportNextOrderHandler)
	handler.On("Handle", mock.Anything, mock.MatchedBy(noSkip)).
		Return(failing, geo.NewFeatureSourceError(geo.ReasonNoFeatures, nil)).Once()
	handler.On("Handle", mock.Anything, []kernel.UUID{failing}).Return(healthy, nil).Once()
	handler.On("Handle", mock.Anything, []kernel.UUID{failing}).
		Return(kernel.UUID{}, commands.ErrNoOrderAwaitingExport).Once()

	job := jobs.NewProductionExportJob(handler, jobs.ExportJobConfig{}, discardLogger())
	exported := job.RunOnce(ctx)

	assert.Equal(t, 1, exported)
	handler.AssertExpectations(t)
}

func TestProductionExportJob_RunOnce_UnexpectedErrorEndsRun(t *testing.T) {
	ctx := t.Context()
	handler := new(MockExportNextOrderHandler)
	handler.On("Handle", mock.Anything, mock.Anything).Return(kernel.UUID{}, errors.New("db down")).Once()

	job := jobs.NewProductionExportJob(handler, jobs.ExportJobConfig{}, discardLogger())
	exported := job.RunOnce(ctx)

	assert.Zero(t, exported)
	handler.AssertNumberOfCalls(t, "Handle", 1)
}

func TestProductionExportJob_RunOnce_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	handler := new(MockExportNextOrderHandler)

	job := jobs.NewProductionExportJob(handler, jobs.ExportJobConfig{}, discardLogger())

	assert.Zero(t, job.RunOnce(ctx))
	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestProductionExportJob_StartStop(t *testing.T) {
	handler := new(MockExportNextOrderHandler)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(kernel.UUID{}, commands.ErrNoOrderAwaitingExport).Maybe()

	job := jobs.NewProductionExportJob(handler, jobs.ExportJobConfig{Schedule: "* * * * * *"}, discardLogger())
	require.NoError(t, job.Start())

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not stop")
	}
}

func TestProductionExportJob_Start_InvalidSchedule(t *testing.T) {
	job := jobs.NewProductionExportJob(new(MockExportNextOrderHandler), jobs.ExportJobConfig{Schedule: "not a schedule"}, discardLogger())

	require.Error(t, job.Start())
}
