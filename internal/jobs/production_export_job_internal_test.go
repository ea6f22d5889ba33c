package jobs

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymap/internal/core/domain/model/kernel"
)

func TestProductionExportJob_BackoffGrowsAcrossExpiredWindows(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	job := NewProductionExportJob(nil, ExportJobConfig{RetryInterval: time.Minute}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	job.now = func() time.Time { return now }
	id := kernel.NewUUID()

	job.markFailed(ctx, id, errors.New("feature source down"))
	assert.Equal(t, []kernel.UUID{id}, job.skipped())

	now = now.Add(61 * time.Second)
	assert.Empty(t, job.skipped())
	require.Contains(t, job.failed, id, "expired entries keep their backoff state")

	job.markFailed(ctx, id, errors.New("feature source down"))
	now = now.Add(61 * time.Second)
	assert.Equal(t, []kernel.UUID{id}, job.skipped(), "second window is longer than the first")

	job.clear(id)
	assert.Empty(t, job.skipped())
	assert.NotContains(t, job.failed, id)
}
