package order

import (
	"time"

	"storymap/internal/core/domain/model/kernel"
)

// SystemActor is recorded when a transition has no explicit actor.
const SystemActor = "system"

// StatusHistoryEntry is one record of the append-only status audit trail.
type StatusHistoryEntry struct {
	ID        kernel.UUID
	Status    Status
	Timestamp time.Time
	Actor     string
	Note      string
}

func newHistoryEntry(status Status, actor, note string, at time.Time) StatusHistoryEntry {
	if actor == "" {
		actor = SystemActor
	}
	return StatusHistoryEntry{
		ID:        kernel.NewUUID(),
		Status:    status,
		Timestamp: at.UTC(),
		Actor:     actor,
		Note:      note,
	}
}
