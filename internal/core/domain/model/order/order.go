package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/production"
	"storymap/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrStatusConflict is returned when the caller expected a different current status,
	// meaning someone else changed the order in between.
	ErrStatusConflict = errors.New("order status has changed")

	// ErrNotExportable is returned when manufacturing files are requested for an order
	// that has not been approved or has already left production.
	ErrNotExportable = errors.New("order is not in an exportable status")
)

// Order represents a placed story map order. It is the aggregate root that owns
// the immutable map snapshot, the derived production data and the lifecycle.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and order number
//   - The map snapshot is valid and never changes after placement
//   - The status history is never empty, its last entry's status equals the
//     current status and its timestamps never decrease
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// number is the human readable identifier used by support and in filenames
	number Number

	// mapData is the snapshot taken when the order was placed
	mapData mapdata.MapData

	// production holds dimensions, material and export bookkeeping
	production production.Data

	// status is the current lifecycle state, always equal to the last history entry
	status Status

	// history is the append-only audit trail
	history []StatusHistoryEntry

	createdAt time.Time
	updatedAt time.Time

	// version is the optimistic concurrency token of the persisted record
	version int

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder places a new order. This is the only way to create a valid Order,
// ensuring all business invariants are maintained.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - number: Human readable order number
//   - mapData: The customer's map snapshot
//   - data: Production data resolved from the export settings
//   - actor: Who placed the order, "system" when empty
//   - now: Placement time
//
// Returns:
//   - *Order: The created order in Pending status with one history entry
//   - error: Validation error if any parameter is invalid
//
// Example:
//
//	o, err := NewOrder(kernel.NewUUID(), GenerateNumber(now), snapshot, data, "customer-42", now)
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	number Number,
	mapData mapdata.MapData,
	data production.Data,
	actor string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		production:    data,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setMapData(mapData),
	); err != nil {
		return nil, err
	}

	o.history = []StatusHistoryEntry{newHistoryEntry(Pending, actor, "order placed", now)}
	return o, nil
}

// RestoreOrder rebuilds an order loaded from persistence and checks that the
// stored record still satisfies every invariant.
func RestoreOrder(
	id kernel.UUID,
	number Number,
	mapData mapdata.MapData,
	data production.Data,
	status Status,
	history []StatusHistoryEntry,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) (*Order, error) {
	o := &Order{
		production:    data,
		createdAt:     createdAt.UTC(),
		updatedAt:     updatedAt.UTC(),
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setMapData(mapData),
		o.setStatus(status),
		o.setHistory(history),
	); err != nil {
		return nil, err
	}

	if last := o.history[len(o.history)-1]; last.Status != o.status {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"history",
			fmt.Errorf("last entry is %s but order is %s", last.Status, o.status),
		)
	}
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
//
// Returns:
//   - nil if the order is valid
//   - ErrOrderIsNotConstructed if the order was not created via a constructor
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human readable order number.
func (o *Order) Number() Number {
	return o.number
}

// MapData returns the placed map snapshot.
func (o *Order) MapData() mapdata.MapData {
	return o.mapData
}

// Production returns the production data.
func (o *Order) Production() production.Data {
	return o.production
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the status history, oldest first.
func (o *Order) History() []StatusHistoryEntry {
	out := make([]StatusHistoryEntry, len(o.history))
	copy(out, o.history)
	return out
}

// CreatedAt returns the placement time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the last status change.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version returns the optimistic concurrency token.
func (o *Order) Version() int {
	return o.version
}

// AdvanceVersion is called by repositories after the order was written.
func (o *Order) AdvanceVersion() {
	o.version++
}

// ExpectStatus fails with ErrStatusConflict when the order is no longer in the
// status the caller based its decision on.
func (o *Order) ExpectStatus(expected Status) error {
	if o.status != expected {
		return fmt.Errorf("%w: expected %s, order is %s", ErrStatusConflict, expected, o.status)
	}
	return nil
}

// ChangeStatus moves the order to a new status.
//
// This method enforces the following business rules:
//   - The target status must be a known status
//   - The policy, PermissivePolicy when nil, must accept the transition
//   - Exactly one history entry is appended and prior entries are untouched
//   - The status and the updated timestamp change together with the append
//   - A timestamp earlier than the last entry is raised to it so history
//     never goes backwards
//
// Parameters:
//   - to: The new status
//   - actor: Who made the change, "system" when empty
//   - note: Optional free text
//   - at: When the change happened
//   - policy: Transition validation hook
//
// Example:
//
//	err := o.ChangeStatus(order.Cancelled, "ops-7", "customer request", time.Now(), nil)
func (o *Order) ChangeStatus(to Status, actor, note string, at time.Time, policy TransitionPolicy) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if policy == nil {
		policy = PermissivePolicy{}
	}
	if err := policy.CheckTransition(o.status, to); err != nil {
		return err
	}

	last := o.history[len(o.history)-1]
	if at.Before(last.Timestamp) {
		at = last.Timestamp
	}

	entry := newHistoryEntry(to, strings.TrimSpace(actor), strings.TrimSpace(note), at)
	o.history = append(o.history, entry)
	o.status = to
	o.updatedAt = entry.Timestamp
	return nil
}

// CheckExportable fails with ErrNotExportable unless manufacturing files may
// be generated in the current status.
func (o *Order) CheckExportable() error {
	if !o.status.IsExportable() {
		return fmt.Errorf("%w: %s", ErrNotExportable, o.status)
	}
	return nil
}

// RecordExport attaches the metadata of a generated export bundle.
func (o *Order) RecordExport(record production.ExportRecord) error {
	if record.FormatVersion == "" {
		return errs.NewValueIsRequiredError("formatVersion")
	}
	if len(record.Files) == 0 {
		return errs.NewValueIsRequiredError("files")
	}
	record.ExportedAt = record.ExportedAt.UTC()
	o.production.LastExport = &record
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number Number) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setMapData(mapData mapdata.MapData) error {
	if err := mapData.Validate(); err != nil {
		return err
	}
	o.mapData = mapData
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setHistory(history []StatusHistoryEntry) error {
	if len(history) == 0 {
		return errs.NewValueIsRequiredError("history")
	}
	for i, entry := range history {
		if err := entry.Status.Validate(); err != nil {
			return err
		}
		if i > 0 && entry.Timestamp.Before(history[i-1].Timestamp) {
			return errs.NewValueIsInvalidErrorWithCause(
				"history",
				fmt.Errorf("entry %d is older than entry %d", i, i-1),
			)
		}
	}
	o.history = make([]StatusHistoryEntry, len(history))
	copy(o.history, history)
	return nil
}
