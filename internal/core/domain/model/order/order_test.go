package order_test

import (
	"testing"
	"time"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/order"
	"storymap/internal/core/domain/model/production"
	"storymap/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func snapshot() mapdata.MapData {
	return mapdata.MapData{
		Title: "Harbour walk",
		Locations: []mapdata.Location{
			{ID: "l1", Name: "Pier", Position: kernel.GeoPoint{Lat: 40.0, Lng: -74.0}, Marker: mapdata.Marker{Kind: mapdata.MarkerIcon, Value: "anchor"}},
		},
		Export: mapdata.ExportSettings{
			Size:        mapdata.Size8x10,
			Orientation: mapdata.Portrait,
			Material:    mapdata.MaterialWood,
			Format:      mapdata.FormatDXF,
		},
	}
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.NewNumber(placedAt, 7), snapshot(), production.Data{}, "customer-1", placedAt)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should place a pending order with one history entry", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, placedAt, o.CreatedAt())
		assert.Equal(t, placedAt, o.UpdatedAt())
		require.Len(t, o.History(), 1)
		assert.Equal(t, "customer-1", o.History()[0].Actor)
		assert.Equal(t, "order placed", o.History()[0].Note)
		assert.Equal(t, 0, o.Version())
	})

	t.Run("should default the actor to system", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), order.NewNumber(placedAt, 1), snapshot(), production.Data{}, "", placedAt)

		require.NoError(t, err)
		assert.Equal(t, order.SystemActor, o.History()[0].Actor)
	})

	t.Run("should handle multiple validation errors", func(t *testing.T) {
		var invalidID kernel.UUID
		bad := snapshot()
		bad.Title = ""

		o, err := order.NewOrder(invalidID, "X1", bad, production.Data{}, "", placedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "order number")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should reject a zero value order", func(t *testing.T) {
		var o order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})

	t.Run("should reject nil", func(t *testing.T) {
		var o *order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("should cancel an order in production", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.ChangeStatus(order.InProduction, "ops", "", placedAt.Add(time.Hour), nil))
		before := o.History()

		err := o.ChangeStatus(order.Cancelled, "ops", "customer request", placedAt.Add(2*time.Hour), nil)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		after := o.History()
		require.Len(t, after, len(before)+1)
		assert.Equal(t, before, after[:len(before)])
		assert.Equal(t, "customer request", after[len(after)-1].Note)
		assert.Equal(t, placedAt.Add(2*time.Hour), o.UpdatedAt())
	})

	t.Run("should keep history append only over many transitions", func(t *testing.T) {
		o := newOrder(t)
		sequence := []order.Status{order.DesignReview, order.Approved, order.Pending, order.Delivered, order.Refunded}

		for i, s := range sequence {
			require.NoError(t, o.ChangeStatus(s, "", "", placedAt.Add(time.Duration(i)*time.Minute), nil))
		}

		history := o.History()
		require.Len(t, history, len(sequence)+1)
		for i := 1; i < len(history); i++ {
			assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp))
			assert.NotEqual(t, history[i].ID, history[i-1].ID)
		}
		assert.Equal(t, o.Status(), history[len(history)-1].Status)
	})

	t.Run("should not let timestamps go backwards", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.ChangeStatus(order.DesignReview, "", "", placedAt.Add(-time.Hour), nil))

		assert.Equal(t, placedAt, o.History()[1].Timestamp)
		assert.Equal(t, placedAt, o.UpdatedAt())
	})

	t.Run("should reject an unknown status without side effects", func(t *testing.T) {
		o := newOrder(t)

		err := o.ChangeStatus(order.Status("lost"), "", "", placedAt, nil)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Pending, o.Status())
		assert.Len(t, o.History(), 1)
	})

	t.Run("should consult the policy", func(t *testing.T) {
		o := newOrder(t)

		err := o.ChangeStatus(order.Delivered, "", "", placedAt, order.LifecyclePolicy{})

		require.ErrorIs(t, err, order.ErrTransitionNotAllowed)
		assert.Len(t, o.History(), 1)
	})
}

func TestOrder_ExpectStatus(t *testing.T) {
	o := newOrder(t)

	require.NoError(t, o.ExpectStatus(order.Pending))
	require.ErrorIs(t, o.ExpectStatus(order.Approved), order.ErrStatusConflict)
}

func TestOrder_CheckExportable(t *testing.T) {
	o := newOrder(t)
	require.ErrorIs(t, o.CheckExportable(), order.ErrNotExportable)

	require.NoError(t, o.ChangeStatus(order.Approved, "", "", placedAt, nil))
	require.NoError(t, o.CheckExportable())
}

func TestOrder_RecordExport(t *testing.T) {
	o := newOrder(t)

	err := o.RecordExport(production.ExportRecord{FormatVersion: "storymap-export/1.0", ExportedAt: placedAt, Files: []string{"a.svg"}})

	require.NoError(t, err)
	require.NotNil(t, o.Production().LastExport)
	assert.Equal(t, []string{"a.svg"}, o.Production().LastExport.Files)

	require.ErrorIs(t, o.RecordExport(production.ExportRecord{FormatVersion: "v"}), errs.ErrValueIsRequired)
}

func TestRestoreOrder(t *testing.T) {
	id := kernel.NewUUID()
	history := []order.StatusHistoryEntry{
		{ID: kernel.NewUUID(), Status: order.Pending, Timestamp: placedAt, Actor: "system"},
		{ID: kernel.NewUUID(), Status: order.Approved, Timestamp: placedAt.Add(time.Hour), Actor: "ops"},
	}

	t.Run("should restore a consistent record", func(t *testing.T) {
		o, err := order.RestoreOrder(id, "EM12345601", snapshot(), production.Data{}, order.Approved, history, placedAt, placedAt.Add(time.Hour), 3)

		require.NoError(t, err)
		assert.Equal(t, 3, o.Version())
		assert.Equal(t, history, o.History())
	})

	t.Run("should reject a status that differs from the last entry", func(t *testing.T) {
		_, err := order.RestoreOrder(id, "EM12345601", snapshot(), production.Data{}, order.Shipped, history, placedAt, placedAt, 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject empty history", func(t *testing.T) {
		_, err := order.RestoreOrder(id, "EM12345601", snapshot(), production.Data{}, order.Pending, nil, placedAt, placedAt, 0)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject decreasing timestamps", func(t *testing.T) {
		reversed := []order.StatusHistoryEntry{history[1], history[0]}
		reversed[1].Status = order.Approved

		_, err := order.RestoreOrder(id, "EM12345601", snapshot(), production.Data{}, order.Approved, reversed, placedAt, placedAt, 0)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
