package guard_test

import (
	"errors"
	"testing"

	"storymap/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("export command not constructed")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	errMarkerNotConstructed := errors.New("Marker must be created via NewMarker")

	type Marker struct {
		kind  string
		value string
		guard guard.ConstructorGuard
	}

	newMarker := func(kind, value string) (Marker, error) {
		if kind == "" {
			return Marker{}, errors.New("marker kind is required")
		}
		return Marker{kind: kind, value: value, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_marker_is_valid", func(t *testing.T) {
		m, err := newMarker("emoji", "⛰")

		require.NoError(t, err)
		require.NoError(t, m.guard.Validate(errMarkerNotConstructed))
		assert.Equal(t, "emoji", m.kind)
	})

	t.Run("zero_value_marker_is_rejected", func(t *testing.T) {
		var m Marker

		assert.Equal(t, errMarkerNotConstructed, m.guard.Validate(errMarkerNotConstructed))
	})

	t.Run("copy_keeps_guard_state", func(t *testing.T) {
		m, _ := newMarker("icon", "pin")
		copied := m

		require.NoError(t, copied.guard.Validate(errMarkerNotConstructed))
	})
}
