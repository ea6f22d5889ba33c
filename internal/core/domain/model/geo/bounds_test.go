package geo_test

import (
	"math"
	"testing"

	"storymap/internal/core/domain/model/geo"
	"storymap/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBounds(t *testing.T) {
	t.Run("should fail without locations and template bounds", func(t *testing.T) {
		_, err := geo.ResolveBounds(nil, nil)

		require.ErrorIs(t, err, geo.ErrInsufficientGeographicData)
	})

	t.Run("should pad a single location with the fallback delta", func(t *testing.T) {
		box, err := geo.ResolveBounds([]kernel.GeoPoint{{Lat: 40.0, Lng: -74.0}}, nil)

		require.NoError(t, err)
		assert.InDelta(t, 39.0, box.MinLat, 1e-12)
		assert.InDelta(t, 41.0, box.MaxLat, 1e-12)
		assert.InDelta(t, -75.0, box.MinLng, 1e-12)
		assert.InDelta(t, -73.0, box.MaxLng, 1e-12)
		assert.GreaterOrEqual(t, box.LatSpan(), 1.0)
		assert.GreaterOrEqual(t, box.LngSpan(), 1.0)
	})

	t.Run("should pad each axis by ten percent of its span", func(t *testing.T) {
		box, err := geo.ResolveBounds([]kernel.GeoPoint{
			{Lat: 10, Lng: 20},
			{Lat: 20, Lng: 60},
		}, nil)

		require.NoError(t, err)
		assert.InDelta(t, 9.0, box.MinLat, 1e-12)
		assert.InDelta(t, 21.0, box.MaxLat, 1e-12)
		assert.InDelta(t, 16.0, box.MinLng, 1e-12)
		assert.InDelta(t, 64.0, box.MaxLng, 1e-12)
	})

	t.Run("should use the fallback only on the degenerate axis", func(t *testing.T) {
		box, err := geo.ResolveBounds([]kernel.GeoPoint{
			{Lat: 45, Lng: 0},
			{Lat: 45, Lng: 10},
		}, nil)

		require.NoError(t, err)
		assert.InDelta(t, 2.0, box.LatSpan(), 1e-12)
		assert.InDelta(t, 12.0, box.LngSpan(), 1e-12)
	})

	t.Run("should include template route bounds", func(t *testing.T) {
		route := &geo.BoundingBox{MinLat: 42.0, MaxLat: 43.0, MinLng: -9.0, MaxLng: -1.0}

		box, err := geo.ResolveBounds([]kernel.GeoPoint{{Lat: 42.5, Lng: -5}}, route)

		require.NoError(t, err)
		assert.InDelta(t, 41.9, box.MinLat, 1e-12)
		assert.InDelta(t, 43.1, box.MaxLat, 1e-12)
		assert.InDelta(t, -9.8, box.MinLng, 1e-12)
		assert.InDelta(t, -0.2, box.MaxLng, 1e-12)
	})

	t.Run("should resolve from template bounds alone", func(t *testing.T) {
		route := &geo.BoundingBox{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}

		box, err := geo.ResolveBounds(nil, route)

		require.NoError(t, err)
		assert.InDelta(t, -1.0, box.MinLat, 1e-12)
		assert.InDelta(t, 11.0, box.MaxLng, 1e-12)
	})

	t.Run("should not depend on input order", func(t *testing.T) {
		points := []kernel.GeoPoint{{Lat: 1.1, Lng: 2.2}, {Lat: -3.3, Lng: 7.7}, {Lat: 0.4, Lng: -5.5}}
		reversed := []kernel.GeoPoint{points[2], points[1], points[0]}

		a, err := geo.ResolveBounds(points, nil)
		require.NoError(t, err)
		b, err := geo.ResolveBounds(reversed, nil)
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("should reject malformed locations", func(t *testing.T) {
		_, err := geo.ResolveBounds([]kernel.GeoPoint{{Lat: math.NaN(), Lng: 0}}, nil)

		require.ErrorIs(t, err, geo.ErrMalformedGeometryInput)
	})

	t.Run("should reject inverted template bounds", func(t *testing.T) {
		_, err := geo.ResolveBounds(nil, &geo.BoundingBox{MinLat: 5, MaxLat: 1, MinLng: 0, MaxLng: 1})

		require.ErrorIs(t, err, geo.ErrMalformedGeometryInput)
	})

	t.Run("should always produce a positive area for non-empty input", func(t *testing.T) {
		inputs := [][]kernel.GeoPoint{
			{{Lat: 0, Lng: 0}},
			{{Lat: 89.9, Lng: 179.9}},
			{{Lat: 10, Lng: 10}, {Lat: 10, Lng: 10}},
			{{Lat: -33.9, Lng: 151.2}, {Lat: -33.9, Lng: 18.4}},
		}
		for _, points := range inputs {
			box, err := geo.ResolveBounds(points, nil)

			require.NoError(t, err)
			assert.Positive(t, box.LatSpan())
			assert.Positive(t, box.LngSpan())
		}
	})
}

func TestBoundsOf(t *testing.T) {
	_, ok := geo.BoundsOf(nil)
	assert.False(t, ok)

	box, ok := geo.BoundsOf([]kernel.GeoPoint{{Lat: 1, Lng: 5}, {Lat: -2, Lng: 3}})
	require.True(t, ok)
	assert.Equal(t, geo.BoundingBox{MinLat: -2, MaxLat: 1, MinLng: 3, MaxLng: 5}, box)
	assert.True(t, box.Contains(kernel.GeoPoint{Lat: 0, Lng: 4}))
	assert.False(t, box.Contains(kernel.GeoPoint{Lat: 0, Lng: 6}))
}
