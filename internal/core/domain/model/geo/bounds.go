package geo

import (
	"math"

	"storymap/internal/core/domain/model/kernel"
)

const (
	// PaddingRatio is the proportional padding added on each side of each axis.
	PaddingRatio = 0.1
	// FallbackPaddingDegrees pads an axis whose raw span is zero (a single
	// location, or locations sharing a latitude or longitude). Each side gets
	// this delta, so a degenerate axis ends up 2 degrees wide.
	FallbackPaddingDegrees = 1.0
)

// BoundingBox is a latitude/longitude rectangle in decimal degrees.
type BoundingBox struct {
	MinLat float64 `json:"minLat" yaml:"minLat"`
	MaxLat float64 `json:"maxLat" yaml:"maxLat"`
	MinLng float64 `json:"minLng" yaml:"minLng"`
	MaxLng float64 `json:"maxLng" yaml:"maxLng"`
}

// Validate checks that all edges are finite and ordered.
func (b BoundingBox) Validate() error {
	for _, v := range []float64{b.MinLat, b.MaxLat, b.MinLng, b.MaxLng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return malformed("bounding box edge %v is not finite", v)
		}
	}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return malformed("bounding box %+v is inverted", b)
	}
	return nil
}

// LatSpan returns MaxLat - MinLat.
func (b BoundingBox) LatSpan() float64 { return b.MaxLat - b.MinLat }

// LngSpan returns MaxLng - MinLng.
func (b BoundingBox) LngSpan() float64 { return b.MaxLng - b.MinLng }

// Contains reports whether p lies inside b, edges included.
func (b BoundingBox) Contains(p kernel.GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// BoundsOf returns the tight box around points. ok is false for an empty slice.
func BoundsOf(points []kernel.GeoPoint) (box BoundingBox, ok bool) {
	if len(points) == 0 {
		return BoundingBox{}, false
	}
	box = BoundingBox{MinLat: points[0].Lat, MaxLat: points[0].Lat, MinLng: points[0].Lng, MaxLng: points[0].Lng}
	for _, p := range points[1:] {
		box.MinLat = math.Min(box.MinLat, p.Lat)
		box.MaxLat = math.Max(box.MaxLat, p.Lat)
		box.MinLng = math.Min(box.MinLng, p.Lng)
		box.MaxLng = math.Max(box.MaxLng, p.Lng)
	}
	return box, true
}

// ResolveBounds computes the single bounding box an export is generated
// against.
//
// Parameters:
//   - locations: every customer location (may be empty)
//   - routeBounds: the template's route region, or nil when the template has none
//
// Returns:
//   - the padded box; each axis gets PaddingRatio of its span on both sides,
//     or FallbackPaddingDegrees when the span is zero
//   - ErrInsufficientGeographicData when there are no locations and no route bounds
//   - ErrMalformedGeometryInput when an input coordinate is not finite or out of range
//
// Only min/max aggregation is used, so the result does not depend on input order.
func ResolveBounds(locations []kernel.GeoPoint, routeBounds *BoundingBox) (BoundingBox, error) {
	if len(locations) == 0 && routeBounds == nil {
		return BoundingBox{}, ErrInsufficientGeographicData
	}

	for _, p := range locations {
		if err := p.Validate(); err != nil {
			return BoundingBox{}, malformed("location %s: %v", p, err)
		}
	}

	raw, ok := BoundsOf(locations)
	if routeBounds != nil {
		if err := routeBounds.Validate(); err != nil {
			return BoundingBox{}, err
		}
		if ok {
			raw = union(raw, *routeBounds)
		} else {
			raw = *routeBounds
		}
	}

	latPad := padding(raw.LatSpan())
	lngPad := padding(raw.LngSpan())
	return BoundingBox{
		MinLat: raw.MinLat - latPad,
		MaxLat: raw.MaxLat + latPad,
		MinLng: raw.MinLng - lngPad,
		MaxLng: raw.MaxLng + lngPad,
	}, nil
}

func padding(span float64) float64 {
	if span == 0 {
		return FallbackPaddingDegrees
	}
	return span * PaddingRatio
}

func union(a, b BoundingBox) BoundingBox {
	return BoundingBox{
		MinLat: math.Min(a.MinLat, b.MinLat),
		MaxLat: math.Max(a.MaxLat, b.MaxLat),
		MinLng: math.Min(a.MinLng, b.MinLng),
		MaxLng: math.Max(a.MaxLng, b.MaxLng),
	}
}
