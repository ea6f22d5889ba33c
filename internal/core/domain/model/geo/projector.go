package geo

import (
	"math"

	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/kernel"
)

// Projector maps geographic points into canvas space with a linear
// equirectangular projection. Longitude maps onto [margin, margin+width],
// latitude onto [margin, margin+height] flipped so that north is at the top.
//
// A Projector is an immutable value; the same (point, bounds, dimensions)
// always yields the same canvas point.
type Projector struct {
	bounds BoundingBox
	width  float64
	height float64
	margin float64
}

// NewProjector validates the parameters and returns a Projector.
//
// Parameters:
//   - bounds: a non-degenerate box (both spans strictly positive)
//   - width, height: content size in points, strictly positive
//   - margin: offset of the content area from the canvas origin, non-negative
func NewProjector(bounds BoundingBox, width, height, margin float64) (Projector, error) {
	if err := bounds.Validate(); err != nil {
		return Projector{}, err
	}
	if bounds.LatSpan() <= 0 || bounds.LngSpan() <= 0 {
		return Projector{}, malformed("bounding box %+v has zero area", bounds)
	}
	if !finite(width) || !finite(height) || width <= 0 || height <= 0 {
		return Projector{}, malformed("content size %vx%v is not positive", width, height)
	}
	if !finite(margin) || margin < 0 {
		return Projector{}, malformed("margin %v is negative", margin)
	}
	return Projector{bounds: bounds, width: width, height: height, margin: margin}, nil
}

// NewLayoutProjector builds the projector for a panel layout.
func NewLayoutProjector(bounds BoundingBox, layout canvas.Layout) (Projector, error) {
	return NewProjector(bounds, layout.ContentWidth, layout.ContentHeight, layout.Margin)
}

// Bounds returns the geographic box the projector was built with.
func (p Projector) Bounds() BoundingBox { return p.bounds }

// Project maps a geographic point into canvas space. Points outside the
// bounds project outside the content area; callers clip as needed.
func (p Projector) Project(point kernel.GeoPoint) (canvas.Point, error) {
	if err := point.Validate(); err != nil {
		return canvas.Point{}, malformed("point %s: %v", point, err)
	}
	return p.projectUnchecked(point), nil
}

// ProjectAll projects a polyline, failing on the first malformed point.
func (p Projector) ProjectAll(points []kernel.GeoPoint) ([]canvas.Point, error) {
	out := make([]canvas.Point, 0, len(points))
	for _, gp := range points {
		cp, err := p.Project(gp)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

// ContentCorners returns the canvas positions of the bounds corners in
// top-left, top-right, bottom-right, bottom-left order.
func (p Projector) ContentCorners() [4]canvas.Point {
	var corners [4]canvas.Point
	for i, gp := range []kernel.GeoPoint{
		{Lat: p.bounds.MaxLat, Lng: p.bounds.MinLng},
		{Lat: p.bounds.MaxLat, Lng: p.bounds.MaxLng},
		{Lat: p.bounds.MinLat, Lng: p.bounds.MaxLng},
		{Lat: p.bounds.MinLat, Lng: p.bounds.MinLng},
	} {
		corners[i] = p.projectUnchecked(gp)
	}
	return corners
}

// ContentRect returns the content area in canvas space.
func (p Projector) ContentRect() canvas.Rect {
	c := p.ContentCorners()
	return canvas.Rect{Min: c[0], Max: c[2]}
}

// projectUnchecked skips range validation; padded bounds may extend past the poles.
func (p Projector) projectUnchecked(point kernel.GeoPoint) canvas.Point {
	tx := (point.Lng - p.bounds.MinLng) / p.bounds.LngSpan()
	ty := (point.Lat - p.bounds.MinLat) / p.bounds.LatSpan()
	return canvas.Point{
		X: p.margin + tx*p.width,
		Y: p.margin + (p.height - ty*p.height),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
