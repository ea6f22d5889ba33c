// Package canvas holds the geometry primitives shared by the layer generators
// and the format encoders.
//
// Canvas space is measured in points (1/72 inch) with the origin at the top
// left corner of the physical panel and y growing downward.
package canvas

import "fmt"

// PointsPerInch converts physical inches to canvas points.
const PointsPerInch = 72.0

// Point is a position in canvas space.
type Point struct {
	X float64
	Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f,%.3f)", p.X, p.Y)
}

// Path is a polyline. Closed paths return to their first point.
type Path struct {
	ID     string
	Points []Point
	Closed bool
}

// Circle is a circle centered on Center.
type Circle struct {
	ID     string
	Center Point
	Radius float64
}

// TextAlign controls which part of a text run sits on its anchor.
type TextAlign int

const (
	AlignStart TextAlign = iota
	AlignMiddle
	AlignEnd
)

// Text is a single line of text. Anchor is the baseline reference point.
// Content is plain text; encoders escape it for their format.
type Text struct {
	ID      string
	Anchor  Point
	Content string
	Size    float64
	Align   TextAlign
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min Point
	Max Point
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Corners returns top-left, top-right, bottom-right, bottom-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}
