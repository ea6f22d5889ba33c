package canvas

import (
	"fmt"
	"math"
)

const (
	// CutMarginInches is the inset of the cut outline from the panel edge.
	CutMarginInches = 0.125
	// ContentMarginInches is the distance from the panel edge to the map content area.
	ContentMarginInches = 0.75
)

// Layout describes the physical panel in canvas space. All layer generators
// for one export share a single Layout value.
type Layout struct {
	WidthInches   float64
	HeightInches  float64
	Width         float64
	Height        float64
	CutMargin     float64
	Margin        float64
	ContentWidth  float64
	ContentHeight float64
}

// NewLayout derives a Layout from the panel size in inches.
func NewLayout(widthInches, heightInches float64) (Layout, error) {
	if !isPositiveFinite(widthInches) || !isPositiveFinite(heightInches) {
		return Layout{}, fmt.Errorf("panel size %vx%v in is not positive", widthInches, heightInches)
	}
	minSide := 2*ContentMarginInches + 1
	if widthInches < minSide || heightInches < minSide {
		return Layout{}, fmt.Errorf("panel size %vx%v in is smaller than %v in", widthInches, heightInches, minSide)
	}

	width := widthInches * PointsPerInch
	height := heightInches * PointsPerInch
	margin := ContentMarginInches * PointsPerInch
	return Layout{
		WidthInches:   widthInches,
		HeightInches:  heightInches,
		Width:         width,
		Height:        height,
		CutMargin:     CutMarginInches * PointsPerInch,
		Margin:        margin,
		ContentWidth:  width - 2*margin,
		ContentHeight: height - 2*margin,
	}, nil
}

// ContentRect is the area the projector maps geography into.
func (l Layout) ContentRect() Rect {
	return Rect{
		Min: Point{X: l.Margin, Y: l.Margin},
		Max: Point{X: l.Margin + l.ContentWidth, Y: l.Margin + l.ContentHeight},
	}
}

// CutRect is the cut outline, inset from the panel edge by the cut margin.
func (l Layout) CutRect() Rect {
	return Rect{
		Min: Point{X: l.CutMargin, Y: l.CutMargin},
		Max: Point{X: l.Width - l.CutMargin, Y: l.Height - l.CutMargin},
	}
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
