package layers

import "storymap/internal/core/domain/model/canvas"

// clipPolyline clips an open polyline to r with Liang-Barsky and returns the
// visible pieces. A polyline leaving and re-entering r becomes several pieces.
func clipPolyline(points []canvas.Point, r canvas.Rect) [][]canvas.Point {
	var (
		pieces [][]canvas.Point
		cur    []canvas.Point
	)
	flush := func() {
		if len(cur) >= 2 {
			pieces = append(pieces, cur)
		}
		cur = nil
	}

	for i := 0; i+1 < len(points); i++ {
		a, b, ok := clipSegment(points[i], points[i+1], r)
		if !ok {
			flush()
			continue
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, a, b)
		case cur[len(cur)-1] == a:
			cur = append(cur, b)
		default:
			flush()
			cur = append(cur, a, b)
		}
		if b != points[i+1] {
			flush()
		}
	}
	flush()
	return pieces
}

// clipSegment returns the part of a-b inside r. Endpoints that need no
// clipping are returned unchanged so consecutive segments join exactly.
func clipSegment(a, b canvas.Point, r canvas.Rect) (canvas.Point, canvas.Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0

	for _, edge := range [4][2]float64{
		{-dx, a.X - r.Min.X},
		{dx, r.Max.X - a.X},
		{-dy, a.Y - r.Min.Y},
		{dy, r.Max.Y - a.Y},
	} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return canvas.Point{}, canvas.Point{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return canvas.Point{}, canvas.Point{}, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return canvas.Point{}, canvas.Point{}, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	ca, cb := a, b
	if t0 > 0 {
		ca = canvas.Point{X: a.X + t0*dx, Y: a.Y + t0*dy}
	}
	if t1 < 1 {
		cb = canvas.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}
	}
	return ca, cb, true
}

// clipPolygon clips a closed ring to r with Sutherland-Hodgman. The ring must
// not repeat its first point at the end.
func clipPolygon(ring []canvas.Point, r canvas.Rect) []canvas.Point {
	type edge struct {
		inside    func(canvas.Point) bool
		intersect func(a, b canvas.Point) canvas.Point
	}
	atX := func(x float64) func(a, b canvas.Point) canvas.Point {
		return func(a, b canvas.Point) canvas.Point {
			t := (x - a.X) / (b.X - a.X)
			return canvas.Point{X: x, Y: a.Y + t*(b.Y-a.Y)}
		}
	}
	atY := func(y float64) func(a, b canvas.Point) canvas.Point {
		return func(a, b canvas.Point) canvas.Point {
			t := (y - a.Y) / (b.Y - a.Y)
			return canvas.Point{X: a.X + t*(b.X-a.X), Y: y}
		}
	}
	edges := []edge{
		{func(p canvas.Point) bool { return p.X >= r.Min.X }, atX(r.Min.X)},
		{func(p canvas.Point) bool { return p.X <= r.Max.X }, atX(r.Max.X)},
		{func(p canvas.Point) bool { return p.Y >= r.Min.Y }, atY(r.Min.Y)},
		{func(p canvas.Point) bool { return p.Y <= r.Max.Y }, atY(r.Max.Y)},
	}

	out := ring
	for _, e := range edges {
		if len(out) == 0 {
			break
		}
		in := out
		out = nil
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case e.inside(cur) && e.inside(prev):
				out = append(out, cur)
			case e.inside(cur):
				out = append(out, e.intersect(prev, cur), cur)
			case e.inside(prev):
				out = append(out, e.intersect(prev, cur))
			}
			prev = cur
		}
	}
	return out
}
