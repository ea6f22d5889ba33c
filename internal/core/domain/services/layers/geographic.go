package layers

import (
	"fmt"
	"strings"

	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/geo"
)

// Geographic generates the geographic features layer from the features the
// external source returned for the export bounds.
//
// Lakes become closed paths clipped with Sutherland-Hodgman, every other type
// becomes open paths clipped with Liang-Barsky. The layer is never built from
// anything but real source data: no features, or no feature reaching the
// content area, fails with a no-features FeatureSourceError.
func Geographic(f Frame, features []geo.Feature) (canvas.Layer, error) {
	if len(features) == 0 {
		return canvas.Layer{}, geo.NewFeatureSourceError(geo.ReasonNoFeatures, nil)
	}

	layer := f.newLayer(canvas.LayerGeographic)
	content := f.Layout.ContentRect()

	for fi, feature := range features {
		prefix := fmt.Sprintf("geo-%d-%s", fi+1, idSafe(string(feature.Type)))
		for pi, part := range feature.Parts {
			points, err := f.Projector.ProjectAll(part)
			if err != nil {
				return canvas.Layer{}, fmt.Errorf("feature %q: %w", feature.ID, err)
			}

			if feature.Type.Closed() {
				ring := clipPolygon(openRing(points), content)
				if len(ring) < 3 {
					continue
				}
				layer.Paths = append(layer.Paths, canvas.Path{
					ID:     fmt.Sprintf("%s-%d", prefix, pi+1),
					Points: ring,
					Closed: true,
				})
				continue
			}

			for si, piece := range clipPolyline(points, content) {
				layer.Paths = append(layer.Paths, canvas.Path{
					ID:     fmt.Sprintf("%s-%d-%d", prefix, pi+1, si+1),
					Points: piece,
				})
			}
		}
	}

	if len(layer.Paths) == 0 {
		return canvas.Layer{}, geo.NewFeatureSourceError(
			geo.ReasonNoFeatures,
			fmt.Errorf("none of %d features intersects the map area", len(features)),
		)
	}
	return layer, nil
}

// openRing drops a repeated closing point.
func openRing(points []canvas.Point) []canvas.Point {
	if n := len(points); n > 1 && points[0] == points[n-1] {
		return points[:n-1]
	}
	return points
}

func idSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, s)
}
