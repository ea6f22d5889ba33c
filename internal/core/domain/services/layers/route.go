package layers

import (
	"fmt"

	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/mapdata"
)

// WaypointRadius is the radius of waypoint circles on the route layer.
const WaypointRadius = 3.0

// Route generates the route path layer: the template route as one connected
// path and a small circle per waypoint. Without a template, or with a
// template that has no route, the layer is empty. That is not an error.
//
// The route is clipped to the content area like geographic features, so a
// template whose bounds are narrower than its route never engraves past the
// cut line. A route that leaves and re-enters the area becomes several
// paths; waypoints outside the area are dropped.
func Route(f Frame, tmpl *mapdata.Template) (canvas.Layer, error) {
	layer := f.newLayer(canvas.LayerRoute)
	if tmpl == nil {
		return layer, nil
	}
	content := f.Layout.ContentRect()

	if tmpl.HasRoute() {
		points, err := f.Projector.ProjectAll(tmpl.Route)
		if err != nil {
			return canvas.Layer{}, fmt.Errorf("template %q route: %w", tmpl.ID, err)
		}
		for i, piece := range clipPolyline(points, content) {
			id := "route"
			if i > 0 {
				id = fmt.Sprintf("route-%d", i+1)
			}
			layer.Paths = append(layer.Paths, canvas.Path{ID: id, Points: piece})
		}
	}

	for i, wp := range tmpl.Waypoints {
		p, err := f.Projector.Project(wp.Position)
		if err != nil {
			return canvas.Layer{}, fmt.Errorf("template %q waypoint %q: %w", tmpl.ID, wp.Name, err)
		}
		if !content.Contains(p) {
			continue
		}
		layer.Circles = append(layer.Circles, canvas.Circle{
			ID:     fmt.Sprintf("waypoint-%d", i+1),
			Center: p,
			Radius: WaypointRadius,
		})
	}
	return layer, nil
}
