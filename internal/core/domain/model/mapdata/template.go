package mapdata

import (
	"errors"
	"fmt"
	"strings"

	"storymap/internal/core/domain/model/geo"
	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/pkg/errs"
)

// Waypoint is a named point predefined by a template.
type Waypoint struct {
	Name     string          `json:"name" yaml:"name"`
	Position kernel.GeoPoint `json:"position" yaml:"position"`
}

// Template is a read-only journey definition such as a long-distance trail.
// Route, Bounds and Waypoints are all optional.
type Template struct {
	ID        string            `json:"id" yaml:"id"`
	Name      string            `json:"name" yaml:"name"`
	Route     []kernel.GeoPoint `json:"route,omitempty" yaml:"route"`
	Bounds    *geo.BoundingBox  `json:"bounds,omitempty" yaml:"bounds"`
	Waypoints []Waypoint        `json:"waypoints,omitempty" yaml:"waypoints"`
}

// HasRoute reports whether the template defines a route polyline.
func (t *Template) HasRoute() bool {
	return t != nil && len(t.Route) > 1
}

// RouteBounds returns the explicit bounds, or the bounds of the route and
// waypoints when none are given. It returns nil when the template carries no
// geography at all.
func (t *Template) RouteBounds() *geo.BoundingBox {
	if t == nil {
		return nil
	}
	if t.Bounds != nil {
		b := *t.Bounds
		return &b
	}
	points := make([]kernel.GeoPoint, 0, len(t.Route)+len(t.Waypoints))
	points = append(points, t.Route...)
	for _, w := range t.Waypoints {
		points = append(points, w.Position)
	}
	if box, ok := geo.BoundsOf(points); ok {
		return &box
	}
	return nil
}

// Validate checks identity and every coordinate the template carries.
func (t *Template) Validate() error {
	if t == nil {
		return nil
	}
	var errList []error
	if strings.TrimSpace(t.ID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("template.id"))
	}
	for i, p := range t.Route {
		if err := p.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("template %q route point %d: %w", t.ID, i, err))
		}
	}
	for _, w := range t.Waypoints {
		if err := w.Position.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("template %q waypoint %q: %w", t.ID, w.Name, err))
		}
	}
	if t.Bounds != nil {
		if err := t.Bounds.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("template %q: %w", t.ID, err))
		}
	}
	return errors.Join(errList...)
}
