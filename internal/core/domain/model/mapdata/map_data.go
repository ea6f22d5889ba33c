package mapdata

import (
	"errors"
	"fmt"
	"strings"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/pkg/errs"
)

var (
	ErrChapterWithoutLocation = errors.New("chapter references an unknown location")
	ErrDuplicateChapter       = errors.New("location has more than one chapter")
	ErrDuplicateLocationID    = errors.New("location id is not unique")
)

// MapData is the snapshot of a map-creation session.
type MapData struct {
	Title      string         `json:"title"`
	Subtitle   string         `json:"subtitle,omitempty"`
	TemplateID string         `json:"templateId,omitempty"`
	Template   *Template      `json:"template,omitempty"`
	Locations  []Location     `json:"locations"`
	Chapters   []Chapter      `json:"chapters,omitempty"`
	Style      StyleSettings  `json:"style"`
	Export     ExportSettings `json:"export"`
}

// Validate checks every nested value and the chapter/location pairing:
// each chapter must reference an existing location and a location has at
// most one chapter.
func (m MapData) Validate() error {
	var errList []error
	if strings.TrimSpace(m.Title) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("title"))
	}

	ids := make(map[string]struct{}, len(m.Locations))
	for _, l := range m.Locations {
		if err := l.Validate(); err != nil {
			errList = append(errList, err)
		}
		if _, dup := ids[l.ID]; dup {
			errList = append(errList, fmt.Errorf("%w: %q", ErrDuplicateLocationID, l.ID))
		}
		ids[l.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(m.Chapters))
	for _, c := range m.Chapters {
		if err := c.Validate(); err != nil {
			errList = append(errList, err)
		}
		if _, ok := ids[c.LocationID]; !ok {
			errList = append(errList, fmt.Errorf("%w: %q", ErrChapterWithoutLocation, c.LocationID))
		}
		if _, dup := seen[c.LocationID]; dup {
			errList = append(errList, fmt.Errorf("%w: %q", ErrDuplicateChapter, c.LocationID))
		}
		seen[c.LocationID] = struct{}{}
	}

	if err := m.Template.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := m.Export.Validate(); err != nil {
		errList = append(errList, err)
	}
	return errors.Join(errList...)
}

// Positions returns every location position in snapshot order.
func (m MapData) Positions() []kernel.GeoPoint {
	points := make([]kernel.GeoPoint, 0, len(m.Locations))
	for _, l := range m.Locations {
		points = append(points, l.Position)
	}
	return points
}

// ChapterFor returns the chapter attached to a location, if any.
func (m MapData) ChapterFor(locationID string) (Chapter, bool) {
	for _, c := range m.Chapters {
		if c.LocationID == locationID {
			return c, true
		}
	}
	return Chapter{}, false
}

// MarkerFor returns the chapter's marker override or the location's own marker.
func (m MapData) MarkerFor(l Location) Marker {
	if c, ok := m.ChapterFor(l.ID); ok && c.Marker != nil {
		return *c.Marker
	}
	return l.Marker
}

// OrderedChapters returns the chapters in location order.
func (m MapData) OrderedChapters() []Chapter {
	out := make([]Chapter, 0, len(m.Chapters))
	for _, l := range m.Locations {
		if c, ok := m.ChapterFor(l.ID); ok {
			out = append(out, c)
		}
	}
	return out
}
