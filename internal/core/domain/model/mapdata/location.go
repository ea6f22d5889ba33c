package mapdata

import (
	"errors"
	"fmt"
	"strings"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/pkg/errs"
)

// MarkerKind is the representation used for a location marker.
type MarkerKind string

const (
	MarkerIcon  MarkerKind = "icon"
	MarkerEmoji MarkerKind = "emoji"
	MarkerImage MarkerKind = "image"
)

// Marker is a named icon, an emoji glyph or a reference to a customer image.
type Marker struct {
	Kind  MarkerKind `json:"kind"`
	Value string     `json:"value"`
}

// Validate checks the kind and that a value is present.
func (m Marker) Validate() error {
	switch m.Kind {
	case MarkerIcon, MarkerEmoji, MarkerImage:
	default:
		return errs.NewValueIsInvalidErrorWithCause("marker.kind", fmt.Errorf("%q is not a marker kind", m.Kind))
	}
	if strings.TrimSpace(m.Value) == "" {
		return errs.NewValueIsRequiredError("marker.value")
	}
	return nil
}

// Location is a named geographic point of the customer's story.
type Location struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Position  kernel.GeoPoint `json:"position"`
	Narrative string          `json:"narrative,omitempty"`
	Caption   string          `json:"caption,omitempty"`
	Marker    Marker          `json:"marker"`
}

// Validate checks identity, name, coordinates and marker.
func (l Location) Validate() error {
	var errList []error
	if strings.TrimSpace(l.ID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("location.id"))
	}
	if strings.TrimSpace(l.Name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("location.name"))
	}
	if err := l.Position.Validate(); err != nil {
		errList = append(errList, fmt.Errorf("location %q: %w", l.ID, err))
	}
	if err := l.Marker.Validate(); err != nil {
		errList = append(errList, fmt.Errorf("location %q: %w", l.ID, err))
	}
	return errors.Join(errList...)
}

// Chapter enriches exactly one Location for storytelling.
type Chapter struct {
	LocationID  string  `json:"locationId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Marker      *Marker `json:"marker,omitempty"`
}

// Validate checks the chapter's own fields; pairing with locations is
// checked by MapData.Validate.
func (c Chapter) Validate() error {
	var errList []error
	if strings.TrimSpace(c.LocationID) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("chapter.locationId"))
	}
	if strings.TrimSpace(c.Title) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("chapter.title"))
	}
	if c.Marker != nil {
		if err := c.Marker.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("chapter %q: %w", c.LocationID, err))
		}
	}
	return errors.Join(errList...)
}
