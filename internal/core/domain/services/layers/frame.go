package layers

import (
	"fmt"
	"math"

	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/geo"
)

// RegistrationTolerance is the largest corner deviation, in points, two
// layers may show and still be considered registered.
const RegistrationTolerance = 1e-6

// Frame is the shared coordinate frame of one export.
type Frame struct {
	Layout    canvas.Layout
	Projector geo.Projector
}

// NewFrame builds the frame for bounds resolved once per export.
func NewFrame(bounds geo.BoundingBox, layout canvas.Layout) (Frame, error) {
	p, err := geo.NewLayoutProjector(bounds, layout)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Layout: layout, Projector: p}, nil
}

func (f Frame) newLayer(kind canvas.LayerKind) canvas.Layer {
	return canvas.Layer{Kind: kind, Corners: f.Projector.ContentCorners()}
}

// CheckRegistration verifies that every layer reports the same content
// corners as the first one, and that the registration marks of a cut layer
// sit on those corners.
func CheckRegistration(layers ...canvas.Layer) error {
	for _, l := range layers {
		if l.Kind != canvas.LayerCut {
			continue
		}
		marks := RegistrationMarks(l)
		if len(marks) != len(l.Corners) {
			return fmt.Errorf("cut layer has %d registration marks, want %d", len(marks), len(l.Corners))
		}
		for i, m := range marks {
			if !coincide(m, l.Corners[i]) {
				return fmt.Errorf("registration mark %d at %s is off the content corner %s", i+1, m, l.Corners[i])
			}
		}
	}

	if len(layers) < 2 {
		return nil
	}
	ref := layers[0]
	for _, l := range layers[1:] {
		for i := range ref.Corners {
			if !coincide(ref.Corners[i], l.Corners[i]) {
				return fmt.Errorf("layer %s corner %d at %s does not register with %s at %s",
					l.Kind, i, l.Corners[i], ref.Kind, ref.Corners[i])
			}
		}
	}
	return nil
}

func coincide(a, b canvas.Point) bool {
	return math.Abs(a.X-b.X) <= RegistrationTolerance && math.Abs(a.Y-b.Y) <= RegistrationTolerance
}
