package layers

import (
	"fmt"

	"storymap/internal/core/domain/model/canvas"
)

const (
	// RegistrationMarkRadius is the radius of the corner mark circles, in points.
	RegistrationMarkRadius = 4.5
	// registrationArm is the half length of the crosshair through each mark.
	registrationArm = 9.0
)

// Cut generates the cut layer: the panel outline inset by the cut margin and a
// registration mark on each corner of the content area. The marks sit on the
// layout's content rectangle, which the projector maps the bounds corners onto.
func Cut(f Frame) canvas.Layer {
	layer := f.newLayer(canvas.LayerCut)

	outline := f.Layout.CutRect().Corners()
	layer.Paths = append(layer.Paths, canvas.Path{
		ID:     "cut-outline",
		Points: outline[:],
		Closed: true,
	})

	for i, c := range f.Layout.ContentRect().Corners() {
		id := fmt.Sprintf("registration-%d", i+1)
		layer.Circles = append(layer.Circles, canvas.Circle{ID: id, Center: c, Radius: RegistrationMarkRadius})
		layer.Paths = append(layer.Paths,
			canvas.Path{
				ID:     id + "-h",
				Points: []canvas.Point{{X: c.X - registrationArm, Y: c.Y}, {X: c.X + registrationArm, Y: c.Y}},
			},
			canvas.Path{
				ID:     id + "-v",
				Points: []canvas.Point{{X: c.X, Y: c.Y - registrationArm}, {X: c.X, Y: c.Y + registrationArm}},
			},
		)
	}
	return layer
}

// RegistrationMarks returns the centers of the cut layer's registration marks.
func RegistrationMarks(cut canvas.Layer) []canvas.Point {
	marks := make([]canvas.Point, 0, len(cut.Circles))
	for _, c := range cut.Circles {
		marks = append(marks, c.Center)
	}
	return marks
}
