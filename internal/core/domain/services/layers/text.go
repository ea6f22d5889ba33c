package layers

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/mapdata"
)

const (
	TitleSize    = 24.0
	SubtitleSize = 10.0
	LabelSize    = 9.0
	CaptionSize  = 7.0
	LegendSize   = 8.0
	EmojiSize    = 10.0

	// MarkerRadius is the radius of icon and image markers, in points.
	MarkerRadius = 4.0

	// MinLabelSeparation is the smallest vertical distance between the
	// baselines of two labels that overlap horizontally.
	MinLabelSeparation = 10.0

	// MaxLegendEntries caps the journey highlights legend.
	MaxLegendEntries = 5

	// legendInset is the legend's distance from the content area edges.
	legendInset = 8.0
	// glyphWidth approximates the advance of one character as a fraction
	// of the font size.
	glyphWidth = 0.55
)

var (
	strictPolicy     *bluemonday.Policy
	strictPolicyOnce sync.Once
)

// plainText strips markup from customer supplied text and collapses
// whitespace, so nothing but literal characters reaches an engraving.
func plainText(s string) string {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strings.Join(strings.Fields(html.UnescapeString(strictPolicy.Sanitize(s))), " ")
}

// label is one location's name and optional caption.
type label struct {
	id       string
	x, y     float64
	width    float64
	name     string
	caption  string
	location int
}

func (l label) bottom() float64 {
	if l.caption != "" {
		return l.y + CaptionSize + 2
	}
	return l.y
}

func (l label) overlapsHorizontally(other label) bool {
	return l.x < other.x+other.width && other.x < l.x+l.width
}

// Text generates the text and symbol layer: the title, a marker for every
// location, name and caption labels when enabled, and the journey highlights
// legend when landmarks are shown.
//
// Labels start next to their marker and are pushed down until they keep
// MinLabelSeparation from every horizontally overlapping label placed before
// them. Placement runs top to bottom, so the result does not depend on the
// order of locations in the snapshot.
func Text(f Frame, m mapdata.MapData) (canvas.Layer, error) {
	layer := f.newLayer(canvas.LayerText)
	content := f.Layout.ContentRect()

	if title := plainText(m.Title); title != "" {
		layer.Texts = append(layer.Texts, canvas.Text{
			ID:      "title",
			Anchor:  canvas.Point{X: f.Layout.Width / 2, Y: f.Layout.Margin/2 + TitleSize*0.35},
			Content: title,
			Size:    TitleSize,
			Align:   canvas.AlignMiddle,
		})
	}
	if subtitle := plainText(m.Subtitle); subtitle != "" {
		layer.Texts = append(layer.Texts, canvas.Text{
			ID:      "subtitle",
			Anchor:  canvas.Point{X: f.Layout.Width / 2, Y: f.Layout.Margin - 6},
			Content: subtitle,
			Size:    SubtitleSize,
			Align:   canvas.AlignMiddle,
		})
	}

	labels := make([]label, 0, len(m.Locations))
	for i, loc := range m.Locations {
		p, err := f.Projector.Project(loc.Position)
		if err != nil {
			return canvas.Layer{}, fmt.Errorf("location %q: %w", loc.ID, err)
		}
		layer = addMarker(layer, fmt.Sprintf("marker-%d", i+1), p, m.MarkerFor(loc))

		if !m.Style.ShowLabels {
			continue
		}
		name := plainText(loc.Name)
		if name == "" {
			continue
		}
		caption := plainText(loc.Caption)
		width := textWidth(name, LabelSize)
		if cw := textWidth(caption, CaptionSize); cw > width {
			width = cw
		}
		labels = append(labels, label{
			id:       fmt.Sprintf("label-%d", i+1),
			x:        p.X + MarkerRadius + 3,
			y:        p.Y + LabelSize/3,
			width:    width,
			name:     name,
			caption:  caption,
			location: i,
		})
	}

	for _, l := range separateLabels(labels) {
		layer.Texts = append(layer.Texts, canvas.Text{
			ID:      l.id,
			Anchor:  canvas.Point{X: l.x, Y: l.y},
			Content: l.name,
			Size:    LabelSize,
			Align:   canvas.AlignStart,
		})
		if l.caption != "" {
			layer.Texts = append(layer.Texts, canvas.Text{
				ID:      l.id + "-caption",
				Anchor:  canvas.Point{X: l.x, Y: l.bottom()},
				Content: l.caption,
				Size:    CaptionSize,
				Align:   canvas.AlignStart,
			})
		}
	}

	if m.Style.ShowLandmarks {
		layer.Texts = append(layer.Texts, legend(m, content)...)
	}
	return layer, nil
}

func addMarker(layer canvas.Layer, id string, p canvas.Point, marker mapdata.Marker) canvas.Layer {
	switch marker.Kind {
	case mapdata.MarkerEmoji:
		layer.Texts = append(layer.Texts, canvas.Text{
			ID:      id,
			Anchor:  canvas.Point{X: p.X, Y: p.Y + EmojiSize/3},
			Content: plainText(marker.Value),
			Size:    EmojiSize,
			Align:   canvas.AlignMiddle,
		})
	case mapdata.MarkerImage:
		layer.Circles = append(layer.Circles,
			canvas.Circle{ID: id, Center: p, Radius: MarkerRadius},
			canvas.Circle{ID: id + "-inner", Center: p, Radius: MarkerRadius / 2},
		)
	default:
		layer.Circles = append(layer.Circles, canvas.Circle{ID: id, Center: p, Radius: MarkerRadius})
	}
	return layer
}

// separateLabels applies fixed vertical offsetting. It is not a placement
// solver; labels only ever move down.
func separateLabels(labels []label) []label {
	sort.SliceStable(labels, func(i, j int) bool {
		if labels[i].y != labels[j].y {
			return labels[i].y < labels[j].y
		}
		if labels[i].x != labels[j].x {
			return labels[i].x < labels[j].x
		}
		return labels[i].location < labels[j].location
	})

	placed := make([]label, 0, len(labels))
	for _, l := range labels {
		for moved := true; moved; {
			moved = false
			for _, other := range placed {
				if !l.overlapsHorizontally(other) {
					continue
				}
				if l.y < other.bottom()+MinLabelSeparation && l.bottom() > other.y-MinLabelSeparation {
					l.y = other.bottom() + MinLabelSeparation
					moved = true
				}
			}
		}
		placed = append(placed, l)
	}
	return placed
}

func legend(m mapdata.MapData, content canvas.Rect) []canvas.Text {
	chapters := m.OrderedChapters()
	if len(chapters) > MaxLegendEntries {
		chapters = chapters[:MaxLegendEntries]
	}
	entries := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		if title := plainText(ch.Title); title != "" {
			entries = append(entries, title)
		}
	}
	if len(entries) == 0 {
		return nil
	}

	lineHeight := LegendSize + 3
	x := content.Min.X + legendInset
	y := content.Max.Y - legendInset - float64(len(entries))*lineHeight

	texts := []canvas.Text{{
		ID:      "legend-title",
		Anchor:  canvas.Point{X: x, Y: y},
		Content: "Journey highlights",
		Size:    LegendSize,
		Align:   canvas.AlignStart,
	}}
	for i, entry := range entries {
		texts = append(texts, canvas.Text{
			ID:      fmt.Sprintf("legend-%d", i+1),
			Anchor:  canvas.Point{X: x, Y: y + float64(i+1)*lineHeight},
			Content: fmt.Sprintf("%d. %s", i+1, entry),
			Size:    LegendSize,
			Align:   canvas.AlignStart,
		})
	}
	return texts
}

func textWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * glyphWidth
}
