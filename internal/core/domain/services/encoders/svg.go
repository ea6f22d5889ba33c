package encoders

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"storymap/internal/core/domain/model/canvas"
)

// SVGContentType is the media type of encoded SVG documents.
const SVGContentType = "image/svg+xml"

// hairline is the stroke width, in points, the cutting software reads as a
// vector cut rather than an engraving.
const hairline = 0.072

// SVGStyle carries the rendering settings that do not affect geometry.
type SVGStyle struct {
	Title       string
	FontFamily  string
	StrokeWidth float64
}

var svgColors = map[canvas.LayerKind]string{
	canvas.LayerCut:        "#ff0000",
	canvas.LayerText:       "#000000",
	canvas.LayerGeographic: "#0000ff",
	canvas.LayerRoute:      "#00a000",
}

// EncodeSVG writes the given layers, in order, into one SVG document sized to
// the physical panel. Each layer becomes a group carrying its style class.
func EncodeSVG(layout canvas.Layout, style SVGStyle, layers ...canvas.Layer) []byte {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%sin" height="%sin" viewBox="0 0 %s %s">`+"\n",
		plain(layout.WidthInches), plain(layout.HeightInches), plain(layout.Width), plain(layout.Height))
	if style.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", escape(style.Title))
	}
	writeStyle(&b, style, layers)

	for _, l := range layers {
		fmt.Fprintf(&b, `<g id="layer-%s" class="%s" data-layer="%s">`+"\n",
			l.Kind.Slug(), l.Kind.StyleClass(), l.Kind.CADName())
		for _, p := range l.Paths {
			fmt.Fprintf(&b, `<path id="%s" d="%s"/>`+"\n", escape(p.ID), pathData(p))
		}
		for _, c := range l.Circles {
			fmt.Fprintf(&b, `<circle id="%s" cx="%s" cy="%s" r="%s"/>`+"\n",
				escape(c.ID), coord(c.Center.X), coord(c.Center.Y), coord(c.Radius))
		}
		for _, t := range l.Texts {
			fmt.Fprintf(&b, `<text id="%s" x="%s" y="%s" font-size="%s" text-anchor="%s">%s</text>`+"\n",
				escape(t.ID), coord(t.Anchor.X), coord(t.Anchor.Y), coord(t.Size), textAnchor(t.Align), escape(t.Content))
		}
		b.WriteString("</g>\n")
	}

	b.WriteString("</svg>\n")
	return []byte(b.String())
}

func writeStyle(b *strings.Builder, style SVGStyle, layers []canvas.Layer) {
	stroke := style.StrokeWidth
	if stroke <= 0 {
		stroke = 1
	}
	font := style.FontFamily
	if font == "" {
		font = "sans-serif"
	}

	b.WriteString("<defs><style>\n")
	written := make(map[canvas.LayerKind]bool, len(layers))
	for _, l := range layers {
		if written[l.Kind] {
			continue
		}
		written[l.Kind] = true

		width := stroke
		if l.Kind == canvas.LayerCut {
			width = hairline
		}
		color := svgColors[l.Kind]
		fmt.Fprintf(b, ".%s{fill:none;stroke:%s;stroke-width:%s}\n", l.Kind.StyleClass(), color, plain(width))
		fmt.Fprintf(b, ".%s text{fill:%s;stroke:none;font-family:%s}\n", l.Kind.StyleClass(), color, escape(font))
	}
	b.WriteString("</style></defs>\n")
}

func pathData(p canvas.Path) string {
	var b strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(coord(pt.X))
		b.WriteString(" ")
		b.WriteString(coord(pt.Y))
	}
	if p.Closed {
		b.WriteString(" Z")
	}
	return b.String()
}

func textAnchor(a canvas.TextAlign) string {
	switch a {
	case canvas.AlignMiddle:
		return "middle"
	case canvas.AlignEnd:
		return "end"
	default:
		return "start"
	}
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
