package encoders

import (
	"fmt"
	"strconv"
	"strings"

	"storymap/internal/core/domain/model/canvas"
)

// DXFContentType is the media type of encoded DXF documents.
const DXFContentType = "application/dxf"

const (
	// firstHandle is where every document's entity handles start.
	firstHandle = 0x100

	// capHeightRatio converts a font size (em) into the cap height DXF
	// TEXT entities are measured in.
	capHeightRatio = 0.7
)

// ACI colors per layer.
var dxfColors = map[canvas.LayerKind]int{
	canvas.LayerCut:        1,
	canvas.LayerText:       7,
	canvas.LayerGeographic: 5,
	canvas.LayerRoute:      3,
}

// dxfWriter emits group code/value pairs and hands out entity handles from a
// per-document counter, so identical input always yields identical bytes.
type dxfWriter struct {
	b      strings.Builder
	handle int
	height float64
}

func (w *dxfWriter) pair(code int, value string) {
	fmt.Fprintf(&w.b, "%3d\n%s\n", code, value)
}

func (w *dxfWriter) nextHandle() string {
	h := strconv.FormatInt(int64(w.handle), 16)
	w.handle++
	return strings.ToUpper(h)
}

// point writes a canvas point as inches with DXF's y axis pointing up.
func (w *dxfWriter) point(base int, p canvas.Point) {
	w.pair(base, inches(p.X/canvas.PointsPerInch))
	w.pair(base+10, inches(w.height-p.Y/canvas.PointsPerInch))
	w.pair(base+20, inches(0))
}

func (w *dxfWriter) entity(kind, layer string) {
	w.pair(0, kind)
	w.pair(5, w.nextHandle())
	w.pair(8, layer)
}

// EncodeDXF writes the given layers into one ASCII DXF (AC1009) document in
// inches. Every layer gets a named entry in the LAYER table even when empty,
// so machine software can toggle it.
func EncodeDXF(layout canvas.Layout, layers ...canvas.Layer) []byte {
	entities := &dxfWriter{handle: firstHandle, height: layout.HeightInches}
	for _, l := range layers {
		name := l.Kind.CADName()
		for _, p := range l.Paths {
			writePolyline(entities, name, p)
		}
		for _, c := range l.Circles {
			entities.entity("CIRCLE", name)
			entities.point(10, c.Center)
			entities.pair(40, inches(c.Radius/canvas.PointsPerInch))
		}
		for _, t := range l.Texts {
			writeText(entities, name, t)
		}
	}

	doc := &dxfWriter{}
	writeHeader(doc, layout, entities.handle)
	writeLayerTable(doc, layers)
	doc.pair(0, "SECTION")
	doc.pair(2, "ENTITIES")
	doc.b.WriteString(entities.b.String())
	doc.pair(0, "ENDSEC")
	doc.pair(0, "EOF")
	return []byte(doc.b.String())
}

func writeHeader(w *dxfWriter, layout canvas.Layout, nextHandle int) {
	w.pair(0, "SECTION")
	w.pair(2, "HEADER")
	w.pair(9, "$ACADVER")
	w.pair(1, "AC1009")
	w.pair(9, "$INSUNITS")
	w.pair(70, "1")
	w.pair(9, "$EXTMIN")
	w.pair(10, inches(0))
	w.pair(20, inches(0))
	w.pair(30, inches(0))
	w.pair(9, "$EXTMAX")
	w.pair(10, inches(layout.WidthInches))
	w.pair(20, inches(layout.HeightInches))
	w.pair(30, inches(0))
	w.pair(9, "$HANDLING")
	w.pair(70, "1")
	w.pair(9, "$HANDSEED")
	w.pair(5, strings.ToUpper(strconv.FormatInt(int64(nextHandle), 16)))
	w.pair(0, "ENDSEC")
}

func writeLayerTable(w *dxfWriter, layers []canvas.Layer) {
	var names []canvas.LayerKind
	seen := make(map[canvas.LayerKind]bool, len(layers))
	for _, l := range layers {
		if !seen[l.Kind] {
			seen[l.Kind] = true
			names = append(names, l.Kind)
		}
	}

	w.pair(0, "SECTION")
	w.pair(2, "TABLES")
	w.pair(0, "TABLE")
	w.pair(2, "LAYER")
	w.pair(70, strconv.Itoa(len(names)))
	for _, kind := range names {
		w.pair(0, "LAYER")
		w.pair(2, kind.CADName())
		w.pair(70, "0")
		w.pair(62, strconv.Itoa(dxfColors[kind]))
		w.pair(6, "CONTINUOUS")
	}
	w.pair(0, "ENDTAB")
	w.pair(0, "ENDSEC")
}

func writePolyline(w *dxfWriter, layer string, p canvas.Path) {
	flags := "0"
	if p.Closed {
		flags = "1"
	}
	w.entity("POLYLINE", layer)
	w.pair(66, "1")
	w.pair(10, inches(0))
	w.pair(20, inches(0))
	w.pair(30, inches(0))
	w.pair(70, flags)
	for _, pt := range p.Points {
		w.entity("VERTEX", layer)
		w.point(10, pt)
	}
	w.entity("SEQEND", layer)
}

func writeText(w *dxfWriter, layer string, t canvas.Text) {
	w.entity("TEXT", layer)
	w.point(10, t.Anchor)
	w.pair(40, inches(t.Size*capHeightRatio/canvas.PointsPerInch))
	w.pair(1, dxfString(t.Content))
	if t.Align != canvas.AlignStart {
		align := "1"
		if t.Align == canvas.AlignEnd {
			align = "2"
		}
		w.pair(72, align)
		w.point(11, t.Anchor)
	}
}

// dxfString escapes characters outside printable ASCII the way R12 readers
// expect (\U+XXXX).
func dxfString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, `\U+%04X`, r)
		}
	}
	return b.String()
}
