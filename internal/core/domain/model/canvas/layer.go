package canvas

// LayerKind identifies one manufacturing slice of the output.
type LayerKind int

const (
	LayerCut LayerKind = iota
	LayerText
	LayerGeographic
	LayerRoute
)

// LayerKinds lists every layer in recommended processing order:
// cut first, then deep geographic routing, then route paths, fine text last.
func LayerKinds() []LayerKind {
	return []LayerKind{LayerCut, LayerGeographic, LayerRoute, LayerText}
}

type layerMeta struct {
	cadName    string
	styleClass string
	slug       string
	title      string
}

var layerMetas = map[LayerKind]layerMeta{
	LayerCut:        {cadName: "CUT", styleClass: "cut", slug: "cut", title: "Cut outline"},
	LayerText:       {cadName: "TEXT-ENGRAVE", styleClass: "engrave", slug: "text-engrave", title: "Text and symbols"},
	LayerGeographic: {cadName: "GEOGRAPHIC-FEATURES", styleClass: "geographic", slug: "geographic-features", title: "Geographic features"},
	LayerRoute:      {cadName: "ROUTE-PATH", styleClass: "route", slug: "route-path", title: "Route path"},
}

// CADName is the DXF layer name.
func (k LayerKind) CADName() string { return layerMetas[k].cadName }

// StyleClass is the SVG class carrying the layer's semantic role.
func (k LayerKind) StyleClass() string { return layerMetas[k].styleClass }

// Slug is used in generated filenames and element ids.
func (k LayerKind) Slug() string { return layerMetas[k].slug }

// Title is the human-readable layer name used in documents.
func (k LayerKind) Title() string { return layerMetas[k].title }

func (k LayerKind) String() string { return k.CADName() }

// Layer is the generated content of one layer. Corners carries the four
// content-area corners the generator worked against (top-left, top-right,
// bottom-right, bottom-left) so registration between layers can be checked.
type Layer struct {
	Kind    LayerKind
	Paths   []Path
	Circles []Circle
	Texts   []Text
	Corners [4]Point
}

// IsEmpty reports whether the layer carries no drawable primitive.
func (l Layer) IsEmpty() bool {
	return len(l.Paths) == 0 && len(l.Circles) == 0 && len(l.Texts) == 0
}

// Merge appends other's primitives to a copy of l. Corners of l are kept.
func (l Layer) Merge(other Layer) Layer {
	merged := l
	merged.Paths = append(append([]Path{}, l.Paths...), other.Paths...)
	merged.Circles = append(append([]Circle{}, l.Circles...), other.Circles...)
	merged.Texts = append(append([]Text{}, l.Texts...), other.Texts...)
	return merged
}
