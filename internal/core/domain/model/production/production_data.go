package production

import (
	"fmt"
	"time"

	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/mapdata"
)

// LayerFiles names the two per-layer files.
type LayerFiles struct {
	SVG string `json:"svg"`
	DXF string `json:"dxf"`
}

// Filenames are the generated file names of an order's export bundle.
type Filenames struct {
	Layers       map[string]LayerFiles `json:"layers"`
	CombinedSVG  string                `json:"combinedSvg"`
	CombinedDXF  string                `json:"combinedDxf"`
	MaterialSpec string                `json:"materialSpec"`
	Instructions string                `json:"instructions"`
	ProcessGuide string                `json:"processGuide"`
}

// NewFilenames derives every filename from the order number.
func NewFilenames(orderNumber string) Filenames {
	f := Filenames{
		Layers:       make(map[string]LayerFiles, len(canvas.LayerKinds())),
		CombinedSVG:  fmt.Sprintf("%s-combined.svg", orderNumber),
		CombinedDXF:  fmt.Sprintf("%s-combined.dxf", orderNumber),
		MaterialSpec: fmt.Sprintf("%s-material-spec.txt", orderNumber),
		Instructions: fmt.Sprintf("%s-production-instructions.txt", orderNumber),
		ProcessGuide: fmt.Sprintf("%s-process-guide.txt", orderNumber),
	}
	for _, kind := range canvas.LayerKinds() {
		f.Layers[kind.Slug()] = LayerFiles{
			SVG: fmt.Sprintf("%s-%s.svg", orderNumber, kind.Slug()),
			DXF: fmt.Sprintf("%s-%s.dxf", orderNumber, kind.Slug()),
		}
	}
	return f
}

// ForLayer returns the file names of one layer.
func (f Filenames) ForLayer(kind canvas.LayerKind) LayerFiles {
	return f.Layers[kind.Slug()]
}

// ExportRecord is attached to an order each time an export is generated.
type ExportRecord struct {
	FormatVersion string    `json:"formatVersion"`
	ExportedAt    time.Time `json:"exportedAt"`
	Files         []string  `json:"files"`
}

// Data is the manufacturing view of an order.
type Data struct {
	Dimensions Dimensions    `json:"dimensions"`
	Material   MaterialSpec  `json:"material"`
	Filenames  Filenames     `json:"filenames"`
	LastExport *ExportRecord `json:"lastExport,omitempty"`
}

// NewData resolves the production data of a new order.
func NewData(settings mapdata.ExportSettings, material MaterialSpec, orderNumber string) (Data, error) {
	dims, err := ResolveDimensions(settings)
	if err != nil {
		return Data{}, err
	}
	if material.Material != settings.Material {
		return Data{}, fmt.Errorf("material spec %q does not match requested material %q", material.Material, settings.Material)
	}
	if err = material.Validate(); err != nil {
		return Data{}, err
	}
	return Data{
		Dimensions: dims,
		Material:   material,
		Filenames:  NewFilenames(orderNumber),
	}, nil
}
