package mapdata

import (
	"errors"
	"fmt"
	"math"

	"storymap/internal/pkg/errs"
)

// StyleSettings affect rendering only, never geometry.
type StyleSettings struct {
	Theme         string  `json:"theme"`
	FontFamily    string  `json:"fontFamily"`
	StrokeWidth   float64 `json:"strokeWidth"`
	ShowLabels    bool    `json:"showLabels"`
	ShowRoads     bool    `json:"showRoads"`
	ShowLandmarks bool    `json:"showLandmarks"`
}

// DefaultStrokeWidth is used when StrokeWidth is unset, in points.
const DefaultStrokeWidth = 1.5

// EffectiveStrokeWidth returns StrokeWidth or DefaultStrokeWidth.
func (s StyleSettings) EffectiveStrokeWidth() float64 {
	if s.StrokeWidth > 0 && !math.IsInf(s.StrokeWidth, 0) {
		return s.StrokeWidth
	}
	return DefaultStrokeWidth
}

// SizePreset is one of the enumerated physical sizes (inches, width x height).
type SizePreset string

const (
	Size8x10   SizePreset = "8x10"
	Size11x14  SizePreset = "11x14"
	Size12x16  SizePreset = "12x16"
	Size16x20  SizePreset = "16x20"
	Size18x24  SizePreset = "18x24"
	Size24x36  SizePreset = "24x36"
	SizeCustom SizePreset = "custom"
)

// Orientation of the panel.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Material the panel is manufactured from.
type Material string

const (
	MaterialWood    Material = "wood"
	MaterialMetal   Material = "metal"
	MaterialAcrylic Material = "acrylic"
)

// DigitalFormat is the customer's preferred digital download.
type DigitalFormat string

const (
	FormatSVG DigitalFormat = "svg"
	FormatDXF DigitalFormat = "dxf"
	FormatPDF DigitalFormat = "pdf"
	FormatPNG DigitalFormat = "png"
)

// ExportSettings capture the requested physical product.
type ExportSettings struct {
	Size         SizePreset    `json:"size"`
	CustomWidth  float64       `json:"customWidth,omitempty"`
	CustomHeight float64       `json:"customHeight,omitempty"`
	Orientation  Orientation   `json:"orientation"`
	Material     Material      `json:"material"`
	Format       DigitalFormat `json:"format"`
}

// Validate checks the enumerations; custom dimensions are checked when
// production dimensions are resolved.
func (e ExportSettings) Validate() error {
	var errList []error
	switch e.Size {
	case Size8x10, Size11x14, Size12x16, Size16x20, Size18x24, Size24x36, SizeCustom:
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("export.size", fmt.Errorf("%q is not a size", e.Size)))
	}
	switch e.Orientation {
	case Portrait, Landscape:
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("export.orientation", fmt.Errorf("%q is not an orientation", e.Orientation)))
	}
	switch e.Material {
	case MaterialWood, MaterialMetal, MaterialAcrylic:
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("export.material", fmt.Errorf("%q is not a material", e.Material)))
	}
	switch e.Format {
	case FormatSVG, FormatDXF, FormatPDF, FormatPNG:
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("export.format", fmt.Errorf("%q is not a format", e.Format)))
	}
	return errors.Join(errList...)
}
