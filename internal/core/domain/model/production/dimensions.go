package production

import (
	"fmt"
	"math"

	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/pkg/errs"
)

const (
	// CustomSideMinInches is the smallest custom panel side.
	CustomSideMinInches = 4.0
	// CustomSideMaxInches is the largest custom panel side the machines accept.
	CustomSideMaxInches = 48.0
)

var presetSizes = map[mapdata.SizePreset][2]float64{
	mapdata.Size8x10:  {8, 10},
	mapdata.Size11x14: {11, 14},
	mapdata.Size12x16: {12, 16},
	mapdata.Size16x20: {16, 20},
	mapdata.Size18x24: {18, 24},
	mapdata.Size24x36: {24, 36},
}

// Dimensions is the physical panel size in inches after orientation.
type Dimensions struct {
	WidthInches  float64 `json:"widthInches"`
	HeightInches float64 `json:"heightInches"`
}

// WidthMillimeters returns the width in millimeters.
func (d Dimensions) WidthMillimeters() float64 { return d.WidthInches * 25.4 }

// HeightMillimeters returns the height in millimeters.
func (d Dimensions) HeightMillimeters() float64 { return d.HeightInches * 25.4 }

func (d Dimensions) String() string {
	return fmt.Sprintf("%g x %g in", d.WidthInches, d.HeightInches)
}

// ResolveDimensions turns export settings into physical dimensions.
//
// Presets are stored short side first. Portrait keeps the short side as
// width, landscape swaps. Custom sizes are taken as given and then oriented
// the same way.
func ResolveDimensions(settings mapdata.ExportSettings) (Dimensions, error) {
	var short, long float64
	if settings.Size == mapdata.SizeCustom {
		if err := checkCustomSide("export.customWidth", settings.CustomWidth); err != nil {
			return Dimensions{}, err
		}
		if err := checkCustomSide("export.customHeight", settings.CustomHeight); err != nil {
			return Dimensions{}, err
		}
		short = math.Min(settings.CustomWidth, settings.CustomHeight)
		long = math.Max(settings.CustomWidth, settings.CustomHeight)
	} else {
		size, ok := presetSizes[settings.Size]
		if !ok {
			return Dimensions{}, errs.NewValueIsInvalidErrorWithCause("export.size", fmt.Errorf("%q is not a size", settings.Size))
		}
		short, long = size[0], size[1]
	}

	if settings.Orientation == mapdata.Landscape {
		return Dimensions{WidthInches: long, HeightInches: short}, nil
	}
	return Dimensions{WidthInches: short, HeightInches: long}, nil
}

func checkCustomSide(name string, v float64) error {
	if math.IsNaN(v) || v < CustomSideMinInches || v > CustomSideMaxInches {
		return errs.NewValueIsOutOfRangeError(name, v, CustomSideMinInches, CustomSideMaxInches)
	}
	return nil
}
