package production

import (
	"fmt"

	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/mapdata"
)

// Operation is a machine operation applied to one layer.
type Operation string

const (
	OperationCut           Operation = "cut"
	OperationDeepEngrave   Operation = "deep_engrave"
	OperationMediumEngrave Operation = "medium_engrave"
	OperationFineEngrave   Operation = "fine_engrave"
)

// OperationFor maps a layer to the operation that produces it.
func OperationFor(kind canvas.LayerKind) Operation {
	switch kind {
	case canvas.LayerCut:
		return OperationCut
	case canvas.LayerGeographic:
		return OperationDeepEngrave
	case canvas.LayerRoute:
		return OperationMediumEngrave
	default:
		return OperationFineEngrave
	}
}

// MachineSettings are the laser/router parameters for one operation.
type MachineSettings struct {
	Operation     Operation `json:"operation" toml:"operation"`
	PowerPercent  float64   `json:"powerPercent" toml:"power_percent"`
	SpeedMMPerSec float64   `json:"speedMmPerSec" toml:"speed_mm_per_sec"`
	Passes        int       `json:"passes" toml:"passes"`
	DepthInches   float64   `json:"depthInches" toml:"depth_inches"`
}

// MaterialSpec is the resolved stock and machine settings for an order.
type MaterialSpec struct {
	Material        mapdata.Material  `json:"material" toml:"material"`
	Name            string            `json:"name" toml:"name"`
	ThicknessInches float64           `json:"thicknessInches" toml:"thickness_inches"`
	Finish          string            `json:"finish" toml:"finish"`
	Settings        []MachineSettings `json:"settings" toml:"settings"`
}

// SettingsFor returns the machine settings for an operation.
func (m MaterialSpec) SettingsFor(op Operation) (MachineSettings, error) {
	for _, s := range m.Settings {
		if s.Operation == op {
			return s, nil
		}
	}
	return MachineSettings{}, fmt.Errorf("material %q has no settings for %s", m.Material, op)
}

// Validate checks that every operation has settings.
func (m MaterialSpec) Validate() error {
	for _, kind := range canvas.LayerKinds() {
		if _, err := m.SettingsFor(OperationFor(kind)); err != nil {
			return err
		}
	}
	return nil
}
