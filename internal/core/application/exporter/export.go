package exporter

import (
	"time"

	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/ports"
)

// FormatVersion tags every export bundle.
const FormatVersion = "storymap-export/1.0"

// File is one generated file.
type File = ports.ExportFile

// LayerExport holds one layer in both formats.
type LayerExport struct {
	Kind  canvas.LayerKind
	Layer canvas.Layer
	SVG   File
	DXF   File
}

// ManufacturingExport is the complete output of one export request.
type ManufacturingExport struct {
	OrderID       kernel.UUID
	OrderNumber   string
	ExportedAt    time.Time
	FormatVersion string
	Features      int

	// Layers in processing order.
	Layers      []LayerExport
	CombinedSVG File
	CombinedDXF File
	Documents   []File
}

// Files returns every file of the bundle: per-layer files in processing
// order, then the combined files, then the documents.
func (e *ManufacturingExport) Files() []File {
	files := make([]File, 0, 2*len(e.Layers)+2+len(e.Documents))
	for _, l := range e.Layers {
		files = append(files, l.SVG, l.DXF)
	}
	files = append(files, e.CombinedSVG, e.CombinedDXF)
	return append(files, e.Documents...)
}

// FileNames returns the names of Files in the same order.
func (e *ManufacturingExport) FileNames() []string {
	files := e.Files()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}
