package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"storymap/internal/core/domain/model/canvas"
	"storymap/internal/core/domain/model/production"
)

// ContentType is the media type of every rendered document.
const ContentType = "text/plain; charset=utf-8"

// Input is everything the documents describe.
type Input struct {
	OrderNumber   string
	Title         string
	FormatVersion string
	ExportedAt    time.Time
	Dimensions    production.Dimensions
	Material      production.MaterialSpec
	Filenames     production.Filenames
	// Layers in processing order.
	Layers []canvas.Layer
}

// MaterialSpec renders the material specification sheet.
func MaterialSpec(in Input) (string, error) {
	var b strings.Builder
	writeHeading(&b, "Material specification", in)

	tw := newTable()
	tw.AppendRows([]table.Row{
		{"Material", titleCase(string(in.Material.Material))},
		{"Stock", in.Material.Name},
		{"Thickness", fmt.Sprintf("%.3f in", in.Material.ThicknessInches)},
		{"Finish", in.Material.Finish},
		{"Panel", fmt.Sprintf("%s (%.1f x %.1f mm)", in.Dimensions, in.Dimensions.WidthMillimeters(), in.Dimensions.HeightMillimeters())},
		{"Cut margin", fmt.Sprintf("%.3f in", canvas.CutMarginInches)},
	})
	b.WriteString(tw.Render())
	b.WriteString("\n\nMachine settings\n")

	settings, err := settingsTable(in)
	if err != nil {
		return "", err
	}
	b.WriteString(settings)
	b.WriteString("\n")
	return b.String(), nil
}

// ProductionInstructions renders the ordered operator steps.
func ProductionInstructions(in Input) (string, error) {
	var b strings.Builder
	writeHeading(&b, "Production instructions", in)

	steps := []string{
		fmt.Sprintf("Load %s stock (%s, %.3f in) of at least %s.", in.Material.Material, in.Material.Name, in.Material.ThicknessInches, in.Dimensions),
		fmt.Sprintf("Open %s and check the four registration marks against the machine bed.", in.Filenames.CombinedDXF),
	}
	for _, l := range in.Layers {
		s, err := in.Material.SettingsFor(production.OperationFor(l.Kind))
		if err != nil {
			return "", err
		}
		if l.IsEmpty() {
			steps = append(steps, fmt.Sprintf("Skip layer %s: nothing to machine.", l.Kind.CADName()))
			continue
		}
		steps = append(steps, fmt.Sprintf("Run layer %s from %s: %s at %.0f%% power, %.0f mm/s, %d pass(es).",
			l.Kind.CADName(), in.Filenames.ForLayer(l.Kind).DXF, operationName(s.Operation), s.PowerPercent, s.SpeedMMPerSec, s.Passes))
	}
	steps = append(steps,
		"Remove the panel, clean residue and inspect fine engraving.",
		fmt.Sprintf("Move order %s to quality check.", in.OrderNumber),
	)

	for i, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return b.String(), nil
}

// ProcessGuide renders the per-layer manufacturing guide with the
// recommended processing order.
func ProcessGuide(in Input) (string, error) {
	var b strings.Builder
	writeHeading(&b, "Multi-layer process guide", in)
	b.WriteString("Process layers in the order below: cut first, deep geographic routing next, then\n")
	b.WriteString("route paths, fine text last so heavier passes cannot damage fine engraving.\n\n")

	tw := newTable()
	tw.AppendHeader(table.Row{"#", "Layer", "Operation", "Depth", "Paths", "Circles", "Texts", "SVG", "DXF"})
	for i, l := range in.Layers {
		s, err := in.Material.SettingsFor(production.OperationFor(l.Kind))
		if err != nil {
			return "", err
		}
		files := in.Filenames.ForLayer(l.Kind)
		tw.AppendRow(table.Row{
			i + 1, l.Kind.CADName(), operationName(s.Operation), fmt.Sprintf("%.3f in", s.DepthInches),
			len(l.Paths), len(l.Circles), len(l.Texts), files.SVG, files.DXF,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	b.WriteString(tw.Render())
	b.WriteString("\n\nMachine settings\n")

	settings, err := settingsTable(in)
	if err != nil {
		return "", err
	}
	b.WriteString(settings)
	b.WriteString("\n")
	return b.String(), nil
}

func settingsTable(in Input) (string, error) {
	tw := newTable()
	tw.AppendHeader(table.Row{"Layer", "Operation", "Power", "Speed", "Passes", "Depth"})
	for _, l := range in.Layers {
		s, err := in.Material.SettingsFor(production.OperationFor(l.Kind))
		if err != nil {
			return "", err
		}
		tw.AppendRow(table.Row{
			l.Kind.CADName(),
			operationName(s.Operation),
			fmt.Sprintf("%.0f%%", s.PowerPercent),
			fmt.Sprintf("%.0f mm/s", s.SpeedMMPerSec),
			s.Passes,
			fmt.Sprintf("%.3f in", s.DepthInches),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render(), nil
}

func writeHeading(b *strings.Builder, name string, in Input) {
	fmt.Fprintf(b, "%s - order %s\n", strings.ToUpper(name), in.OrderNumber)
	if in.Title != "" {
		fmt.Fprintf(b, "Map: %s\n", in.Title)
	}
	fmt.Fprintf(b, "Generated: %s (%s)\n\n", in.ExportedAt.UTC().Format(time.RFC3339), in.FormatVersion)
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleDefault)
	return tw
}

func operationName(op production.Operation) string {
	return titleCase(strings.ReplaceAll(string(op), "_", " "))
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
