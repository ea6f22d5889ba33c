package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storymap/cmd"
	"storymap/internal/core/domain/model/mapdata"
	"storymap/internal/core/domain/model/production"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List route templates",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			config, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			templates, err := cmd.LoadTemplates(config)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), templatesTable(templates.Templates()))
			return nil
		},
	}
}

func newMaterialsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "materials",
		Short: "List materials and their machine settings",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			config, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			materials, err := cmd.LoadMaterials(config)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), materialsTable(materials.Materials()))
			return nil
		},
	}
}

func templatesTable(templates []mapdata.Template) string {
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		bounds := "-"
		if b := t.RouteBounds(); b != nil {
			bounds = fmt.Sprintf("%.2f,%.2f .. %.2f,%.2f", b.MinLat, b.MinLng, b.MaxLat, b.MaxLng)
		}
		rows = append(rows, []string{
			t.ID,
			t.Name,
			strconv.Itoa(len(t.Route)),
			strconv.Itoa(len(t.Waypoints)),
			bounds,
		})
	}
	return renderTable(
		[]string{"ID", "Name", "Route points", "Waypoints", "Bounds"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func materialsTable(materials []production.MaterialSpec) string {
	rows := make([][]string, 0, len(materials))
	for _, m := range materials {
		ops := make([]string, 0, len(m.Settings))
		for _, s := range m.Settings {
			ops = append(ops, fmt.Sprintf("%s %.0f%%/%.0fmm/s x%d", s.Operation, s.PowerPercent, s.SpeedMMPerSec, s.Passes))
		}
		rows = append(rows, []string{
			string(m.Material),
			m.Name,
			strconv.FormatFloat(m.ThicknessInches, 'f', 3, 64),
			strings.Join(ops, "\n"),
		})
	}
	return renderTable(
		[]string{"Material", "Name", "Thickness (in)", "Settings"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	)
}
