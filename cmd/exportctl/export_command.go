package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storymap/cmd"
	"storymap/internal/core/application/exporter"
	"storymap/internal/core/application/usecases/commands"
	"storymap/internal/core/domain/model/kernel"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outDir string

	exportCmd := &cobra.Command{
		Use:   "export <order-id>",
		Short: "Generate an order's manufacturing files",
		Long: "Generate the cut, engrave and route files plus production documents for an\n" +
			"approved order and write them to <out>/<order-number>/.",
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := kernel.UUIDFromString(args[0])
			if err != nil {
				return fmt.Errorf("order id: %w", err)
			}
			config, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if outDir != "" {
				config.ExportOutputDir = outDir
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel}))
			gormDB, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Silent),
			})
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			app, err := cmd.NewCompositionRoot(config, gormDB, log)
			if err != nil {
				return err
			}

			command, err := commands.NewGenerateExportCommand(id)
			if err != nil {
				return err
			}
			export, err := app.CreateGenerateExportCommandHandler().Handle(c.Context(), command)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.OutOrStdout(), exportTable(export))
			fmt.Fprintf(c.OutOrStdout(), "Written to %s\n", app.Sink().Dir(export.OrderNumber))
			return nil
		},
	}

	exportCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default EXPORT_OUTPUT_DIR)")
	return exportCmd
}

func exportTable(export *exporter.ManufacturingExport) string {
	files := export.Files()
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Name, f.ContentType, strconv.Itoa(len(f.Content))})
	}
	return renderTable(
		[]string{"File", "Type", "Bytes"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	)
}
