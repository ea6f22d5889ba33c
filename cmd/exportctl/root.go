package main

import (
	"github.com/spf13/cobra"

	"storymap/cmd"
)

// commandContext carries the flags every subcommand shares and loads the
// configuration once.
type commandContext struct {
	envFile *string
	config  *cmd.Config
}

func newCommandContext(envFile *string) *commandContext {
	return &commandContext{envFile: envFile}
}

func (c *commandContext) ensureConfig() (cmd.Config, error) {
	if c.config != nil {
		return *c.config, nil
	}
	var files []string
	if c.envFile != nil && *c.envFile != "" {
		files = append(files, *c.envFile)
	}
	config, err := cmd.LoadConfig(files...)
	if err != nil {
		return cmd.Config{}, err
	}
	c.config = &config
	return config, nil
}

func newRootCommand() *cobra.Command {
	var envFlag string

	ctx := newCommandContext(&envFlag)

	rootCmd := &cobra.Command{
		Use:           "exportctl",
		Short:         "Story map manufacturing export tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "Path to a .env file (default .env when present)")

	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newTemplatesCommand(ctx))
	rootCmd.AddCommand(newMaterialsCommand(ctx))

	return rootCmd
}
