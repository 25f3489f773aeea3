package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath   string
	scenarioPath string
	journalDir   string
	migrations   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "colonyd",
		Short:         "Colony controller over a simulated world",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "tuning yaml (defaults when empty)")
	cmd.PersistentFlags().StringVar(&opts.scenarioPath, "scenario", "scenarios/demo.yaml", "scenario yaml describing the world")
	cmd.PersistentFlags().StringVar(&opts.journalDir, "journal-dir", "", "tick journal directory (overrides the tuning file)")
	cmd.PersistentFlags().StringVar(&opts.migrations, "migrations", "db/migrations", "postgres migration directory")

	cmd.AddCommand(newRunCmd(opts), newServeCmd(opts))
	return cmd
}
