package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hivemind/internal/platform/logger"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var ticks uint64
	var start uint64
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the controller for a fixed number of ticks and print the counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticks == 0 {
				return fmt.Errorf("--ticks must be positive")
			}
			log := logger.New(logger.FromEnv())
			ctx := cmd.Context()
			c, err := buildController(ctx, root, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					log.WithError(err).Warn("close controller")
				}
			}()

			for n := start; n < start+ticks; n++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, err := c.step(ctx, n); err != nil {
					return err
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c.metrics.Snapshot())
		},
	}
	cmd.Flags().Uint64Var(&ticks, "ticks", 100, "number of ticks to run")
	cmd.Flags().Uint64Var(&start, "start", 1, "first tick number")
	return cmd
}
