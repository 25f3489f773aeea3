package main

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	httpadapter "hivemind/internal/adapter/http"
	"hivemind/internal/platform/logger"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tick loop and serve the ops HTTP endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logger.FromEnv())
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			c, err := buildController(ctx, root, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					log.WithError(err).Warn("close controller")
				}
			}()

			h := httpadapter.Handler{
				StatusUC: c.statusUseCase(),
				ReplayUC: c.replayUseCase(),
				KPI:      c.metrics,
			}
			addr := httpAddr()
			s := server.Default(server.WithHostPorts(addr))
			h.RegisterRoutes(s)

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				tickLoop(ctx, c, interval, log)
			}()

			log.WithField("addr", addr).Info("ops server listening")
			s.Spin()
			cancel()
			wg.Wait()
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "wall time per tick")
	return cmd
}

func tickLoop(ctx context.Context, c *controller, interval time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := uint64(1); ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if _, err := c.step(ctx, n); err != nil {
			log.WithError(err).Error("tick failed")
		}
	}
}

func httpAddr() string {
	if addr := strings.TrimSpace(os.Getenv("HIVEMIND_HTTP_ADDR")); addr != "" {
		return addr
	}
	return ":8080"
}
