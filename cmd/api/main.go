package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ledgervote/internal/app/bootstrap"
	"ledgervote/internal/platform/config"
	"ledgervote/internal/platform/logging"

	"github.com/spf13/cobra"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Serve the signed relay until interrupted.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:          "ledgervote-api",
		Short:        "Serve the ledgervote relay API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.BuildAPI(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("bootstrap api: %w", err)
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Error("api shutdown close failed",
						"event", "api_close_failed",
						"module", "cmd/api",
						"layer", "platform",
						"error", err.Error(),
					)
				}
			}()
			return app.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")
	return cmd
}
