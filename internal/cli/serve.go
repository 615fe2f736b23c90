package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/inbox/internal/app"
	"github.com/MrSnakeDoc/inbox/internal/config"
	"github.com/MrSnakeDoc/inbox/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
		defer func() { _ = loggerClient.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, loggerClient)
		if err != nil {
			loggerClient.Error("failed to start", logger.Error(err))
			return err
		}
		return a.Run(ctx)
	},
}
