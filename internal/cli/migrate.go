package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/inbox/internal/app"
	"github.com/MrSnakeDoc/inbox/internal/config"
	"github.com/MrSnakeDoc/inbox/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
		defer func() { _ = loggerClient.Sync() }()

		// OpenStores applies the schema.
		stores, err := app.OpenStores(cmd.Context(), cfg, loggerClient)
		if err != nil {
			return err
		}
		defer stores.Close(loggerClient)

		loggerClient.Info("schema up to date", logger.String("driver", cfg.DBDriver))
		return nil
	},
}
