package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/inbox/internal/app"
	"github.com/MrSnakeDoc/inbox/internal/config"
	"github.com/MrSnakeDoc/inbox/internal/logger"
	"github.com/MrSnakeDoc/inbox/internal/seed"
)

func seedCmd() *cobra.Command {
	var file string

	command := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample records into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			samples := seed.Defaults()
			if file != "" {
				loaded, err := seed.NewLoader(file).Load()
				if err != nil {
					return err
				}
				samples = loaded
			}

			cfg := config.Load()
			loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = loggerClient.Sync() }()

			stores, err := app.OpenStores(cmd.Context(), cfg, loggerClient)
			if err != nil {
				return err
			}
			defer stores.Close(loggerClient)

			n, err := seed.Run(cmd.Context(), stores.Records, samples, loggerClient)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d sample record(s) created\n", n)
			return nil
		},
	}

	command.Flags().StringVarP(&file, "file", "f", "", "YAML file with samples (defaults to the built-in ones)")
	return command
}
