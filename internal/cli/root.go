// Package cli holds the inbox commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the server when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "inbox",
	Short: "self-hosted content inbox",
	Example: `inbox                  # same as "inbox serve"
inbox serve
inbox migrate
inbox seed --file samples.yaml
inbox token`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd(), tokenCmd, versionCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
