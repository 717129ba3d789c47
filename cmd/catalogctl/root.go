package main

import (
	"library-catalog/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Operational commands for the library catalog",
	Long: `catalogctl manages the library catalog's PostgreSQL schema.

Connection settings come from the same DB_* environment variables the API
reads, optionally loaded from an env file first.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			// a missing default file is fine; an explicit one must exist
			if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
				return err
			}
		}
		logger.Init("development", logLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file to load before reading DB_* variables")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
