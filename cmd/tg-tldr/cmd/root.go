// Package cmd provides the CLI commands for tg-tldr.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Shadow-sword/tg-tldr/internal/conf"
)

var configPath string

// NewRootCmd creates the root command for the tg-tldr CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tg-tldr",
		Short: "Telegram group chat recorder with daily AI-powered summaries",
		Long: `tg-tldr records messages from monitored Telegram groups into a local
SQLite store with a full-text search index, and generates daily
LLM-powered summaries of each group's reply threads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Running without a subcommand starts the daemon.
			return runDaemon(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSummaryCmd())
	cmd.AddCommand(newPurgeCmd())
	cmd.AddCommand(newReindexCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig reads .env and the YAML config for a command invocation.
func loadConfig() (*conf.Config, error) {
	// A .env file is optional; plain environment variables work too.
	_ = godotenv.Load()
	return conf.Load(configPath)
}
