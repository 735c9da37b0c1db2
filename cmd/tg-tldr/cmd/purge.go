package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shadow-sword/tg-tldr/internal/data"
)

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <before-date>",
		Short: "Irreversibly delete messages older than a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			repos, err := data.NewRepositories(cfg.DBPath())
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer repos.Close()

			deleted, err := repos.Message.PurgeBefore(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Printf("Purged %d messages older than %s\n", deleted, args[0])
			return nil
		},
	}
}
