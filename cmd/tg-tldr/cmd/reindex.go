package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shadow-sword/tg-tldr/internal/data"
)

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the full-text search index from stored messages",
		Long: `Rebuild the full-text search index from stored messages.

The rebuild runs as a single transaction while holding the store's write
lock, so run it while the daemon is stopped or expect ingestion to pause
for its duration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			repos, err := data.NewRepositories(cfg.DBPath())
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer repos.Close()

			count, err := repos.Message.RebuildIndex(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Reindexed %d messages\n", count)
			return nil
		},
	}
}
