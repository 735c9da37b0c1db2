package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shadow-sword/tg-tldr/internal/biz/usecase"
	"github.com/Shadow-sword/tg-tldr/internal/data"
	"github.com/Shadow-sword/tg-tldr/internal/infra/llm"
	"github.com/Shadow-sword/tg-tldr/internal/infra/telegram"
	"github.com/Shadow-sword/tg-tldr/internal/service"
)

func newSummaryCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Generate and deliver summaries for a date (default: yesterday)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateDaemon(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			day := time.Now().UTC().AddDate(0, 0, -1)
			if dateStr != "" {
				if day, err = parseDate(dateStr); err != nil {
					return err
				}
			}

			repos, err := data.NewRepositories(cfg.DBPath())
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer repos.Close()

			tgClient, err := telegram.NewClient(cfg.Telegram.BotToken)
			if err != nil {
				return err
			}

			llmClient := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.Summary.Model)
			summarizeUC := usecase.NewSummarizeUsecase(repos.Message, repos.Summary, llmClient, cfg.Summary.Prompt)

			scheduler := service.NewSummaryScheduler(cfg, summarizeUC, tgClient)
			scheduler.RunForDate(cmd.Context(), day)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "Date to summarize (YYYY-MM-DD, default: yesterday)")
	return cmd
}
