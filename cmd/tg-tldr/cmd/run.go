package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Shadow-sword/tg-tldr/internal/biz/usecase"
	"github.com/Shadow-sword/tg-tldr/internal/data"
	"github.com/Shadow-sword/tg-tldr/internal/infra/llm"
	"github.com/Shadow-sword/tg-tldr/internal/infra/telegram"
	"github.com/Shadow-sword/tg-tldr/internal/service"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daemon: collect messages and schedule daily summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context())
		},
	}
}

func runDaemon(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateDaemon(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	repos, err := data.NewRepositories(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer repos.Close()
	fmt.Printf("[Daemon] Store: %s\n", cfg.DBPath())

	tgClient, err := telegram.NewClient(cfg.Telegram.BotToken)
	if err != nil {
		return err
	}

	llmClient := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.Summary.Model)
	summarizeUC := usecase.NewSummarizeUsecase(repos.Message, repos.Summary, llmClient, cfg.Summary.Prompt)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	collector := service.NewCollector(cfg, tgClient, repos.Message)
	collector.Start(ctx)
	defer collector.Stop()

	scheduler := service.NewSummaryScheduler(cfg, summarizeUC, tgClient)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	fmt.Println("[Daemon] tg-tldr is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		fmt.Println("[Daemon] Shutdown signal received")
	case <-ctx.Done():
	}
	return nil
}
