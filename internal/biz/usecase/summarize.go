package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
	"github.com/Shadow-sword/tg-tldr/internal/biz/repo"
)

// GroupInfo identifies one monitored group for summarization. Prompt, when
// set, overrides the default summary prompt for that group.
type GroupInfo struct {
	ID     int64
	Name   string
	Prompt string
}

// SummarizeUsecase generates and persists daily group summaries.
type SummarizeUsecase struct {
	messages  repo.MessageRepo
	summaries repo.SummaryRepo
	llm       repo.LLMRepo

	defaultPrompt string
}

// NewSummarizeUsecase creates a new summarize usecase. defaultPrompt is the
// template used for groups without their own prompt; it may reference
// {group_name}, {date} and {messages}.
func NewSummarizeUsecase(
	messages repo.MessageRepo,
	summaries repo.SummaryRepo,
	llm repo.LLMRepo,
	defaultPrompt string,
) *SummarizeUsecase {
	return &SummarizeUsecase{
		messages:      messages,
		summaries:     summaries,
		llm:           llm,
		defaultPrompt: defaultPrompt,
	}
}

// SummarizeGroup builds the thread context for one group and day, asks the
// LLM for a summary, and stores it. A day without messages yields "", nil.
func (uc *SummarizeUsecase) SummarizeGroup(ctx context.Context, group GroupInfo, day time.Time) (string, error) {
	messages, err := uc.messages.ListByGroupAndDate(ctx, group.ID, day)
	if err != nil {
		return "", fmt.Errorf("failed to load messages: %w", err)
	}
	if len(messages) == 0 {
		fmt.Printf("[Summarizer] No messages for %s on %s\n", group.Name, dayString(day))
		return "", nil
	}

	contextBlock := RenderThreads(BuildThreads(messages))

	tmpl := group.Prompt
	if tmpl == "" {
		tmpl = uc.defaultPrompt
	}
	prompt := RenderTemplate(tmpl, map[string]string{
		"group_name": group.Name,
		"date":       dayString(day),
		"messages":   contextBlock,
	})

	fmt.Printf("[Summarizer] Generating summary for %s (%d messages)\n", group.Name, len(messages))

	summary, err := uc.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	err = uc.summaries.Save(ctx, &domain.Summary{
		GroupID:   group.ID,
		GroupName: group.Name,
		Date:      domain.DayStart(day),
		Summary:   summary,
	})
	if err != nil {
		return "", fmt.Errorf("failed to save summary: %w", err)
	}

	fmt.Printf("[Summarizer] Summary saved for %s on %s\n", group.Name, dayString(day))
	return summary, nil
}

// GetSummary returns a previously stored summary, or nil.
func (uc *SummarizeUsecase) GetSummary(ctx context.Context, groupID int64, day time.Time) (*domain.Summary, error) {
	return uc.summaries.Get(ctx, groupID, day)
}

func dayString(t time.Time) string {
	return domain.DayStart(t).Format("2006-01-02")
}
