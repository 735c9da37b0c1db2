package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Shadow-sword/tg-tldr/internal/biz/repo"
	"github.com/Shadow-sword/tg-tldr/internal/biz/usecase"
	"github.com/Shadow-sword/tg-tldr/internal/conf"
)

// SummaryScheduler runs the daily summary job at the configured local time
// and delivers each group's summary to its target chat.
type SummaryScheduler struct {
	cfg        *conf.Config
	summarizer *usecase.SummarizeUsecase
	chat       repo.ChatRepo

	cron *cron.Cron
	loc  *time.Location
}

// NewSummaryScheduler creates a new scheduler.
func NewSummaryScheduler(cfg *conf.Config, summarizer *usecase.SummarizeUsecase, chat repo.ChatRepo) *SummaryScheduler {
	return &SummaryScheduler{
		cfg:        cfg,
		summarizer: summarizer,
		chat:       chat,
	}
}

// Start schedules the daily job. The schedule is "HH:MM" in the configured
// timezone.
func (s *SummaryScheduler) Start() error {
	hour, minute, err := parseSchedule(s.cfg.Summary.Schedule)
	if err != nil {
		return err
	}

	s.loc, err = time.LoadLocation(s.cfg.Summary.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", s.cfg.Summary.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(s.loc))
	_, err = s.cron.AddFunc(fmt.Sprintf("%d %d * * *", minute, hour), s.runDaily)
	if err != nil {
		return fmt.Errorf("failed to schedule daily summary: %w", err)
	}

	s.cron.Start()
	fmt.Printf("[Scheduler] Daily summary at %s (%s)\n", s.cfg.Summary.Schedule, s.cfg.Summary.Timezone)
	return nil
}

// Stop stops the cron and waits for a running job to finish.
func (s *SummaryScheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	fmt.Println("[Scheduler] Stopped")
}

func (s *SummaryScheduler) runDaily() {
	yesterday := time.Now().In(s.loc).AddDate(0, 0, -1)
	fmt.Printf("[Scheduler] Running daily summary for %s\n", yesterday.Format("2006-01-02"))
	s.RunForDate(context.Background(), yesterday)
}

// RunForDate summarizes every configured group for one day and delivers
// the results. Failures are logged per group and do not stop the rest.
func (s *SummaryScheduler) RunForDate(ctx context.Context, day time.Time) {
	for i := range s.cfg.Groups {
		group := &s.cfg.Groups[i]

		summary, err := s.summarizer.SummarizeGroup(ctx, group.GroupInfo(), day)
		if err != nil {
			fmt.Printf("[Scheduler] Failed to summarize %s: %v\n", group.Name, err)
			continue
		}
		if summary == "" {
			continue
		}

		target := s.cfg.SummaryTarget(group)
		if target == 0 {
			fmt.Printf("[Scheduler] Summary for %s:\n%s\n", group.Name, summary)
			continue
		}

		header := fmt.Sprintf("📋 【%s】%s 群聊总结\n\n", group.Name, day.Format("2006-01-02"))
		if err := s.chat.SendText(ctx, target, header+summary); err != nil {
			fmt.Printf("[Scheduler] Failed to send summary for %s to %d: %v\n", group.Name, target, err)
			continue
		}
		fmt.Printf("[Scheduler] Sent summary for %s to %d\n", group.Name, target)
	}
}

func parseSchedule(schedule string) (hour, minute int, err error) {
	parts := strings.SplitN(schedule, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid schedule %q, want HH:MM", schedule)
	}
	hour, err = strconv.Atoi(parts[0])
	if err == nil {
		minute, err = strconv.Atoi(parts[1])
	}
	if err != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid schedule %q, want HH:MM", schedule)
	}
	return hour, minute, nil
}
