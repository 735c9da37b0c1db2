package repo

import (
	"context"
	"time"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
)

// SummaryRepo stores generated daily summaries, one per (group, day).
type SummaryRepo interface {
	// Save upserts the summary for its (group id, date) key.
	Save(ctx context.Context, s *domain.Summary) error

	// Get returns the summary for a group and day, or nil when absent.
	Get(ctx context.Context, groupID int64, day time.Time) (*domain.Summary, error)
}
