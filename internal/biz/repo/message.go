package repo

import (
	"context"
	"time"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
)

// SearchFilter narrows a search beyond the term match. Nil fields mean no
// constraint; From and To are both inclusive.
type SearchFilter struct {
	GroupID *int64
	From    *time.Time
	To      *time.Time
	Limit   int
}

// MessageRepo is the message store. Implementations own the derived
// full-text index: every mutation keeps it consistent with the primary
// table within the same transaction.
type MessageRepo interface {
	// Insert upserts a message by (id, group id) and refreshes its index
	// entry. Re-inserting an existing key replaces the stored text.
	Insert(ctx context.Context, msg *domain.Message) error

	// ListByGroupAndDate returns all messages of a group within the UTC
	// calendar day containing day, ascending by timestamp.
	ListByGroupAndDate(ctx context.Context, groupID int64, day time.Time) ([]*domain.Message, error)

	// GetByID returns a single message, or nil when absent.
	GetByID(ctx context.Context, groupID, msgID int64) (*domain.Message, error)

	// Search runs a conjunctive term query and returns the matching page
	// (timestamp descending) plus the total match count, which ignores
	// the limit. A query that tokenizes to nothing returns (nil, 0, nil).
	Search(ctx context.Context, query string, filter SearchFilter) ([]*domain.Message, int, error)

	// PurgeBefore deletes every message older than the UTC day start of
	// day, together with its index entries, and returns the deleted count.
	PurgeBefore(ctx context.Context, day time.Time) (int64, error)

	// RebuildIndex drops and repopulates the full-text index from the
	// primary table and returns the number of indexed rows. It excludes
	// concurrent writers for its whole duration.
	RebuildIndex(ctx context.Context) (int64, error)

	// Close releases the underlying database handle.
	Close() error
}
