package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
	"github.com/Shadow-sword/tg-tldr/internal/biz/repo"
)

// summaryRepo stores daily summaries, one row per (group, day).
type summaryRepo struct {
	db *sql.DB
}

func newSummaryRepo(db *sql.DB) (repo.SummaryRepo, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			group_id INTEGER NOT NULL,
			group_name TEXT NOT NULL,
			date TEXT NOT NULL,
			summary TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			UNIQUE (group_id, date)
		)
	`)
	if err != nil {
		return nil, &repo.StorageError{Op: "create summaries table", Err: err}
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_summaries_group_date
			ON summaries(group_id, date)
	`)
	if err != nil {
		return nil, &repo.StorageError{Op: "create summaries index", Err: err}
	}

	return &summaryRepo{db: db}, nil
}

func (r *summaryRepo) Save(ctx context.Context, s *domain.Summary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO summaries (group_id, group_name, date, summary, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		s.GroupID,
		s.GroupName,
		dayKey(s.Date),
		s.Summary,
		time.Now().Unix(),
	)
	if err != nil {
		return &repo.StorageError{Op: "save summary", Err: err}
	}
	return nil
}

func (r *summaryRepo) Get(ctx context.Context, groupID int64, day time.Time) (*domain.Summary, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, group_id, group_name, date, summary, created_at
		FROM summaries
		WHERE group_id = ? AND date = ?
	`, groupID, dayKey(day))

	var s domain.Summary
	var date string
	var createdAt int64
	err := row.Scan(&s.ID, &s.GroupID, &s.GroupName, &date, &s.Summary, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &repo.StorageError{Op: "get summary", Err: err}
	}

	s.Date, err = time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, &repo.StorageError{Op: "parse summary date", Err: err}
	}
	s.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &s, nil
}

func dayKey(t time.Time) string {
	return domain.DayStart(t).Format("2006-01-02")
}
