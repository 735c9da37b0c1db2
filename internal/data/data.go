package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Shadow-sword/tg-tldr/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// Repositories contains all storage-backed repositories. Messages and
// summaries share one SQLite database file.
type Repositories struct {
	Message repo.MessageRepo
	Summary repo.SummaryRepo

	db *sql.DB
}

// NewRepositories opens (or creates) the database and wires the repositories.
func NewRepositories(dbPath string) (*Repositories, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	msgRepo, err := newMessageRepo(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	sumRepo, err := newSummaryRepo(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		Message: msgRepo,
		Summary: sumRepo,
		db:      db,
	}, nil
}

// Close releases the shared database handle.
func (r *Repositories) Close() error {
	return r.db.Close()
}
