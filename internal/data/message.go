package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
	"github.com/Shadow-sword/tg-tldr/internal/biz/repo"
	"github.com/Shadow-sword/tg-tldr/internal/token"
)

const defaultSearchLimit = 50

// messageRepo implements the message store on SQLite. The messages_fts
// virtual table is derived state: it is only ever written inside the same
// transaction as the primary-table mutation it mirrors, so readers never
// observe a message without its index entry or vice versa.
//
// writeMu serializes insert, purge, and rebuild. Rebuild in particular must
// not interleave with ingestion writes, which the mutex makes explicit
// instead of leaving it a caller obligation.
type messageRepo struct {
	db      *sql.DB
	writeMu sync.Mutex
}

func newMessageRepo(db *sql.DB) (repo.MessageRepo, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER NOT NULL,
			group_id INTEGER NOT NULL,
			group_name TEXT NOT NULL,
			sender_id INTEGER NOT NULL,
			sender_name TEXT NOT NULL,
			text TEXT NOT NULL,
			reply_to_id INTEGER,
			timestamp INTEGER NOT NULL,
			PRIMARY KEY (id, group_id)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_messages_group_time
			ON messages(group_id, timestamp)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages index: %w", err)
	}

	// terms holds pre-segmented text; unicode61 then splits it back on the
	// spaces the tokenizer inserted, so FTS terms equal tokenizer terms.
	_, err = db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
			msg_id UNINDEXED,
			group_id UNINDEXED,
			terms,
			tokenize='unicode61'
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_fts table: %w", err)
	}

	return &messageRepo{db: db}, nil
}

// Insert upserts the message and refreshes its index entry in one
// transaction. FTS5 has no replace-in-place, so the old index row is
// deleted first; a plain insert would duplicate entries on edits.
func (r *messageRepo) Insert(ctx context.Context, msg *domain.Message) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &repo.StorageError{Op: "begin insert", Err: err}
	}
	defer tx.Rollback()

	var replyTo any
	if msg.ReplyToID != 0 {
		replyTo = msg.ReplyToID
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO messages
		(id, group_id, group_name, sender_id, sender_name, text, reply_to_id, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		msg.ID,
		msg.GroupID,
		msg.GroupName,
		msg.SenderID,
		msg.SenderName,
		msg.Text,
		replyTo,
		msg.Timestamp.UTC().Unix(),
	)
	if err != nil {
		return &repo.StorageError{Op: "insert message", Err: err}
	}

	if err := indexMessage(ctx, tx, msg.ID, msg.GroupID, msg.Text); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &repo.StorageError{Op: "commit insert", Err: err}
	}
	return nil
}

// indexMessage replaces the index entry for one message key inside tx.
// Text that segments to nothing gets no entry at all.
func indexMessage(ctx context.Context, tx *sql.Tx, msgID, groupID int64, text string) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM messages_fts WHERE msg_id = ? AND group_id = ?`,
		msgID, groupID,
	)
	if err != nil {
		return &repo.StorageError{Op: "delete index entry", Err: err}
	}

	terms := token.IndexTerms(text)
	if terms == "" {
		return nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages_fts (msg_id, group_id, terms) VALUES (?, ?, ?)`,
		msgID, groupID, terms,
	)
	if err != nil {
		return &repo.StorageError{Op: "insert index entry", Err: err}
	}
	return nil
}

const messageColumns = `id, group_id, group_name, sender_id, sender_name, text, reply_to_id, timestamp`

func (r *messageRepo) ListByGroupAndDate(ctx context.Context, groupID int64, day time.Time) ([]*domain.Message, error) {
	start := domain.DayStart(day).Unix()
	end := domain.DayEnd(day).Unix()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE group_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, groupID, start, end)
	if err != nil {
		return nil, &repo.StorageError{Op: "list by group and date", Err: err}
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *messageRepo) GetByID(ctx context.Context, groupID, msgID int64) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE group_id = ? AND id = ?
	`, groupID, msgID)

	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &repo.StorageError{Op: "get by id", Err: err}
	}
	return msg, nil
}

// Search runs the count and the page against the identical predicate so the
// two can never disagree; the limit only truncates the returned page.
func (r *messageRepo) Search(ctx context.Context, query string, filter repo.SearchFilter) ([]*domain.Message, int, error) {
	match := token.MatchQuery(query)
	if match == "" {
		return nil, 0, nil
	}

	conds := []string{"f.terms MATCH ?"}
	args := []any{match}

	if filter.GroupID != nil {
		conds = append(conds, "m.group_id = ?")
		args = append(args, *filter.GroupID)
	}
	if filter.From != nil {
		conds = append(conds, "m.timestamp >= ?")
		args = append(args, filter.From.UTC().Unix())
	}
	if filter.To != nil {
		conds = append(conds, "m.timestamp <= ?")
		args = append(args, filter.To.UTC().Unix())
	}

	where := strings.Join(conds, " AND ")
	join := `FROM messages_fts f
		JOIN messages m ON m.id = f.msg_id AND m.group_id = f.group_id
		WHERE ` + where

	var total int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) `+join, args...).Scan(&total)
	if err != nil {
		return nil, 0, &repo.StorageError{Op: "count search", Err: err}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.group_id, m.group_name, m.sender_id, m.sender_name,
		       m.text, m.reply_to_id, m.timestamp
		`+join+`
		ORDER BY m.timestamp DESC
		LIMIT ?
	`, append(args, limit)...)
	if err != nil {
		return nil, 0, &repo.StorageError{Op: "search", Err: err}
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// PurgeBefore removes messages older than the day start and their index
// entries in one transaction.
func (r *messageRepo) PurgeBefore(ctx context.Context, day time.Time) (int64, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	cutoff := domain.DayStart(day).Unix()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &repo.StorageError{Op: "begin purge", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM messages_fts WHERE (msg_id, group_id) IN (
			SELECT id, group_id FROM messages WHERE timestamp < ?
		)
	`, cutoff)
	if err != nil {
		return 0, &repo.StorageError{Op: "purge index entries", Err: err}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, &repo.StorageError{Op: "purge messages", Err: err}
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, &repo.StorageError{Op: "purge rowcount", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &repo.StorageError{Op: "commit purge", Err: err}
	}
	return deleted, nil
}

// RebuildIndex re-derives the whole index in a single all-or-nothing
// transaction: an interrupted rebuild rolls back and the prior index stays
// authoritative. The write mutex keeps ingestion out for the duration.
func (r *messageRepo) RebuildIndex(ctx context.Context) (int64, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	// Snapshot first: database/sql serializes statements on a transaction,
	// so interleaving inserts with an open cursor would deadlock.
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, group_id, text FROM messages ORDER BY group_id, id`)
	if err != nil {
		return 0, &repo.StorageError{Op: "rebuild scan", Err: err}
	}

	type row struct {
		id, groupID int64
		text        string
	}
	var all []row
	for rows.Next() {
		var rec row
		if err := rows.Scan(&rec.id, &rec.groupID, &rec.text); err != nil {
			rows.Close()
			return 0, &repo.StorageError{Op: "rebuild scan", Err: err}
		}
		all = append(all, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, &repo.StorageError{Op: "rebuild scan", Err: err}
	}
	rows.Close()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &repo.StorageError{Op: "begin rebuild", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages_fts`); err != nil {
		return 0, &repo.StorageError{Op: "clear index", Err: err}
	}

	var count int64
	for _, rec := range all {
		terms := token.IndexTerms(rec.text)
		if terms == "" {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO messages_fts (msg_id, group_id, terms) VALUES (?, ?, ?)`,
			rec.id, rec.groupID, terms,
		)
		if err != nil {
			return 0, &repo.StorageError{Op: "rebuild insert", Err: err}
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, &repo.StorageError{Op: "commit rebuild", Err: err}
	}
	return count, nil
}

func (r *messageRepo) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*domain.Message, error) {
	var msg domain.Message
	var replyTo sql.NullInt64
	var ts int64
	err := s.Scan(
		&msg.ID,
		&msg.GroupID,
		&msg.GroupName,
		&msg.SenderID,
		&msg.SenderName,
		&msg.Text,
		&replyTo,
		&ts,
	)
	if err != nil {
		return nil, err
	}
	if replyTo.Valid {
		msg.ReplyToID = replyTo.Int64
	}
	msg.Timestamp = time.Unix(ts, 0).UTC()
	return &msg, nil
}

func scanMessages(rows *sql.Rows) ([]*domain.Message, error) {
	var messages []*domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, &repo.StorageError{Op: "scan message", Err: err}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, &repo.StorageError{Op: "iterate messages", Err: err}
	}
	return messages, nil
}
