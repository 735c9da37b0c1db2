package data

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shadow-sword/tg-tldr/internal/biz/domain"
	"github.com/Shadow-sword/tg-tldr/internal/biz/repo"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewRepositories(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func testMessage(id int64, text string, ts time.Time) *domain.Message {
	return &domain.Message{
		ID:         id,
		GroupID:    -100,
		GroupName:  "测试群",
		SenderID:   123,
		SenderName: "张三",
		Text:       text,
		Timestamp:  ts,
	}
}

func TestInsertCreatesIndexEntry(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	msg := testMessage(1, "今天讨论Python性能优化技巧", time.Date(2026, 1, 30, 14, 23, 0, 0, time.UTC))
	require.NoError(t, repos.Message.Insert(ctx, msg))

	var count int
	require.NoError(t, repos.db.QueryRow("SELECT count(*) FROM messages_fts").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSearchMixedLanguages(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Message.Insert(ctx,
		testMessage(1, "今天讨论Python性能优化技巧", time.Date(2026, 1, 30, 14, 0, 0, 0, time.UTC))))
	require.NoError(t, repos.Message.Insert(ctx,
		testMessage(2, "Let's discuss Python performance tips", time.Date(2026, 1, 30, 15, 0, 0, 0, time.UTC))))

	results, total, err := repos.Message.Search(ctx, "性能优化", repo.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)

	results, total, err = repos.Message.Search(ctx, "Python", repo.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, results, 2)
	// Newest first.
	assert.Equal(t, int64(2), results[0].ID)
	assert.Equal(t, int64(1), results[1].ID)

	results, total, err = repos.Message.Search(ctx, "区块链", repo.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, results)
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Message.Insert(ctx, testMessage(1, "hello world", time.Now())))

	for _, query := range []string{"", "   ", "。！？", "\"\""} {
		results, total, err := repos.Message.Search(ctx, query, repo.SearchFilter{})
		require.NoError(t, err)
		assert.Equal(t, 0, total, "query %q", query)
		assert.Empty(t, results, "query %q", query)
	}
}

func TestSearchOperatorInjectionIsInert(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Message.Insert(ctx, testMessage(1, "hello world", time.Now())))

	// Operator-looking queries must behave as literal terms, never as
	// FTS5 syntax. "hello NOT world" matches nothing only because the
	// stored text lacks a literal "not" term.
	for _, query := range []string{"hello OR nothing", "hello*", "NEAR(hello world)"} {
		_, _, err := repos.Message.Search(ctx, query, repo.SearchFilter{})
		require.NoError(t, err, "query %q must not reach the engine as syntax", query)
	}

	_, total, err := repos.Message.Search(ctx, "hello world", repo.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestUpsertReplacesIndexEntry(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 30, 14, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Message.Insert(ctx, testMessage(1, "alpha topic", ts)))
	require.NoError(t, repos.Message.Insert(ctx, testMessage(1, "beta topic", ts)))

	// Exactly one index row for the key, never a duplicate.
	var count int
	require.NoError(t, repos.db.QueryRow(
		"SELECT count(*) FROM messages_fts WHERE msg_id = 1 AND group_id = -100").Scan(&count))
	assert.Equal(t, 1, count)

	// The old text is gone from the index, the new one is found.
	_, total, err := repos.Message.Search(ctx, "alpha", repo.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	results, total, err := repos.Message.Search(ctx, "beta", repo.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "beta topic", results[0].Text)
}

func TestUpsertToUnindexableTextDropsEntry(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 30, 14, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Message.Insert(ctx, testMessage(1, "alpha topic", ts)))
	require.NoError(t, repos.Message.Insert(ctx, testMessage(1, "！！！", ts)))

	var count int
	require.NoError(t, repos.db.QueryRow("SELECT count(*) FROM messages_fts").Scan(&count))
	assert.Equal(t, 0, count)

	// The primary row itself survives.
	msg, err := repos.Message.GetByID(ctx, -100, 1)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "！！！", msg.Text)
}

func TestSearchGroupFilter(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 30, 14, 0, 0, 0, time.UTC)

	msgA := testMessage(1, "Python优化", ts)
	msgB := testMessage(2, "Python教程", ts.Add(time.Hour))
	msgB.GroupID = -200
	msgB.GroupName = "群B"
	require.NoError(t, repos.Message.Insert(ctx, msgA))
	require.NoError(t, repos.Message.Insert(ctx, msgB))

	groupID := int64(-100)
	results, total, err := repos.Message.Search(ctx, "Python", repo.SearchFilter{GroupID: &groupID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, int64(-100), results[0].GroupID)
}

func TestSearchDateBoundsInclusive(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	to := time.Date(2026, 1, 30, 23, 59, 59, 0, time.UTC)
	require.NoError(t, repos.Message.Insert(ctx, testMessage(1, "boundary topic", to)))
	require.NoError(t, repos.Message.Insert(ctx, testMessage(2, "boundary topic", to.Add(time.Second))))

	from := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	results, total, err := repos.Message.Search(ctx, "boundary", repo.SearchFilter{From: &from, To: &to})
	require.NoError(t, err)
	// Exactly at the upper bound is included, one second later excluded.
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)
}

func TestSearchTotalIndependentOfLimit(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

	for i := int64(1); i <= 7; i++ {
		require.NoError(t, repos.Message.Insert(ctx,
			testMessage(i, "foo discussion", base.Add(time.Duration(i)*time.Minute))))
	}

	small, totalSmall, err := repos.Message.Search(ctx, "foo", repo.SearchFilter{Limit: 3})
	require.NoError(t, err)
	large, totalLarge, err2 := repos.Message.Search(ctx, "foo", repo.SearchFilter{Limit: 1000})
	require.NoError(t, err2)

	assert.Equal(t, 7, totalSmall)
	assert.Equal(t, totalSmall, totalLarge)
	assert.Len(t, small, 3)
	assert.Len(t, large, 7)
}

func TestListByGroupAndDate(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	day := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Message.Insert(ctx, testMessage(1, "first", day)))
	require.NoError(t, repos.Message.Insert(ctx, testMessage(2, "last", day.Add(24*time.Hour-time.Second))))
	require.NoError(t, repos.Message.Insert(ctx, testMessage(3, "next day", day.Add(24*time.Hour))))
	require.NoError(t, repos.Message.Insert(ctx, testMessage(4, "previous day", day.Add(-time.Second))))

	messages, err := repos.Message.ListByGroupAndDate(ctx, -100, day)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	// Ascending by timestamp.
	assert.Equal(t, int64(1), messages[0].ID)
	assert.Equal(t, int64(2), messages[1].ID)
}

func TestGetByID(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	reply := testMessage(2, "a reply", time.Date(2026, 1, 30, 14, 0, 0, 0, time.UTC))
	reply.ReplyToID = 1
	require.NoError(t, repos.Message.Insert(ctx, reply))

	msg, err := repos.Message.GetByID(ctx, -100, 2)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, int64(1), msg.ReplyToID)
	assert.Equal(t, time.Date(2026, 1, 30, 14, 0, 0, 0, time.UTC), msg.Timestamp)

	missing, err := repos.Message.GetByID(ctx, -100, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPurgeBeforeRemovesMessagesAndIndex(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	cutoffDay := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Message.Insert(ctx, testMessage(1, "old news", cutoffDay.Add(-time.Second))))
	require.NoError(t, repos.Message.Insert(ctx, testMessage(2, "fresh news", cutoffDay)))

	deleted, err := repos.Message.PurgeBefore(ctx, cutoffDay)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// The purged message no longer matches any search.
	results, total, err := repos.Message.Search(ctx, "old", repo.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, results)

	// A message exactly at the day start survives.
	_, total, err = repos.Message.Search(ctx, "fresh", repo.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	var orphans int
	require.NoError(t, repos.db.QueryRow("SELECT count(*) FROM messages_fts WHERE msg_id = 1").Scan(&orphans))
	assert.Equal(t, 0, orphans)
}

func TestRebuildIndexIsIdempotent(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 30, 14, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Message.Insert(ctx, testMessage(1, "今天讨论Python性能优化技巧", ts)))
	require.NoError(t, repos.Message.Insert(ctx, testMessage(2, "deployment went fine", ts.Add(time.Minute))))
	require.NoError(t, repos.Message.Insert(ctx, testMessage(3, "！！！", ts.Add(2*time.Minute)))) // unindexable

	first, err := repos.Message.RebuildIndex(ctx)
	require.NoError(t, err)
	second, err := repos.Message.RebuildIndex(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), first)
	assert.Equal(t, first, second)

	results, total, err := repos.Message.Search(ctx, "Python", repo.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)
}
