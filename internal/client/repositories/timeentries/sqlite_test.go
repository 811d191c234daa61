package timeentries

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/client/migrations"
	"github.com/dmitrijs2005/timecheck/internal/client/models"
	"github.com/dmitrijs2005/timecheck/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Apply(context.Background(), db))
	return db
}

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func entry(id, taskID string, started time.Time) *models.TimeEntry {
	return &models.TimeEntry{
		ID: id, TaskID: taskID, StartedAt: started,
		CreatedAt: started, UpdatedAt: started, ClientUpdatedAt: started,
	}
}

func ids(list []*models.TimeEntry) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID)
	}
	return out
}

func TestUpsertAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	in := entry("e1", "t1", t0)
	in.Pending = true
	require.NoError(t, r.Upsert(ctx, in))

	got, err := r.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	stop := t0.Add(30 * time.Minute)
	comment := "standup"
	in.StoppedAt = &stop
	in.Comment = &comment
	in.ClientUpdatedAt = stop
	require.NoError(t, r.Upsert(ctx, in))

	got, err = r.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestGet_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	_, err := r.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_FiltersAndOrders(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, entry("e1", "t1", t0)))
	require.NoError(t, r.Upsert(ctx, entry("e2", "t1", t0.Add(time.Hour))))
	require.NoError(t, r.Upsert(ctx, entry("e3", "t2", t0.Add(2*time.Hour))))
	gone := entry("e4", "t1", t0.Add(3*time.Hour))
	gone.DeletedAt = &t0
	require.NoError(t, r.Upsert(ctx, gone))

	all, err := r.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"e3", "e2", "e1"}, ids(all))

	byTask, err := r.List(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e2", "e1"}, ids(byTask))
}

func TestRunning(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	stopped := entry("e1", "t1", t0)
	stop := t0.Add(time.Minute)
	stopped.StoppedAt = &stop
	require.NoError(t, r.Upsert(ctx, stopped))
	require.NoError(t, r.Upsert(ctx, entry("e2", "t1", t0.Add(time.Hour))))
	deleted := entry("e3", "t1", t0)
	deleted.DeletedAt = &stop
	require.NoError(t, r.Upsert(ctx, deleted))

	running, err := r.Running(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2"}, ids(running))
}

func TestFindByPrefix(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, entry("ab1", "t1", t0)))
	require.NoError(t, r.Upsert(ctx, entry("ac2", "t1", t0)))
	require.NoError(t, r.Upsert(ctx, entry("a%3", "t1", t0)))

	got, err := r.FindByPrefix(ctx, "ab")
	require.NoError(t, err)
	assert.Equal(t, []string{"ab1"}, ids(got))

	got, err = r.FindByPrefix(ctx, "a%")
	require.NoError(t, err)
	assert.Equal(t, []string{"a%3"}, ids(got))
}

func TestPendingAndMarkSynced(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	p := entry("e1", "t1", t0)
	p.Pending = true
	require.NoError(t, r.Upsert(ctx, p))

	// local edit after the snapshot was sent
	p.ClientUpdatedAt = t0.Add(time.Second)
	require.NoError(t, r.Upsert(ctx, p))
	require.NoError(t, r.MarkSynced(ctx, "e1", t0))

	pending, err := r.ListPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, ids(pending))

	require.NoError(t, r.MarkSynced(ctx, "e1", t0.Add(time.Second)))
	pending, err = r.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, entry("e1", "t1", t0)))
	require.NoError(t, r.Clear(ctx))

	all, err := r.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())
	ctx := context.Background()

	_, err := r.Get(ctx, "e1")
	assert.ErrorContains(t, err, "failed to get time entry")
	_, err = r.Running(ctx)
	assert.ErrorContains(t, err, "failed to select time entries")
	assert.ErrorContains(t, r.Upsert(ctx, entry("e1", "t1", t0)), "failed to save time entry")
	assert.ErrorContains(t, r.MarkSynced(ctx, "e1", t0), "failed to mark time entry synced")
	assert.ErrorContains(t, r.Clear(ctx), "failed to clear time entries")
}
