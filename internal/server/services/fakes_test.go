package services

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/timecheck/internal/common"
	"github.com/dmitrijs2005/timecheck/internal/dbx"
	"github.com/dmitrijs2005/timecheck/internal/server/models"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/timeentries"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/users"
)

// memStore is an in-memory stand-in for the Postgres repositories. Upserts
// enforce the same owner guard as the SQL.
type memStore struct {
	mu      sync.Mutex
	users   map[string]models.User
	tokens  map[string]models.RefreshToken
	tasks   map[string]models.Task
	entries map[string]models.TimeEntry

	upsertErr error
	selectErr error
	findErr   error
	deleteErr error
	createErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]models.User{},
		tokens:  map[string]models.RefreshToken{},
		tasks:   map[string]models.Task{},
		entries: map[string]models.TimeEntry{},
	}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Users(dbx.DBTX) users.Repository              { return memUsers{m} }
func (m *memStore) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return memTokens{m}
}
func (m *memStore) Tasks(dbx.DBTX) tasks.Repository             { return memTasks{m} }
func (m *memStore) TimeEntries(dbx.DBTX) timeentries.Repository { return memEntries{m} }

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.createErr != nil {
		return nil, r.m.createErr
	}
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	u.ID = "user-" + strconv.Itoa(len(r.m.users)+1)
	u.CreatedAt = time.Now()
	r.m.users[u.ID] = *u
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memTokens struct{ m *memStore }

func (r memTokens) Create(_ context.Context, userID, token string, expires time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.createErr != nil {
		return r.m.createErr
	}
	r.m.tokens[token] = models.RefreshToken{UserID: userID, Token: token, Expires: expires}
	return nil
}

func (r memTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.findErr != nil {
		return nil, r.m.findErr
	}
	t, ok := r.m.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r memTokens) Delete(_ context.Context, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.deleteErr != nil {
		return r.m.deleteErr
	}
	delete(r.m.tokens, token)
	return nil
}

func (r memTokens) DeleteExpired(_ context.Context, userID string, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for k, t := range r.m.tokens {
		if t.UserID == userID && t.Expires.Before(now) {
			delete(r.m.tokens, k)
			n++
		}
	}
	return n, nil
}

type memTasks struct{ m *memStore }

func (r memTasks) Get(_ context.Context, id string) (*models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r memTasks) Upsert(_ context.Context, t *models.Task) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.upsertErr != nil {
		return r.m.upsertErr
	}
	if existing, ok := r.m.tasks[t.ID]; ok && existing.UserID != t.UserID {
		return common.ErrOwnershipConflict
	}
	r.m.tasks[t.ID] = *t
	return nil
}

func (r memTasks) SelectUpdated(_ context.Context, userID string, since *time.Time) ([]*models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.selectErr != nil {
		return nil, r.m.selectErr
	}
	var out []*models.Task
	for _, t := range r.m.tasks {
		if t.UserID == userID && (since == nil || !t.UpdatedAt.Before(*since)) {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type memEntries struct{ m *memStore }

func (r memEntries) Get(_ context.Context, id string) (*models.TimeEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &e, nil
}

func (r memEntries) Upsert(_ context.Context, e *models.TimeEntry) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.upsertErr != nil {
		return r.m.upsertErr
	}
	if existing, ok := r.m.entries[e.ID]; ok {
		if existing.UserID != e.UserID {
			return common.ErrOwnershipConflict
		}
		e.TaskID = existing.TaskID
	}
	r.m.entries[e.ID] = *e
	return nil
}

func (r memEntries) SelectUpdated(_ context.Context, userID string, since *time.Time) ([]*models.TimeEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.selectErr != nil {
		return nil, r.m.selectErr
	}
	var out []*models.TimeEntry
	for _, e := range r.m.entries {
		if e.UserID == userID && (since == nil || !e.UpdatedAt.Before(*since)) {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// newTxDB returns a sqlmock DB expecting n committed transactions.
func newTxDB(t *testing.T, n int) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// clock hands out strictly increasing instants one second apart.
type clock struct {
	mu  sync.Mutex
	cur time.Time
}

func newClock() *clock {
	return &clock{cur: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}
