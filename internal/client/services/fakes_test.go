package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/api"
	"github.com/dmitrijs2005/timecheck/internal/client/client"
	"github.com/dmitrijs2005/timecheck/internal/client/migrations"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Apply(context.Background(), db))
	return db
}

func insertMeta(t *testing.T, db *sql.DB, k string, v []byte) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, k, v)
	require.NoError(t, err)
}

func getMeta(t *testing.T, db *sql.DB, k string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	require.NoError(t, err)
	return v
}

// clock returns a func yielding start, start+1s, start+2s, ...
func clock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * time.Second)
		n++
		return t
	}
}

// sequence returns ids prefix1, prefix2, ...
func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

// ---- fake client ----

type fakeClient struct {
	CloseErr    error
	RegisterRet string
	RegisterErr error

	LoginRet client.Tokens
	LoginErr error

	PingErr error

	SyncResp *api.SyncResponse
	SyncErr  error
	// RefreshOnSync simulates a transparent token refresh during Sync.
	RefreshOnSync *client.Tokens

	ExportResp *api.ExportResponse
	ExportErr  error

	LastRegisterEmail, LastRegisterPassword string
	LastLoginEmail, LastLoginPassword       string
	LastSync                                *api.SyncRequest
	LastExportFormat                        string

	tokens client.Tokens
}

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Register(_ context.Context, email, password string) (string, error) {
	f.LastRegisterEmail, f.LastRegisterPassword = email, password
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Login(_ context.Context, email, password string) (client.Tokens, error) {
	f.LastLoginEmail, f.LastLoginPassword = email, password
	if f.LoginErr != nil {
		return client.Tokens{}, f.LoginErr
	}
	f.tokens = f.LoginRet
	return f.LoginRet, nil
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Sync(_ context.Context, req *api.SyncRequest) (*api.SyncResponse, error) {
	f.LastSync = req
	if f.SyncErr != nil {
		return nil, f.SyncErr
	}
	if f.RefreshOnSync != nil {
		f.tokens = *f.RefreshOnSync
	}
	return f.SyncResp, nil
}

func (f *fakeClient) Export(_ context.Context, format string) (*api.ExportResponse, error) {
	f.LastExportFormat = format
	return f.ExportResp, f.ExportErr
}

func (f *fakeClient) SetTokens(t client.Tokens) { f.tokens = t }
func (f *fakeClient) Tokens() client.Tokens     { return f.tokens }
