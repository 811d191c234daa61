package client

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/timecheck/internal/client/migrations"
	"github.com/dmitrijs2005/timecheck/internal/filex"

	_ "modernc.org/sqlite"
)

// InitDatabase opens the SQLite file at dsn, creating its directory if
// needed, and migrates it to the latest schema.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// one writer keeps SQLITE_BUSY out of the sync transaction
	db.SetMaxOpenConns(1)

	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
