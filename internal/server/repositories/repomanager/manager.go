package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/timecheck/internal/dbx"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/timeentries"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a caller-chosen DBTX, so a
// service can put every repository of one operation on the same *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	TimeEntries(db dbx.DBTX) timeentries.Repository
}
