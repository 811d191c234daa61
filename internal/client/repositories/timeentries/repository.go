// Package timeentries persists the local replica of time entries in SQLite.
package timeentries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/client/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.TimeEntry, error)
	// List returns live entries, most recent start first. An empty taskID
	// lists entries of every task.
	List(ctx context.Context, taskID string) ([]*models.TimeEntry, error)
	// Running returns live entries without a stop time.
	Running(ctx context.Context) ([]*models.TimeEntry, error)
	FindByPrefix(ctx context.Context, prefix string) ([]*models.TimeEntry, error)
	Upsert(ctx context.Context, e *models.TimeEntry) error
	ListPending(ctx context.Context) ([]*models.TimeEntry, error)
	// MarkSynced clears the pending flag if the row still has the given revision.
	MarkSynced(ctx context.Context, id string, revision time.Time) error
	Clear(ctx context.Context) error
}
