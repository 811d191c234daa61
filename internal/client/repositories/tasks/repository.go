// Package tasks persists the local replica of tasks in SQLite.
package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/client/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.Task, error)
	// List returns live tasks ordered by creation time.
	List(ctx context.Context) ([]*models.Task, error)
	// FindByPrefix returns live tasks whose id starts with prefix.
	FindByPrefix(ctx context.Context, prefix string) ([]*models.Task, error)
	// Upsert replaces the whole row.
	Upsert(ctx context.Context, t *models.Task) error
	ListPending(ctx context.Context) ([]*models.Task, error)
	// MarkSynced clears the pending flag if the row still has the given revision.
	MarkSynced(ctx context.Context, id string, revision time.Time) error
	Clear(ctx context.Context) error
}
