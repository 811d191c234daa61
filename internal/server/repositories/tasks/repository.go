// Package tasks stores Task records keyed by their client-generated id.
package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/server/models"
)

type Repository interface {
	// Get returns the task with id whatever its owner, or common.ErrorNotFound.
	// Callers decide what a foreign owner means.
	Get(ctx context.Context, id string) (*models.Task, error)

	// Upsert inserts task or replaces the stored row of the same owner.
	// A row owned by someone else is left untouched and
	// common.ErrOwnershipConflict is returned.
	Upsert(ctx context.Context, task *models.Task) error

	// SelectUpdated lists the tasks of userID with updated_at >= since,
	// or all of them when since is nil, tombstones included.
	SelectUpdated(ctx context.Context, userID string, since *time.Time) ([]*models.Task, error)
}
