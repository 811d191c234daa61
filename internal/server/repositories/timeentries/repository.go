// Package timeentries stores TimeEntry records keyed by their client-generated id.
package timeentries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/server/models"
)

type Repository interface {
	// Get returns the entry with id whatever its owner, or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.TimeEntry, error)

	// Upsert inserts entry or replaces the stored row of the same owner.
	// task_id is fixed at creation and never rewritten. A row owned by
	// someone else yields common.ErrOwnershipConflict.
	Upsert(ctx context.Context, entry *models.TimeEntry) error

	// SelectUpdated lists the entries of userID with updated_at >= since,
	// or all of them when since is nil, tombstones included.
	SelectUpdated(ctx context.Context, userID string, since *time.Time) ([]*models.TimeEntry, error)
}
