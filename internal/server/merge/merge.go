// Package merge decides how an incoming record change combines with the
// stored copy. Everything here is pure: callers load the stored record,
// ask for a decision and persist the result themselves.
//
// The rule is last-writer-wins on the client revision time
// (ClientUpdatedAt). Equal revisions favour the incoming change, which
// makes replaying a batch harmless. A record always keeps the owner it was
// created with.
package merge

import (
	"time"

	"github.com/dmitrijs2005/timecheck/internal/server/models"
)

// Outcome is the result of applying one change.
type Outcome int

const (
	Applied Outcome = iota
	SkippedStale
	SkippedUnauthorized
	// SkippedOrphan is a new time entry whose task is missing or belongs to
	// another user. It is an authorization skip.
	SkippedOrphan
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case SkippedStale:
		return "skipped-stale"
	case SkippedUnauthorized:
		return "skipped-unauthorized"
	case SkippedOrphan:
		return "skipped-orphan"
	default:
		return "unknown"
	}
}

// ShouldApply reports whether a change with revision incoming replaces a
// record whose revision is stored. A nil stored means there is no record yet.
func ShouldApply(stored *time.Time, incoming time.Time) bool {
	return stored == nil || !incoming.Before(*stored)
}

// ApplyTask returns the task to persist and the outcome. The returned task
// is nil unless the outcome is Applied. now becomes UpdatedAt.
func ApplyTask(stored *models.Task, in models.Task, owner string, now time.Time) (*models.Task, Outcome) {
	if stored == nil {
		t := in
		t.UserID = owner
		t.UpdatedAt = now
		return &t, Applied
	}
	if stored.UserID != owner {
		return nil, SkippedUnauthorized
	}
	if !ShouldApply(&stored.ClientUpdatedAt, in.ClientUpdatedAt) {
		return nil, SkippedStale
	}

	t := *stored
	t.Title = in.Title
	t.Description = in.Description
	t.CreatedAt = in.CreatedAt
	t.DeletedAt = in.DeletedAt
	t.ClientUpdatedAt = in.ClientUpdatedAt
	t.UpdatedAt = now
	return &t, Applied
}

// ApplyTimeEntry is ApplyTask for time entries. parent is the stored task
// referenced by in.TaskID (nil if none); it only matters when the entry is
// new. TaskID of an existing entry never changes.
func ApplyTimeEntry(stored *models.TimeEntry, parent *models.Task, in models.TimeEntry, owner string, now time.Time) (*models.TimeEntry, Outcome) {
	if stored == nil {
		if parent == nil || parent.UserID != owner {
			return nil, SkippedOrphan
		}
		e := in
		e.UserID = owner
		e.UpdatedAt = now
		return &e, Applied
	}
	if stored.UserID != owner {
		return nil, SkippedUnauthorized
	}
	if !ShouldApply(&stored.ClientUpdatedAt, in.ClientUpdatedAt) {
		return nil, SkippedStale
	}

	e := *stored
	e.StartedAt = in.StartedAt
	e.StoppedAt = in.StoppedAt
	e.Comment = in.Comment
	e.CreatedAt = in.CreatedAt
	e.DeletedAt = in.DeletedAt
	e.ClientUpdatedAt = in.ClientUpdatedAt
	e.UpdatedAt = now
	return &e, Applied
}
