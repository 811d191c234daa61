package models

import "time"

// TimeEntry is an interval of work against a Task. A nil StoppedAt means the
// timer is still running.
type TimeEntry struct {
	ID              string
	UserID          string
	TaskID          string
	StartedAt       time.Time
	StoppedAt       *time.Time
	Comment         *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
	ClientUpdatedAt time.Time
}

// Duration returns the length of a stopped entry, or the time elapsed up to
// now for a running one.
func (e TimeEntry) Duration(now time.Time) time.Duration {
	end := now
	if e.StoppedAt != nil {
		end = *e.StoppedAt
	}
	if end.Before(e.StartedAt) {
		return 0
	}
	return end.Sub(e.StartedAt)
}

// TimeEntryChange is one time entry mutation carried in a sync batch.
type TimeEntryChange struct {
	Op    string
	Entry TimeEntry
}

func (c TimeEntryChange) Key() string         { return c.Entry.ID }
func (c TimeEntryChange) Revision() time.Time { return c.Entry.ClientUpdatedAt }
