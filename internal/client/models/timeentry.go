package models

import "time"

// TimeEntry is the local copy of a time entry. A nil StoppedAt means the
// timer is running.
type TimeEntry struct {
	ID              string
	TaskID          string
	StartedAt       time.Time
	StoppedAt       *time.Time
	Comment         *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
	ClientUpdatedAt time.Time
	Pending         bool
}

func (e *TimeEntry) Running() bool { return e.StoppedAt == nil && e.DeletedAt == nil }

// Duration is the length of a stopped entry or the elapsed time of a
// running one.
func (e *TimeEntry) Duration(now time.Time) time.Duration {
	end := now
	if e.StoppedAt != nil {
		end = *e.StoppedAt
	}
	if end.Before(e.StartedAt) {
		return 0
	}
	return end.Sub(e.StartedAt)
}
