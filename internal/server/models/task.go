package models

import "time"

// Task is a unit of work owned by one user. ID is generated by the client
// and is the merge key across devices.
//
// UpdatedAt is the server's record of when the row last changed and drives
// delta queries; ClientUpdatedAt is the client's revision time and decides
// which write wins. A non-nil DeletedAt marks a tombstone.
type Task struct {
	ID              string
	UserID          string
	Title           string
	Description     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
	ClientUpdatedAt time.Time
}

// TaskChange is one task mutation carried in a sync batch.
type TaskChange struct {
	Op   string
	Task Task
}

func (c TaskChange) Key() string         { return c.Task.ID }
func (c TaskChange) Revision() time.Time { return c.Task.ClientUpdatedAt }
