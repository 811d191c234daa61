// Package models defines the records of the client's local replica.
package models

import "time"

// Task is the local copy of a task. Pending marks a local change the server
// has not acknowledged yet.
type Task struct {
	ID              string
	Title           string
	Description     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
	ClientUpdatedAt time.Time
	Pending         bool
}

func (t *Task) Deleted() bool { return t.DeletedAt != nil }
