package services

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/timecheck/internal/common"
	"github.com/dmitrijs2005/timecheck/internal/server/models"
)

func validOp(op string) bool {
	return op == common.OpUpsert || op == common.OpDelete
}

// ValidateSyncRequest rejects a batch that is structurally broken. One bad
// change rejects the whole request, before anything is read or written.
func ValidateSyncRequest(req SyncRequest) error {
	for i, c := range req.Tasks {
		if err := validateTaskChange(c); err != nil {
			return fmt.Errorf("%w: tasks[%d]: %s", common.ErrValidation, i, err)
		}
	}
	for i, c := range req.TimeEntries {
		if err := validateTimeEntryChange(c); err != nil {
			return fmt.Errorf("%w: time_entries[%d]: %s", common.ErrValidation, i, err)
		}
	}
	return nil
}

func validateTaskChange(c models.TaskChange) error {
	switch {
	case !validOp(c.Op):
		return fmt.Errorf("unknown op %q", c.Op)
	case strings.TrimSpace(c.Task.ID) == "":
		return fmt.Errorf("id is required")
	case strings.TrimSpace(c.Task.Title) == "":
		return fmt.Errorf("title is required")
	case c.Task.ClientUpdatedAt.IsZero():
		return fmt.Errorf("client_updated_at is required")
	}
	return nil
}

func validateTimeEntryChange(c models.TimeEntryChange) error {
	switch {
	case !validOp(c.Op):
		return fmt.Errorf("unknown op %q", c.Op)
	case strings.TrimSpace(c.Entry.ID) == "":
		return fmt.Errorf("id is required")
	case strings.TrimSpace(c.Entry.TaskID) == "":
		return fmt.Errorf("task_id is required")
	case c.Entry.StartedAt.IsZero():
		return fmt.Errorf("started_at is required")
	case c.Entry.ClientUpdatedAt.IsZero():
		return fmt.Errorf("client_updated_at is required")
	}
	return nil
}

// normalizeSyncRequest brings every timestamp to UTC microseconds, the
// precision the store keeps, so revision comparisons are exact.
func normalizeSyncRequest(req SyncRequest) SyncRequest {
	out := SyncRequest{LastSyncAt: common.NormalizeTimePtr(req.LastSyncAt)}

	out.Tasks = make([]models.TaskChange, len(req.Tasks))
	for i, c := range req.Tasks {
		t := c.Task
		t.CreatedAt = common.NormalizeTime(t.CreatedAt)
		t.UpdatedAt = common.NormalizeTime(t.UpdatedAt)
		t.DeletedAt = common.NormalizeTimePtr(t.DeletedAt)
		t.ClientUpdatedAt = common.NormalizeTime(t.ClientUpdatedAt)
		out.Tasks[i] = models.TaskChange{Op: c.Op, Task: t}
	}

	out.TimeEntries = make([]models.TimeEntryChange, len(req.TimeEntries))
	for i, c := range req.TimeEntries {
		e := c.Entry
		e.StartedAt = common.NormalizeTime(e.StartedAt)
		e.StoppedAt = common.NormalizeTimePtr(e.StoppedAt)
		e.CreatedAt = common.NormalizeTime(e.CreatedAt)
		e.UpdatedAt = common.NormalizeTime(e.UpdatedAt)
		e.DeletedAt = common.NormalizeTimePtr(e.DeletedAt)
		e.ClientUpdatedAt = common.NormalizeTime(e.ClientUpdatedAt)
		out.TimeEntries[i] = models.TimeEntryChange{Op: c.Op, Entry: e}
	}
	return out
}
