package grpc

import (
	"github.com/dmitrijs2005/timecheck/internal/api"
	"github.com/dmitrijs2005/timecheck/internal/server/models"
	"github.com/dmitrijs2005/timecheck/internal/server/services"
)

func taskFromPayload(p api.TaskPayload) models.Task {
	return models.Task{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		DeletedAt:       p.DeletedAt,
		ClientUpdatedAt: p.ClientUpdatedAt,
	}
}

func taskToPayload(t *models.Task) api.TaskPayload {
	return api.TaskPayload{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		DeletedAt:       t.DeletedAt,
		ClientUpdatedAt: t.ClientUpdatedAt,
	}
}

func timeEntryFromPayload(p api.TimeEntryPayload) models.TimeEntry {
	return models.TimeEntry{
		ID:              p.ID,
		TaskID:          p.TaskID,
		StartedAt:       p.StartedAt,
		StoppedAt:       p.StoppedAt,
		Comment:         p.Comment,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		DeletedAt:       p.DeletedAt,
		ClientUpdatedAt: p.ClientUpdatedAt,
	}
}

func timeEntryToPayload(e *models.TimeEntry) api.TimeEntryPayload {
	return api.TimeEntryPayload{
		ID:              e.ID,
		TaskID:          e.TaskID,
		StartedAt:       e.StartedAt,
		StoppedAt:       e.StoppedAt,
		Comment:         e.Comment,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
		DeletedAt:       e.DeletedAt,
		ClientUpdatedAt: e.ClientUpdatedAt,
	}
}

// SyncRequestFromAPI converts a wire batch. The owner is never taken from
// the payload.
func SyncRequestFromAPI(req *api.SyncRequest) services.SyncRequest {
	out := services.SyncRequest{
		LastSyncAt:  req.LastSyncAt,
		Tasks:       make([]models.TaskChange, 0, len(req.Changes.Tasks)),
		TimeEntries: make([]models.TimeEntryChange, 0, len(req.Changes.TimeEntries)),
	}
	for _, c := range req.Changes.Tasks {
		out.Tasks = append(out.Tasks, models.TaskChange{Op: c.Op, Task: taskFromPayload(c.Data)})
	}
	for _, c := range req.Changes.TimeEntries {
		out.TimeEntries = append(out.TimeEntries, models.TimeEntryChange{Op: c.Op, Entry: timeEntryFromPayload(c.Data)})
	}
	return out
}

func SyncResponseToAPI(res *services.SyncResult) *api.SyncResponse {
	out := &api.SyncResponse{
		ServerTime:  res.ServerTime,
		Tasks:       make([]api.TaskPayload, 0, len(res.Tasks)),
		TimeEntries: make([]api.TimeEntryPayload, 0, len(res.TimeEntries)),
	}
	for _, t := range res.Tasks {
		out.Tasks = append(out.Tasks, taskToPayload(t))
	}
	for _, e := range res.TimeEntries {
		out.TimeEntries = append(out.TimeEntries, timeEntryToPayload(e))
	}
	return out
}
