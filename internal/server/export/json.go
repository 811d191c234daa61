package export

import (
	"encoding/json"
	"io"
	"time"
)

type jsonTask struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type jsonEntry struct {
	ID              string     `json:"id"`
	TaskID          string     `json:"task_id"`
	TaskTitle       string     `json:"task_title"`
	StartedAt       time.Time  `json:"started_at"`
	StoppedAt       *time.Time `json:"stopped_at,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	Comment         *string    `json:"comment,omitempty"`
}

type jsonDoc struct {
	ExportedAt  time.Time   `json:"exported_at"`
	Tasks       []jsonTask  `json:"tasks"`
	TimeEntries []jsonEntry `json:"time_entries"`
}

// WriteJSON writes an indented JSON document. Running entries are measured
// up to ExportedAt.
func WriteJSON(w io.Writer, s Snapshot) error {
	tasks := liveTasks(s.Tasks)

	doc := jsonDoc{
		ExportedAt:  s.ExportedAt.UTC(),
		Tasks:       make([]jsonTask, 0, len(tasks)),
		TimeEntries: []jsonEntry{},
	}
	for _, t := range s.Tasks {
		if _, ok := tasks[t.ID]; !ok {
			continue
		}
		doc.Tasks = append(doc.Tasks, jsonTask{
			ID: t.ID, Title: t.Title, Description: t.Description,
			CreatedAt: t.CreatedAt.UTC(), UpdatedAt: t.UpdatedAt.UTC(),
		})
	}
	for _, e := range liveEntries(s.TimeEntries, tasks) {
		doc.TimeEntries = append(doc.TimeEntries, jsonEntry{
			ID: e.ID, TaskID: e.TaskID, TaskTitle: tasks[e.TaskID].Title,
			StartedAt: e.StartedAt.UTC(), StoppedAt: e.StoppedAt,
			DurationSeconds: int64(e.Duration(s.ExportedAt) / time.Second),
			Comment:         e.Comment,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
