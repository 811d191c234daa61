// Package export renders a user's tasks and time entries as a downloadable
// snapshot. Tombstoned records are left out.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/common"
	"github.com/dmitrijs2005/timecheck/internal/server/models"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Snapshot is everything one export contains.
type Snapshot struct {
	ExportedAt  time.Time
	Tasks       []*models.Task
	TimeEntries []*models.TimeEntry
}

// ContentType returns the MIME type for format, or ErrUnsupportedFormat.
func ContentType(format string) (string, error) {
	switch format {
	case FormatJSON:
		return "application/json", nil
	case FormatCSV:
		return "text/csv", nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, format)
	}
}

// Render writes s to w in the given format.
func Render(w io.Writer, format string, s Snapshot) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatCSV:
		return WriteCSV(w, s)
	default:
		return fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, format)
	}
}

func liveTasks(tasks []*models.Task) map[string]*models.Task {
	m := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		if t.DeletedAt == nil {
			m[t.ID] = t
		}
	}
	return m
}

// liveEntries drops deleted entries and entries of deleted tasks.
func liveEntries(entries []*models.TimeEntry, tasks map[string]*models.Task) []*models.TimeEntry {
	out := make([]*models.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.DeletedAt != nil {
			continue
		}
		if _, ok := tasks[e.TaskID]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}

func formatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
