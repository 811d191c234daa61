package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"entry_id", "task_id", "task", "started_at", "stopped_at", "duration_seconds", "duration", "comment"}

// WriteCSV writes one row per live time entry, joined with its task title.
func WriteCSV(w io.Writer, s Snapshot) error {
	tasks := liveTasks(s.Tasks)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range liveEntries(s.TimeEntries, tasks) {
		stopped := ""
		if e.StoppedAt != nil {
			stopped = e.StoppedAt.UTC().Format(time.RFC3339)
		}
		comment := ""
		if e.Comment != nil {
			comment = *e.Comment
		}
		d := e.Duration(s.ExportedAt)

		row := []string{
			e.ID,
			e.TaskID,
			tasks[e.TaskID].Title,
			e.StartedAt.UTC().Format(time.RFC3339),
			stopped,
			strconv.FormatInt(int64(d/time.Second), 10),
			formatDuration(d),
			comment,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
