package cli

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/client/models"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%d:%02d:%02d", h, m, d/time.Second)
}

func pendingMark(pending bool) string {
	if pending {
		return " *"
	}
	return ""
}

func formatTask(t *models.Task) string {
	s := fmt.Sprintf("%s  %s%s", shortID(t.ID), t.Title, pendingMark(t.Pending))
	if t.Description != nil && *t.Description != "" {
		s += "\n          " + *t.Description
	}
	return s
}

// formatEntry renders an entry with its task title; titles maps task ids to
// titles and may miss deleted tasks.
func formatEntry(e *models.TimeEntry, titles map[string]string, now time.Time) string {
	title, ok := titles[e.TaskID]
	if !ok {
		title = shortID(e.TaskID)
	}

	end := "running"
	if e.StoppedAt != nil {
		end = e.StoppedAt.Local().Format("15:04")
	}

	s := fmt.Sprintf("%s  %s  %s - %s  %s  %s%s",
		shortID(e.ID),
		e.StartedAt.Local().Format("2006-01-02"),
		e.StartedAt.Local().Format("15:04"),
		end,
		formatDuration(e.Duration(now)),
		title,
		pendingMark(e.Pending))
	if e.Comment != nil && *e.Comment != "" {
		s += "  (" + *e.Comment + ")"
	}
	return s
}
