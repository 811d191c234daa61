package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// nowFn is a test seam for the clock used to render running entries.
var nowFn = time.Now

func (a *App) Start(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: start <task> [comment]")
	}

	var comment *string
	if c := strings.Join(args[1:], " "); c != "" {
		comment = &c
	}

	e, err := a.tracker.Start(ctx, args[0], comment)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Started", shortID(e.ID), "at", e.StartedAt.Local().Format("15:04"))
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	e, err := a.tracker.Stop(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Stopped", shortID(e.ID), "after", formatDuration(e.Duration(nowFn())))
	return nil
}

func (a *App) Entries(ctx context.Context, args []string) error {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}

	entries, err := a.tracker.ListEntries(ctx, ref)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No time entries.")
		return nil
	}

	tasks, err := a.tracker.ListTasks(ctx)
	if err != nil {
		return err
	}
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}

	now := nowFn()
	var total time.Duration
	for _, e := range entries {
		fmt.Fprintln(a.out, formatEntry(e, titles, now))
		total += e.Duration(now)
	}
	fmt.Fprintln(a.out, "Total", formatDuration(total))
	return nil
}
