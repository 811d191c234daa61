package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

func (a *App) AddTask(ctx context.Context, args []string) error {
	title := strings.Join(args, " ")
	if title == "" {
		var err error
		if title, err = getSimpleText(a.reader, "Enter title", a.out); err != nil {
			return err
		}
	}

	description, err := GetMultiline(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}
	var desc *string
	if description != "" {
		desc = &description
	}

	t, err := a.tracker.AddTask(ctx, title, desc)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Added", formatTask(t))
	return nil
}

func (a *App) Tasks(ctx context.Context) error {
	list, err := a.tracker.ListTasks(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tasks. Use 'add <title>' to create one.")
		return nil
	}
	for _, t := range list {
		fmt.Fprintln(a.out, formatTask(t))
	}
	return nil
}

func (a *App) Rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: rename <task> <title>")
	}
	t, err := a.tracker.RenameTask(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Renamed", formatTask(t))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <task>")
	}
	t, err := a.tracker.DeleteTask(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted", shortID(t.ID), t.Title)
	return nil
}
