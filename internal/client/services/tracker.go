package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/client/models"
	"github.com/dmitrijs2005/timecheck/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/timecheck/internal/client/repositories/timeentries"
	"github.com/dmitrijs2005/timecheck/internal/common"
	"github.com/dmitrijs2005/timecheck/internal/dbx"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle     = errors.New("title must not be empty")
	ErrTaskNotFound   = errors.New("task not found")
	ErrAmbiguousRef   = errors.New("id prefix matches more than one task")
	ErrNothingRunning = errors.New("no running time entry")
)

// TrackerService edits the local replica. Every change is stamped with a
// fresh client_updated_at and marked pending until the next sync.
type TrackerService interface {
	AddTask(ctx context.Context, title string, description *string) (*models.Task, error)
	ListTasks(ctx context.Context) ([]*models.Task, error)
	// ResolveTask finds a live task by full id or unique id prefix.
	ResolveTask(ctx context.Context, ref string) (*models.Task, error)
	RenameTask(ctx context.Context, ref, title string) (*models.Task, error)
	// DeleteTask tombstones the task and stops its running entry, if any.
	DeleteTask(ctx context.Context, ref string) (*models.Task, error)
	// Start stops whatever is running and starts a new entry on the task.
	Start(ctx context.Context, ref string, comment *string) (*models.TimeEntry, error)
	Stop(ctx context.Context) (*models.TimeEntry, error)
	// ListEntries lists entries of one task, or of all tasks for an empty ref.
	ListEntries(ctx context.Context, ref string) ([]*models.TimeEntry, error)
}

type trackerService struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

func NewTrackerService(db *sql.DB) TrackerService {
	return &trackerService{db: db, now: time.Now, newID: uuid.NewString}
}

// stamp returns the current time at the precision the server stores.
func (s *trackerService) stamp() time.Time {
	return common.NormalizeTime(s.now())
}

func (s *trackerService) AddTask(ctx context.Context, title string, description *string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	now := s.stamp()
	t := &models.Task{
		ID:              s.newID(),
		Title:           title,
		Description:     description,
		CreatedAt:       now,
		UpdatedAt:       now,
		ClientUpdatedAt: now,
		Pending:         true,
	}
	if err := tasks.NewSQLiteRepository(s.db).Upsert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *trackerService) ListTasks(ctx context.Context) ([]*models.Task, error) {
	return tasks.NewSQLiteRepository(s.db).List(ctx)
}

func (s *trackerService) ResolveTask(ctx context.Context, ref string) (*models.Task, error) {
	return resolveTask(ctx, tasks.NewSQLiteRepository(s.db), ref)
}

func resolveTask(ctx context.Context, repo tasks.Repository, ref string) (*models.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrTaskNotFound
	}

	found, err := repo.FindByPrefix(ctx, ref)
	if err != nil {
		return nil, err
	}
	for _, t := range found {
		if t.ID == ref {
			return t, nil
		}
	}
	switch len(found) {
	case 0:
		return nil, ErrTaskNotFound
	case 1:
		return found[0], nil
	default:
		return nil, ErrAmbiguousRef
	}
}

func (s *trackerService) RenameTask(ctx context.Context, ref, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	var result *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := tasks.NewSQLiteRepository(tx)
		t, err := resolveTask(ctx, repo, ref)
		if err != nil {
			return err
		}

		now := s.stamp()
		t.Title = title
		t.UpdatedAt = now
		t.ClientUpdatedAt = now
		t.Pending = true
		result = t
		return repo.Upsert(ctx, t)
	})
	return result, err
}

func (s *trackerService) DeleteTask(ctx context.Context, ref string) (*models.Task, error) {
	var result *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := tasks.NewSQLiteRepository(tx)
		t, err := resolveTask(ctx, repo, ref)
		if err != nil {
			return err
		}

		now := s.stamp()
		if err := stopRunning(ctx, timeentries.NewSQLiteRepository(tx), t.ID, now); err != nil {
			return err
		}

		t.DeletedAt = &now
		t.UpdatedAt = now
		t.ClientUpdatedAt = now
		t.Pending = true
		result = t
		return repo.Upsert(ctx, t)
	})
	return result, err
}

// stopRunning stops running entries at now. An empty taskID matches every task.
func stopRunning(ctx context.Context, repo timeentries.Repository, taskID string, now time.Time) error {
	running, err := repo.Running(ctx)
	if err != nil {
		return err
	}
	for _, e := range running {
		if taskID != "" && e.TaskID != taskID {
			continue
		}
		stopped := now
		if stopped.Before(e.StartedAt) {
			stopped = e.StartedAt
		}
		e.StoppedAt = &stopped
		e.UpdatedAt = now
		e.ClientUpdatedAt = now
		e.Pending = true
		if err := repo.Upsert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *trackerService) Start(ctx context.Context, ref string, comment *string) (*models.TimeEntry, error) {
	var result *models.TimeEntry
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		t, err := resolveTask(ctx, tasks.NewSQLiteRepository(tx), ref)
		if err != nil {
			return err
		}

		entries := timeentries.NewSQLiteRepository(tx)
		now := s.stamp()
		if err := stopRunning(ctx, entries, "", now); err != nil {
			return err
		}

		result = &models.TimeEntry{
			ID:              s.newID(),
			TaskID:          t.ID,
			StartedAt:       now,
			Comment:         comment,
			CreatedAt:       now,
			UpdatedAt:       now,
			ClientUpdatedAt: now,
			Pending:         true,
		}
		return entries.Upsert(ctx, result)
	})
	return result, err
}

func (s *trackerService) Stop(ctx context.Context) (*models.TimeEntry, error) {
	var result *models.TimeEntry
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		entries := timeentries.NewSQLiteRepository(tx)
		running, err := entries.Running(ctx)
		if err != nil {
			return err
		}
		if len(running) == 0 {
			return ErrNothingRunning
		}

		if err := stopRunning(ctx, entries, "", s.stamp()); err != nil {
			return err
		}
		result, err = entries.Get(ctx, running[0].ID)
		return err
	})
	return result, err
}

func (s *trackerService) ListEntries(ctx context.Context, ref string) ([]*models.TimeEntry, error) {
	taskID := ""
	if strings.TrimSpace(ref) != "" {
		t, err := s.ResolveTask(ctx, ref)
		if err != nil {
			return nil, err
		}
		taskID = t.ID
	}
	return timeentries.NewSQLiteRepository(s.db).List(ctx, taskID)
}
