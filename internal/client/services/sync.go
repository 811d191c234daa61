package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/api"
	"github.com/dmitrijs2005/timecheck/internal/client/client"
	"github.com/dmitrijs2005/timecheck/internal/client/models"
	"github.com/dmitrijs2005/timecheck/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/timecheck/internal/client/repositories/sqltime"
	"github.com/dmitrijs2005/timecheck/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/timecheck/internal/client/repositories/timeentries"
	"github.com/dmitrijs2005/timecheck/internal/common"
	"github.com/dmitrijs2005/timecheck/internal/dbx"
)

// SyncResult summarizes one round trip.
type SyncResult struct {
	SentTasks       int
	SentEntries     int
	ReceivedTasks   int
	ReceivedEntries int
	ServerTime      time.Time
}

type SyncService interface {
	Sync(ctx context.Context) (*SyncResult, error)
	Export(ctx context.Context, format string) (*api.ExportResponse, error)
}

type syncService struct {
	client client.Client
	db     *sql.DB
}

func NewSyncService(client client.Client, db *sql.DB) SyncService {
	return &syncService{client: client, db: db}
}

func op(deletedAt *time.Time) string {
	if deletedAt != nil {
		return common.OpDelete
	}
	return common.OpUpsert
}

func taskToAPI(t *models.Task) api.TaskPayload {
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

func taskFromAPI(p api.TaskPayload) *models.Task {
	return &models.Task{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		DeletedAt:       p.DeletedAt,
		ClientUpdatedAt: p.ClientUpdatedAt,
	}
}

func entryToAPI(e *models.TimeEntry) api.TimeEntryPayload {
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

func entryFromAPI(p api.TimeEntryPayload) *models.TimeEntry {
	return &models.TimeEntry{
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

func (s *syncService) watermark(ctx context.Context) (*time.Time, error) {
	raw, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.KeyLastSyncAt)
	if err != nil || raw == nil {
		return nil, err
	}
	t, err := sqltime.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("stored watermark: %w", err)
	}
	return &t, nil
}

// Sync pushes pending local changes and pulls everything the server changed
// since the stored watermark. The response is applied in one local
// transaction: an incoming record replaces the local one unless the local
// client_updated_at is strictly newer, and a sent record stops being pending
// unless it was edited again while the request was in flight.
func (s *syncService) Sync(ctx context.Context) (*SyncResult, error) {
	pendingTasks, err := tasks.NewSQLiteRepository(s.db).ListPending(ctx)
	if err != nil {
		return nil, err
	}
	pendingEntries, err := timeentries.NewSQLiteRepository(s.db).ListPending(ctx)
	if err != nil {
		return nil, err
	}
	since, err := s.watermark(ctx)
	if err != nil {
		return nil, err
	}

	req := &api.SyncRequest{LastSyncAt: since}
	for _, t := range pendingTasks {
		req.Changes.Tasks = append(req.Changes.Tasks, api.TaskChange{Op: op(t.DeletedAt), Data: taskToAPI(t)})
	}
	for _, e := range pendingEntries {
		req.Changes.TimeEntries = append(req.Changes.TimeEntries, api.TimeEntryChange{Op: op(e.DeletedAt), Data: entryToAPI(e)})
	}

	resp, err := s.client.Sync(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sync request: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		taskRepo := tasks.NewSQLiteRepository(tx)
		entryRepo := timeentries.NewSQLiteRepository(tx)
		meta := metadata.NewSQLiteRepository(tx)

		for _, p := range resp.Tasks {
			if err := applyTask(ctx, taskRepo, taskFromAPI(p)); err != nil {
				return err
			}
		}
		for _, p := range resp.TimeEntries {
			if err := applyEntry(ctx, entryRepo, entryFromAPI(p)); err != nil {
				return err
			}
		}

		for _, t := range pendingTasks {
			if err := taskRepo.MarkSynced(ctx, t.ID, t.ClientUpdatedAt); err != nil {
				return err
			}
		}
		for _, e := range pendingEntries {
			if err := entryRepo.MarkSynced(ctx, e.ID, e.ClientUpdatedAt); err != nil {
				return err
			}
		}

		if err := meta.Set(ctx, metadata.KeyLastSyncAt, []byte(sqltime.Format(resp.ServerTime))); err != nil {
			return err
		}
		// the call may have refreshed them
		return storeTokens(ctx, meta, s.client.Tokens())
	})
	if err != nil {
		return nil, fmt.Errorf("apply sync response: %w", err)
	}

	return &SyncResult{
		SentTasks:       len(pendingTasks),
		SentEntries:     len(pendingEntries),
		ReceivedTasks:   len(resp.Tasks),
		ReceivedEntries: len(resp.TimeEntries),
		ServerTime:      resp.ServerTime,
	}, nil
}

func applyTask(ctx context.Context, repo tasks.Repository, incoming *models.Task) error {
	local, err := repo.Get(ctx, incoming.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	if local != nil && local.ClientUpdatedAt.After(incoming.ClientUpdatedAt) {
		return nil
	}
	return repo.Upsert(ctx, incoming)
}

func applyEntry(ctx context.Context, repo timeentries.Repository, incoming *models.TimeEntry) error {
	local, err := repo.Get(ctx, incoming.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	if local != nil && local.ClientUpdatedAt.After(incoming.ClientUpdatedAt) {
		return nil
	}
	return repo.Upsert(ctx, incoming)
}

func (s *syncService) Export(ctx context.Context, format string) (*api.ExportResponse, error) {
	resp, err := s.client.Export(ctx, format)
	if err != nil {
		return nil, err
	}

	// persist a refreshed session
	if err := storeTokens(ctx, metadata.NewSQLiteRepository(s.db), s.client.Tokens()); err != nil {
		return nil, err
	}
	return resp, nil
}
