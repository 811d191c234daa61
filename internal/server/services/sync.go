package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/common"
	"github.com/dmitrijs2005/timecheck/internal/dbx"
	"github.com/dmitrijs2005/timecheck/internal/logging"
	"github.com/dmitrijs2005/timecheck/internal/server/merge"
	"github.com/dmitrijs2005/timecheck/internal/server/models"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/tasks"
)

// SyncRequest is one client batch. LastSyncAt is the server_time the client
// got from its previous sync, nil on first contact.
type SyncRequest struct {
	LastSyncAt  *time.Time
	Tasks       []models.TaskChange
	TimeEntries []models.TimeEntryChange
}

// OutcomeCounts tallies merge outcomes for one entity type.
type OutcomeCounts struct {
	Applied      int
	Stale        int
	Unauthorized int
	Orphan       int
}

func (c *OutcomeCounts) add(o merge.Outcome) {
	switch o {
	case merge.Applied:
		c.Applied++
	case merge.SkippedStale:
		c.Stale++
	case merge.SkippedUnauthorized:
		c.Unauthorized++
	case merge.SkippedOrphan:
		c.Orphan++
	}
}

// SyncReport says what happened to each submitted change. It is not sent
// to clients.
type SyncReport struct {
	Tasks       OutcomeCounts
	TimeEntries OutcomeCounts
}

// SyncResult is what the client gets back: the server time to use as the
// next watermark and every record of the user changed since the previous one.
type SyncResult struct {
	ServerTime  time.Time
	Tasks       []*models.Task
	TimeEntries []*models.TimeEntry
	Report      SyncReport
}

// SyncService merges client batches into the store and computes deltas.
type SyncService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewSyncService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *SyncService {
	return &SyncService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "sync"),
		now:         time.Now,
	}
}

// Sync applies req on behalf of userID and returns the delta.
//
// Tasks are applied before time entries so an entry can reference a task
// created in the same batch. All writes share one serializable transaction;
// if any of them fails nothing is kept. The delta is read after commit and
// includes this request's own writes.
func (s *SyncService) Sync(ctx context.Context, userID string, req SyncRequest) (*SyncResult, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	if err := ValidateSyncRequest(req); err != nil {
		return nil, err
	}
	req = normalizeSyncRequest(req)

	serverTime := common.NormalizeTime(s.now())
	result := &SyncResult{ServerTime: serverTime}

	err := dbx.WithTx(ctx, s.db, dbx.Serializable, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.applyTasks(ctx, tx, userID, req.Tasks, serverTime, &result.Report.Tasks); err != nil {
			return err
		}
		return s.applyTimeEntries(ctx, tx, userID, req.TimeEntries, serverTime, &result.Report.TimeEntries)
	})
	if err != nil {
		return nil, fmt.Errorf("apply changes: %w", err)
	}

	result.Tasks, err = s.repomanager.Tasks(s.db).SelectUpdated(ctx, userID, req.LastSyncAt)
	if err != nil {
		return nil, fmt.Errorf("select tasks delta: %w", err)
	}
	result.TimeEntries, err = s.repomanager.TimeEntries(s.db).SelectUpdated(ctx, userID, req.LastSyncAt)
	if err != nil {
		return nil, fmt.Errorf("select time entries delta: %w", err)
	}

	s.log.Info(ctx, "sync done",
		"user_id", userID,
		"tasks_applied", result.Report.Tasks.Applied,
		"tasks_stale", result.Report.Tasks.Stale,
		"tasks_unauthorized", result.Report.Tasks.Unauthorized,
		"entries_applied", result.Report.TimeEntries.Applied,
		"entries_stale", result.Report.TimeEntries.Stale,
		"entries_unauthorized", result.Report.TimeEntries.Unauthorized,
		"entries_orphan", result.Report.TimeEntries.Orphan,
		"delta_tasks", len(result.Tasks),
		"delta_entries", len(result.TimeEntries),
	)

	return result, nil
}

func (s *SyncService) applyTasks(ctx context.Context, tx dbx.DBTX, userID string, changes []models.TaskChange, now time.Time, counts *OutcomeCounts) error {
	repo := s.repomanager.Tasks(tx)

	for _, c := range merge.Collapse(changes) {
		stored, err := getTask(ctx, repo, c.Task.ID)
		if err != nil {
			return err
		}

		next, outcome := merge.ApplyTask(stored, c.Task, userID, now)
		counts.add(outcome)
		if outcome != merge.Applied {
			s.log.Debug(ctx, "task skipped", "task_id", c.Task.ID, "outcome", outcome.String())
			continue
		}
		if err := repo.Upsert(ctx, next); err != nil {
			return err
		}
	}
	return nil
}

func (s *SyncService) applyTimeEntries(ctx context.Context, tx dbx.DBTX, userID string, changes []models.TimeEntryChange, now time.Time, counts *OutcomeCounts) error {
	repo := s.repomanager.TimeEntries(tx)
	taskRepo := s.repomanager.Tasks(tx)

	for _, c := range merge.Collapse(changes) {
		stored, err := repo.Get(ctx, c.Entry.ID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		var parent *models.Task
		if stored == nil {
			if parent, err = getTask(ctx, taskRepo, c.Entry.TaskID); err != nil {
				return err
			}
		}

		next, outcome := merge.ApplyTimeEntry(stored, parent, c.Entry, userID, now)
		counts.add(outcome)
		if outcome != merge.Applied {
			s.log.Debug(ctx, "time entry skipped", "entry_id", c.Entry.ID, "outcome", outcome.String())
			continue
		}
		if err := repo.Upsert(ctx, next); err != nil {
			return err
		}
	}
	return nil
}

// getTask maps not-found to a nil task.
func getTask(ctx context.Context, repo tasks.Repository, id string) (*models.Task, error) {
	t, err := repo.Get(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return t, err
}
