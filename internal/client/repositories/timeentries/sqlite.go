package timeentries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/client/models"
	"github.com/dmitrijs2005/timecheck/internal/client/repositories/sqltime"
	"github.com/dmitrijs2005/timecheck/internal/common"
	"github.com/dmitrijs2005/timecheck/internal/dbx"
)

const columns = `id, task_id, started_at, stopped_at, comment, created_at, updated_at, deleted_at, client_updated_at, pending`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.TimeEntry, error) {
	var (
		e                                         models.TimeEntry
		stoppedAt, comment, deletedAt             sql.NullString
		startedAt, createdAt, updatedAt, clientAt string
	)
	if err := s.Scan(&e.ID, &e.TaskID, &startedAt, &stoppedAt, &comment,
		&createdAt, &updatedAt, &deletedAt, &clientAt, &e.Pending); err != nil {
		return nil, err
	}

	var err error
	if e.StartedAt, err = sqltime.Parse(startedAt); err != nil {
		return nil, fmt.Errorf("entry %s started_at: %w", e.ID, err)
	}
	if e.StoppedAt, err = sqltime.ParseNull(stoppedAt); err != nil {
		return nil, fmt.Errorf("entry %s stopped_at: %w", e.ID, err)
	}
	if e.CreatedAt, err = sqltime.Parse(createdAt); err != nil {
		return nil, fmt.Errorf("entry %s created_at: %w", e.ID, err)
	}
	if e.UpdatedAt, err = sqltime.Parse(updatedAt); err != nil {
		return nil, fmt.Errorf("entry %s updated_at: %w", e.ID, err)
	}
	if e.DeletedAt, err = sqltime.ParseNull(deletedAt); err != nil {
		return nil, fmt.Errorf("entry %s deleted_at: %w", e.ID, err)
	}
	if e.ClientUpdatedAt, err = sqltime.Parse(clientAt); err != nil {
		return nil, fmt.Errorf("entry %s client_updated_at: %w", e.ID, err)
	}
	e.Comment = sqltime.NullString(comment)
	return &e, nil
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]*models.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select time entries: %w", err)
	}
	defer rows.Close()

	var result []*models.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.TimeEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM time_entries WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) List(ctx context.Context, taskID string) ([]*models.TimeEntry, error) {
	if taskID == "" {
		return r.query(ctx, `SELECT `+columns+` FROM time_entries WHERE deleted_at IS NULL ORDER BY started_at DESC, id`)
	}
	return r.query(ctx, `SELECT `+columns+` FROM time_entries WHERE deleted_at IS NULL AND task_id = ? ORDER BY started_at DESC, id`, taskID)
}

func (r *SQLiteRepository) Running(ctx context.Context) ([]*models.TimeEntry, error) {
	return r.query(ctx, `SELECT `+columns+` FROM time_entries WHERE deleted_at IS NULL AND stopped_at IS NULL ORDER BY started_at DESC, id`)
}

func (r *SQLiteRepository) FindByPrefix(ctx context.Context, prefix string) ([]*models.TimeEntry, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return r.query(ctx, `SELECT `+columns+` FROM time_entries WHERE deleted_at IS NULL AND id LIKE ? ESCAPE '\' ORDER BY started_at DESC, id`, escaped+"%")
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]*models.TimeEntry, error) {
	return r.query(ctx, `SELECT `+columns+` FROM time_entries WHERE pending = 1 ORDER BY client_updated_at, id`)
}

func (r *SQLiteRepository) Upsert(ctx context.Context, e *models.TimeEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_entries (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			task_id = excluded.task_id,
			started_at = excluded.started_at,
			stopped_at = excluded.stopped_at,
			comment = excluded.comment,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			client_updated_at = excluded.client_updated_at,
			pending = excluded.pending
	`, e.ID, e.TaskID, sqltime.Format(e.StartedAt), sqltime.FormatPtr(e.StoppedAt), e.Comment,
		sqltime.Format(e.CreatedAt), sqltime.Format(e.UpdatedAt), sqltime.FormatPtr(e.DeletedAt),
		sqltime.Format(e.ClientUpdatedAt), e.Pending)
	if err != nil {
		return fmt.Errorf("failed to save time entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, revision time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE time_entries SET pending = 0 WHERE id = ? AND client_updated_at = ?`, id, sqltime.Format(revision))
	if err != nil {
		return fmt.Errorf("failed to mark time entry synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM time_entries`); err != nil {
		return fmt.Errorf("failed to clear time entries: %w", err)
	}
	return nil
}
