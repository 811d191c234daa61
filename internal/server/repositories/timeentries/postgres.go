package timeentries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/common"
	"github.com/dmitrijs2005/timecheck/internal/dbx"
	"github.com/dmitrijs2005/timecheck/internal/server/models"
)

const columns = `id, user_id, task_id, started_at, stopped_at, comment, created_at, updated_at, deleted_at, client_updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.TimeEntry, error) {
	e := &models.TimeEntry{}
	if err := s.Scan(&e.ID, &e.UserID, &e.TaskID, &e.StartedAt, &e.StoppedAt, &e.Comment,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt, &e.ClientUpdatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.TimeEntry, error) {
	query := `SELECT ` + columns + ` FROM time_entries WHERE id = $1`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, entry *models.TimeEntry) error {
	query := `
		INSERT INTO time_entries (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			started_at = EXCLUDED.started_at,
			stopped_at = EXCLUDED.stopped_at,
			comment = EXCLUDED.comment,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at,
			client_updated_at = EXCLUDED.client_updated_at
			WHERE time_entries.user_id = EXCLUDED.user_id
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.TaskID, entry.StartedAt, entry.StoppedAt, entry.Comment,
		entry.CreatedAt, entry.UpdatedAt, entry.DeletedAt, entry.ClientUpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("time entry %s: %w", entry.ID, common.ErrOwnershipConflict)
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) SelectUpdated(ctx context.Context, userID string, since *time.Time) ([]*models.TimeEntry, error) {
	query := `SELECT ` + columns + ` FROM time_entries WHERE user_id = $1`
	args := []any{userID}
	if since != nil {
		query += ` AND updated_at >= $2`
		args = append(args, since.UTC())
	}
	query += ` ORDER BY updated_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
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
