package tasks

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

const columns = `id, title, description, created_at, updated_at, deleted_at, client_updated_at, pending`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t                              models.Task
		description, deletedAt         sql.NullString
		createdAt, updatedAt, clientAt string
	)
	if err := s.Scan(&t.ID, &t.Title, &description, &createdAt, &updatedAt, &deletedAt, &clientAt, &t.Pending); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = sqltime.Parse(createdAt); err != nil {
		return nil, fmt.Errorf("task %s created_at: %w", t.ID, err)
	}
	if t.UpdatedAt, err = sqltime.Parse(updatedAt); err != nil {
		return nil, fmt.Errorf("task %s updated_at: %w", t.ID, err)
	}
	if t.ClientUpdatedAt, err = sqltime.Parse(clientAt); err != nil {
		return nil, fmt.Errorf("task %s client_updated_at: %w", t.ID, err)
	}
	if t.DeletedAt, err = sqltime.ParseNull(deletedAt); err != nil {
		return nil, fmt.Errorf("task %s deleted_at: %w", t.ID, err)
	}
	t.Description = sqltime.NullString(description)
	return &t, nil
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Task, error) {
	return r.query(ctx, `SELECT `+columns+` FROM tasks WHERE deleted_at IS NULL ORDER BY created_at, id`)
}

func (r *SQLiteRepository) FindByPrefix(ctx context.Context, prefix string) ([]*models.Task, error) {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return r.query(ctx, `SELECT `+columns+` FROM tasks WHERE deleted_at IS NULL AND id LIKE ? ESCAPE '\' ORDER BY created_at, id`, escaped+"%")
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]*models.Task, error) {
	return r.query(ctx, `SELECT `+columns+` FROM tasks WHERE pending = 1 ORDER BY client_updated_at, id`)
}

func (r *SQLiteRepository) Upsert(ctx context.Context, t *models.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			client_updated_at = excluded.client_updated_at,
			pending = excluded.pending
	`, t.ID, t.Title, t.Description,
		sqltime.Format(t.CreatedAt), sqltime.Format(t.UpdatedAt), sqltime.FormatPtr(t.DeletedAt),
		sqltime.Format(t.ClientUpdatedAt), t.Pending)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, revision time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET pending = 0 WHERE id = ? AND client_updated_at = ?`, id, sqltime.Format(revision))
	if err != nil {
		return fmt.Errorf("failed to mark task synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	return nil
}
