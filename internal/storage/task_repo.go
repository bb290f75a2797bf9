package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type TaskRepo struct {
	db DBTX
}

func NewTaskRepo(db DBTX) *TaskRepo {
	return &TaskRepo{db: db}
}

// WithTx returns a repo bound to tx.
func (r *TaskRepo) WithTx(tx *sql.Tx) *TaskRepo {
	return &TaskRepo{db: tx}
}

const taskColumns = `id, user_id, title, description, completed, xp_reward, created_at, completed_at`

func (r *TaskRepo) Insert(ctx context.Context, t *Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("task insert: %w", err)
	}
	var completedAt *int64
	if t.CompletedAt != nil {
		v := toUnix(*t.CompletedAt)
		completedAt = &v
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, completed, xp_reward, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.Title, t.Description, boolToInt(t.Completed), t.XPReward, toUnix(t.CreatedAt), completedAt)
	if err != nil {
		return fmt.Errorf("task insert: %w", err)
	}
	return nil
}

func (r *TaskRepo) Get(ctx context.Context, id string) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTaskRow(row)
}

func (r *TaskRepo) ListByUser(ctx context.Context, userID string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ?
		ORDER BY seq ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

// Claim marks the task completed at the given time only if it is not already
// completed. The returned task is nil when no such task exists; claimed is
// false when another completion got there first.
func (r *TaskRepo) Claim(ctx context.Context, id string, completedAt time.Time) (task *Task, claimed bool, err error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET completed = 1, completed_at = ?
		WHERE id = ? AND completed = 0
		RETURNING `+taskColumns, toUnix(completedAt), id)
	task, err = scanTaskRow(row)
	if err != nil {
		return nil, false, fmt.Errorf("task claim: %w", err)
	}
	if task != nil {
		return task, true, nil
	}

	task, err = r.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return task, false, nil
}

// Delete removes a task and reports whether a row existed.
func (r *TaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("task delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("task delete rows affected: %w", err)
	}
	return n > 0, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*Task, error) {
	var (
		t           Task
		description sql.NullString
		completed   int
		createdAt   int64
		completedAt sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &description, &completed, &t.XPReward, &createdAt, &completedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}

	if description.Valid {
		v := description.String
		t.Description = &v
	}
	t.Completed = completed != 0
	t.CreatedAt = fromUnix(createdAt)
	if completedAt.Valid {
		v := fromUnix(completedAt.Int64)
		t.CompletedAt = &v
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("task scan: %w", err)
	}
	return &t, nil
}
