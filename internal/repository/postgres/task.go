package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/davidldv/taskforge/internal/model"
)

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

var _ model.TaskStore = (*TaskRepository)(nil)

type TaskRepository struct {
	db *Connection
}

func NewTaskRepository(db *Connection) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `INSERT INTO tasks (id, user_id, title, description, completed, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + taskColumns

	return scanTask(r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Completed,
		task.CreatedAt, task.UpdatedAt,
	), "failed to create task")
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows, "failed to list tasks")
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return scanTask(r.db.QueryRowContext(ctx, query, id, userID), "failed to get task")
}

func (r *TaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	query := `UPDATE tasks SET title = $1, description = $2, completed = $3, updated_at = now()
			  WHERE id = $4 AND user_id = $5
			  RETURNING ` + taskColumns

	return scanTask(r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Completed, task.ID, task.UserID,
	), "failed to update task")
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func scanTask(row rowScanner, failMsg string) (model.Task, error) {
	var task model.Task

	err := row.Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description, &task.Completed,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("%s: %w", failMsg, err)
	}

	return task, nil
}
