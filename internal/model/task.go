package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStore defines persistence operations for tasks. Every operation is
// scoped by the owning user id; a task belonging to another user behaves
// exactly like a missing one.
type TaskStore interface {
	Create(ctx context.Context, task Task) (Task, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Task, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (Task, error)
	Update(ctx context.Context, task Task) (Task, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// Task represents a single to-do item owned by a user.
type Task struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
