package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidldv/taskforge/internal/apperror"
	"github.com/davidldv/taskforge/internal/logger"
	"github.com/davidldv/taskforge/internal/model"
)

// Task implements tenant-scoped task CRUD. Every operation takes the
// authenticated user id resolved by the session middleware; the store never
// returns another user's rows.
type Task struct {
	taskStore model.TaskStore
	logger    *logger.Logger
}

// NewTask creates a new Task service.
func NewTask(taskStore model.TaskStore, logger *logger.Logger) *Task {
	return &Task{
		taskStore: taskStore,
		logger:    logger,
	}
}

// TaskUpdate carries the mutable fields of a task. Nil fields are absent
// from the request and keep their stored values, so a client can toggle
// completion without resending the title.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Create adds a task for the user.
func (t *Task) Create(ctx context.Context, userID uuid.UUID, title, description string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, apperror.NewValidation("Title is required")
	}

	now := time.Now()
	task, err := t.taskStore.Create(ctx, model.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.logger.Error("Task service: failed to create task", "user_id", userID, "error", err.Error())
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// List returns the user's tasks, newest first.
func (t *Task) List(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	tasks, err := t.taskStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns one of the user's tasks by id.
func (t *Task) Get(ctx context.Context, id, userID uuid.UUID) (model.Task, error) {
	task, err := t.taskStore.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Task{}, apperror.NewNotFound("Task not found")
		}
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Update merges the provided fields onto one of the user's tasks. Fields
// left nil keep their stored values; a title, once provided, may not be
// blank.
func (t *Task) Update(ctx context.Context, id, userID uuid.UUID, update TaskUpdate) (model.Task, error) {
	task, err := t.taskStore.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Task{}, apperror.NewNotFound("Task not found")
		}
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return model.Task{}, apperror.NewValidation("Title is required")
		}
		task.Title = title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}

	task, err = t.taskStore.Update(ctx, task)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Task{}, apperror.NewNotFound("Task not found")
		}
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes one of the user's tasks.
func (t *Task) Delete(ctx context.Context, id, userID uuid.UUID) error {
	err := t.taskStore.Delete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apperror.NewNotFound("Task not found")
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
