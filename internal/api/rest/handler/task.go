package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/davidldv/taskforge/internal/api/rest/reqctx"
	"github.com/davidldv/taskforge/internal/apperror"
	"github.com/davidldv/taskforge/internal/logger"
	"github.com/davidldv/taskforge/internal/model"
	"github.com/davidldv/taskforge/internal/service"
)

// TaskService defines tenant-scoped task operations.
type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, title, description string) (model.Task, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	Get(ctx context.Context, id, userID uuid.UUID) (model.Task, error)
	Update(ctx context.Context, id, userID uuid.UUID, update service.TaskUpdate) (model.Task, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// Task handles the task CRUD endpoints. All of them run behind the session
// middleware and scope data access to the bound user.
type Task struct {
	taskService TaskService
	logger      *logger.Logger
}

// NewTask creates a new Task handler.
func NewTask(taskService TaskService, logger *logger.Logger) *Task {
	return &Task{taskService: taskService, logger: logger}
}

// Create adds a task for the authenticated user.
func (h *Task) Create(c *fiber.Ctx) error {
	user, ok := reqctx.User(c)
	if !ok {
		return apperror.NewUnauthorized("User not authenticated")
	}

	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	task, err := h.taskService.Create(c.UserContext(), user.ID, req.Title, req.Description)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Data:    toTaskJSON(task),
	})
}

// List returns the authenticated user's tasks, newest first.
func (h *Task) List(c *fiber.Ctx) error {
	user, ok := reqctx.User(c)
	if !ok {
		return apperror.NewUnauthorized("User not authenticated")
	}

	tasks, err := h.taskService.List(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	count := len(tasks)

	return c.JSON(Response{
		Success: true,
		Count:   &count,
		Data:    toTaskListJSON(tasks),
	})
}

// Get returns one task by id.
func (h *Task) Get(c *fiber.Ctx) error {
	user, ok := reqctx.User(c)
	if !ok {
		return apperror.NewUnauthorized("User not authenticated")
	}

	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.UserContext(), id, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(Response{
		Success: true,
		Data:    toTaskJSON(task),
	})
}

// Update applies the fields present in the request to a task.
func (h *Task) Update(c *fiber.Ctx) error {
	user, ok := reqctx.User(c)
	if !ok {
		return apperror.NewUnauthorized("User not authenticated")
	}

	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	task, err := h.taskService.Update(c.UserContext(), id, user.ID, service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return err
	}

	return c.JSON(Response{
		Success: true,
		Data:    toTaskJSON(task),
	})
}

// Delete removes a task.
func (h *Task) Delete(c *fiber.Ctx) error {
	user, ok := reqctx.User(c)
	if !ok {
		return apperror.NewUnauthorized("User not authenticated")
	}

	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.UserContext(), id, user.ID); err != nil {
		return err
	}

	return c.JSON(Response{
		Success: true,
		Message: "Task deleted successfully",
	})
}

// parseTaskID treats a malformed id like a missing task, mirroring how the
// storage layer treats ids that do not exist.
func parseTaskID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.NewNotFound("Task not found")
	}
	return id, nil
}
