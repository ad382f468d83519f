package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/davidldv/taskforge/internal/apperror"
	"github.com/davidldv/taskforge/internal/logger"
	"github.com/davidldv/taskforge/internal/model"
)

// NewErrorHandler returns the terminal error handler. It maps known error
// shapes onto the taxonomy and returns the uniform envelope; anything
// unrecognized becomes a 500 with a generic message so internals never leak.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperror.From(err); ok {
			return c.Status(appErr.HTTPStatus).JSON(Response{
				Success: false,
				Message: appErr.Message,
			})
		}

		if errors.Is(err, model.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(Response{
				Success: false,
				Message: "Resource not found",
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Response{
				Success: false,
				Message: fiberErr.Message,
			})
		}

		log.Error("unhandled error",
			"path", c.Path(),
			"error", err.Error())

		return c.Status(fiber.StatusInternalServerError).JSON(Response{
			Success: false,
			Message: "Server Error",
		})
	}
}
