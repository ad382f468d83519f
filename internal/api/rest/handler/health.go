package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports storage connectivity.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health handles the liveness endpoint.
type Health struct {
	db Pinger
}

// NewHealth creates a new Health handler.
func NewHealth(db Pinger) *Health {
	return &Health{db: db}
}

// Check reports 200 when the service and its database are reachable.
func (h *Health) Check(c *fiber.Ctx) error {
	if err := h.db.PingContext(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(Response{
			Success: false,
			Message: "database unreachable",
		})
	}

	return c.JSON(Response{
		Success: true,
		Message: "ok",
	})
}
