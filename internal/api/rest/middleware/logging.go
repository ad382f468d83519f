package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/davidldv/taskforge/internal/logger"
)

// Logging logs every request with its method, path, status and duration.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle runs the rest of the chain and logs the outcome.
func (l *Logging) Handle(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	duration := time.Since(start)
	log := l.logger.With(
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration_ms", duration.Milliseconds(),
	)

	if err != nil {
		log.Error("request failed", "error", err.Error())
		return err
	}

	log.Info("request completed")

	return nil
}
