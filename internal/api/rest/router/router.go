// Package router assembles the fiber application: middleware chain, route
// groups and the terminal error handler.
package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidldv/taskforge/internal/api/rest/handler"
	"github.com/davidldv/taskforge/internal/api/rest/middleware"
	"github.com/davidldv/taskforge/internal/logger"
)

// Router builds the HTTP application from its handlers.
type Router struct {
	authHandler   *handler.Auth
	taskHandler   *handler.Task
	healthHandler *handler.Health
	authenticate  *middleware.Authenticate
	logger        *logger.Logger
}

// New creates a new Router.
func New(
	authHandler *handler.Auth,
	taskHandler *handler.Task,
	healthHandler *handler.Health,
	authenticate *middleware.Authenticate,
	logger *logger.Logger,
) *Router {
	return &Router{
		authHandler:   authHandler,
		taskHandler:   taskHandler,
		healthHandler: healthHandler,
		authenticate:  authenticate,
		logger:        logger,
	}
}

// Register builds the fiber app with all middleware and routes.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.NewErrorHandler(r.logger),
		DisableStartupMessage: true,
	})

	app.Use(middleware.NewLogging(r.logger).Handle)

	app.Get("/health", r.healthHandler.Check)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/sign-up", r.authHandler.SignUp)
	auth.Post("/sign-in", r.authHandler.SignIn)
	auth.Post("/sign-out", r.authHandler.SignOut)
	auth.Get("/profile", r.authenticate.Handle, r.authHandler.Profile)
	auth.Get("/:provider", r.authHandler.ProviderRedirect)
	auth.Get("/:provider/callback", r.authHandler.ProviderCallback)

	tasks := api.Group("/tasks", r.authenticate.Handle)
	tasks.Post("/", r.taskHandler.Create)
	tasks.Get("/", r.taskHandler.List)
	tasks.Get("/:id", r.taskHandler.Get)
	tasks.Put("/:id", r.taskHandler.Update)
	tasks.Delete("/:id", r.taskHandler.Delete)

	return app
}
