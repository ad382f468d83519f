// Package server wraps the fiber application in a model.Server with listener
// selection and graceful shutdown.
package server

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/davidldv/taskforge/internal/model"
)

// HTTPServer serves the REST API on a listener produced by a SecurityLayer.
type HTTPServer struct {
	app  *fiber.App
	addr string
}

var _ model.Server = (*HTTPServer)(nil)

// NewHTTPServer creates a new HTTPServer for the given fiber app and address.
func NewHTTPServer(app *fiber.App, addr string) *HTTPServer {
	return &HTTPServer{app: app, addr: addr}
}

// Start accepts connections until Stop is called. It blocks.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	ln, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	return s.app.Listener(ln)
}

// Stop drains in-flight requests and shuts the server down, honoring the
// context deadline.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Address returns the configured listen address.
func (s *HTTPServer) Address() string {
	return s.addr
}
