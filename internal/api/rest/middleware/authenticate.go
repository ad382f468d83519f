package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/davidldv/taskforge/internal/api/rest/reqctx"
	"github.com/davidldv/taskforge/internal/logger"
	"github.com/davidldv/taskforge/internal/model"
)

// TokenCookieName is the cookie carrying the identity assertion.
const TokenCookieName = "token"

// TokenParser validates identity assertions.
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// UserResolver loads the sanitized user for a verified token.
type UserResolver interface {
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
}

// Authenticate verifies the request's identity assertion and binds the
// resolved user to the request. Every protected route passes through it; the
// multi-tenant invariant ("a user only sees their own tasks") starts here.
type Authenticate struct {
	tokens TokenParser
	users  UserResolver
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware.
func NewAuthenticate(tokens TokenParser, users UserResolver, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, users: users, logger: logger}
}

// Handle rejects with 401 unless a valid token resolves to an existing user.
func (m *Authenticate) Handle(c *fiber.Ctx) error {
	tokenString := extractToken(c)
	if tokenString == "" {
		return unauthorized(c, "No token provided, authorization denied")
	}

	userID, err := m.tokens.Parse(tokenString)
	if err != nil {
		// The parse error does not distinguish bad signature from expiry;
		// neither does the response.
		return unauthorized(c, "Authorization failed")
	}

	user, err := m.users.GetUser(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return unauthorized(c, "User not found, authorization denied")
		}
		m.logger.Error("Authenticate middleware: failed to resolve user",
			"user_id", userID,
			"error", err.Error())
		return unauthorized(c, "Authorization failed")
	}

	reqctx.SetUser(c, user)

	return c.Next()
}

// extractToken prefers the HTTP-only cookie and falls back to a bearer
// authorization header for non-cookie clients.
func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(TokenCookieName); cookie != "" {
		return cookie
	}

	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
