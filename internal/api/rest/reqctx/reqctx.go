// Package reqctx binds the authenticated user to the request and hands it to
// downstream handlers. The binding lives in fiber locals and is discarded
// with the request.
package reqctx

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidldv/taskforge/internal/model"
)

// userKey is the locals key holding the authenticated user.
const userKey = "authenticated_user"

// SetUser binds the resolved user to the request.
func SetUser(c *fiber.Ctx, user model.User) {
	c.Locals(userKey, user)
}

// User retrieves the authenticated user bound by the session middleware.
func User(c *fiber.Ctx) (model.User, bool) {
	user, ok := c.Locals(userKey).(model.User)
	return user, ok
}
