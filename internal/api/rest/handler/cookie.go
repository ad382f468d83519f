package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/davidldv/taskforge/internal/api/rest/middleware"
)

// CookieSettings controls the flags on the token cookie. Production requires
// Secure and SameSite=None because the SPA is served from another origin;
// development relaxes to Lax over plain HTTP.
type CookieSettings struct {
	Secure   bool
	SameSite string
	MaxAge   time.Duration
}

// NewCookieSettings derives cookie flags from the environment mode and the
// token lifetime.
func NewCookieSettings(production bool, tokenTTL time.Duration) CookieSettings {
	settings := CookieSettings{
		Secure:   production,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   tokenTTL,
	}
	if production {
		settings.SameSite = fiber.CookieSameSiteNoneMode
	}
	return settings
}

// setTokenCookie attaches the identity assertion as an HTTP-only cookie.
func setTokenCookie(c *fiber.Ctx, settings CookieSettings, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   settings.Secure,
		SameSite: settings.SameSite,
		MaxAge:   int(settings.MaxAge.Seconds()),
	})
}

// clearTokenCookie expires the token cookie. Safe to call without a session.
func clearTokenCookie(c *fiber.Ctx, settings CookieSettings) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		HTTPOnly: true,
		Secure:   settings.Secure,
		SameSite: settings.SameSite,
		Expires:  time.Unix(0, 0),
	})
}
