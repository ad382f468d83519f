package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/davidldv/taskforge/internal/api/rest/reqctx"
	"github.com/davidldv/taskforge/internal/apperror"
	"github.com/davidldv/taskforge/internal/logger"
	"github.com/davidldv/taskforge/internal/model"
	"github.com/davidldv/taskforge/internal/oauth"
)

// AuthService defines sign-up, sign-in and account resolution operations.
type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) (model.User, string, error)
	SignIn(ctx context.Context, email, password string) (model.User, string, error)
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	ResolveExternalProfile(ctx context.Context, provider model.Provider, profile model.ExternalProfile) (model.User, error)
}

// Auth handles the authentication endpoints.
type Auth struct {
	authService AuthService
	tokens      model.TokenManager
	providers   oauth.Registry
	states      *oauth.StateStore
	cookies     CookieSettings
	frontendURL string
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(
	authService AuthService,
	tokens model.TokenManager,
	providers oauth.Registry,
	states *oauth.StateStore,
	cookies CookieSettings,
	frontendURL string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService: authService,
		tokens:      tokens,
		providers:   providers,
		states:      states,
		cookies:     cookies,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// SignUp registers a new account and starts its session.
func (h *Auth) SignUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	user, token, err := h.authService.SignUp(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	setTokenCookie(c, h.cookies, token)

	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: "User registered successfully",
		Data: fiber.Map{
			"user":  toUserJSON(user),
			"token": token,
		},
	})
}

// SignIn verifies credentials and starts a session.
func (h *Auth) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	user, token, err := h.authService.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setTokenCookie(c, h.cookies, token)

	return c.JSON(Response{
		Success: true,
		Message: "User signed in successfully",
		Data: fiber.Map{
			"user":  toUserJSON(user),
			"token": token,
		},
	})
}

// SignOut clears the session cookie. Idempotent.
func (h *Auth) SignOut(c *fiber.Ctx) error {
	clearTokenCookie(c, h.cookies)

	return c.JSON(Response{
		Success: true,
		Message: "User signed out successfully",
	})
}

// Profile returns the authenticated user.
func (h *Auth) Profile(c *fiber.Ctx) error {
	user, ok := reqctx.User(c)
	if !ok {
		return apperror.NewUnauthorized("User not authenticated")
	}

	return c.JSON(Response{
		Success: true,
		Data:    toUserJSON(user),
	})
}

// ProviderRedirect starts the OAuth handshake by redirecting the browser to
// the provider's authorization endpoint.
func (h *Auth) ProviderRedirect(c *fiber.Ctx) error {
	provider, ok := h.providers.Get(model.Provider(c.Params("provider")))
	if !ok {
		return apperror.NewNotFound("Unknown provider")
	}

	state, err := h.states.Create(provider.Name)
	if err != nil {
		h.logger.Error("Auth handler: failed to create handshake state", "error", err.Error())
		return apperror.NewInternal()
	}

	return c.Redirect(provider.AuthCodeURL(state), fiber.StatusFound)
}

// ProviderCallback terminates the OAuth handshake: it validates the state,
// exchanges the code, resolves the asserted profile onto a user, starts the
// session and redirects the browser to the frontend. No JSON body is
// returned on this path.
func (h *Auth) ProviderCallback(c *fiber.Ctx) error {
	provider, ok := h.providers.Get(model.Provider(c.Params("provider")))
	if !ok {
		return apperror.NewNotFound("Unknown provider")
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return apperror.NewValidation("Missing code or state")
	}

	if err := h.states.Consume(provider.Name, state); err != nil {
		return apperror.NewUnauthorized("Authorization failed")
	}

	accessToken, err := provider.Exchange(c.UserContext(), code)
	if err != nil {
		h.logger.Error("Auth handler: code exchange failed",
			"provider", provider.Name,
			"error", err.Error())
		return apperror.NewUnauthorized("Authorization failed")
	}

	profile, err := provider.FetchProfile(c.UserContext(), accessToken)
	if err != nil {
		h.logger.Error("Auth handler: profile fetch failed",
			"provider", provider.Name,
			"error", err.Error())
		return apperror.NewUnauthorized("Authorization failed")
	}

	user, err := h.authService.ResolveExternalProfile(c.UserContext(), provider.Name, profile)
	if err != nil {
		return err
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("Auth handler: failed to issue token", "error", err.Error())
		return apperror.NewInternal()
	}

	setTokenCookie(c, h.cookies, token)

	return c.Redirect(h.frontendURL, fiber.StatusFound)
}
