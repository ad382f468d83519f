package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/davidldv/taskforge/internal/apperror"
	"github.com/davidldv/taskforge/internal/logger"
	"github.com/davidldv/taskforge/internal/model"
)

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const (
	nameMinLength     = 3
	nameMaxLength     = 50
	passwordMinLength = 6
)

// Auth implements the local sign-up/sign-in flow and OAuth account linking.
type Auth struct {
	userStore model.UserStore
	hasher    PasswordHasher
	tokens    model.TokenManager
	logger    *logger.Logger
}

// NewAuth creates a new Auth service.
func NewAuth(userStore model.UserStore, hasher PasswordHasher, tokens model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		userStore: userStore,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
	}
}

// SignUp registers a new password-based account and issues a token for it.
// The email uniqueness check and the insert run in one transaction inside the
// store; a duplicate surfaces as a conflict regardless of which concurrent
// request loses the race.
func (a *Auth) SignUp(ctx context.Context, name, email, plaintext string) (model.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if err := validateSignUp(name, email, plaintext); err != nil {
		return model.User{}, "", err
	}

	hash, err := a.hasher.Hash(plaintext)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password", "error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			a.logger.Info("Auth service: email already in use", "email", email)
			return model.User{}, "", apperror.NewConflict("Email is already in use")
		}
		a.logger.Error("Auth service: failed to create user", "email", email, "error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID)

	return user.Sanitized(), token, nil
}

// SignIn verifies the password for the account with the given email and
// issues a token. Unknown emails and bad passwords are reported distinctly
// on purpose, an accepted enumeration trade-off.
func (a *Auth) SignIn(ctx context.Context, email, plaintext string) (model.User, string, error) {
	email = normalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, "", apperror.NewNotFound("User not found")
		}
		return model.User{}, "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.HasPassword() || !a.hasher.Verify(plaintext, user.PasswordHash) {
		a.logger.Info("Auth service: password verification failed", "user_id", user.ID)
		return model.User{}, "", apperror.NewUnauthorized("Invalid password")
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user.Sanitized(), token, nil
}

// GetUser resolves a user by id with the password hash stripped. It backs
// both the profile endpoint and the session middleware.
func (a *Auth) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user.Sanitized(), nil
}

// ResolveExternalProfile maps a provider-asserted profile onto a user record:
// an existing link wins, then an email match gets the provider id attached
// (the provider is trusted to have verified the email), and otherwise a new
// password-less account is created.
func (a *Auth) ResolveExternalProfile(ctx context.Context, provider model.Provider, profile model.ExternalProfile) (model.User, error) {
	user, err := a.userStore.GetByProviderID(ctx, provider, profile.ProviderID)
	if err == nil {
		return user.Sanitized(), nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, fmt.Errorf("failed to get user by provider id: %w", err)
	}

	if profile.Email != "" {
		existing, err := a.userStore.GetByEmail(ctx, normalizeEmail(profile.Email))
		if err == nil {
			linked, err := a.userStore.AttachProviderID(ctx, existing.ID, provider, profile.ProviderID)
			if err != nil {
				return model.User{}, fmt.Errorf("failed to attach provider id: %w", err)
			}
			a.logger.Info("Auth service: linked provider to existing account",
				"user_id", linked.ID,
				"provider", provider)
			return linked.Sanitized(), nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
		}
	}

	now := time.Now()
	user = model.User{
		ID:        uuid.New(),
		Name:      displayName(profile),
		Email:     normalizeEmail(profile.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch provider {
	case model.ProviderGoogle:
		user.GoogleID = profile.ProviderID
	case model.ProviderGitHub:
		user.GitHubID = profile.ProviderID
	default:
		return model.User{}, fmt.Errorf("unknown provider %q", provider)
	}

	created, err := a.userStore.Create(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user from provider profile: %w", err)
	}

	a.logger.Info("Auth service: created user from provider profile",
		"user_id", created.ID,
		"provider", provider)

	return created.Sanitized(), nil
}

func validateSignUp(name, email, plaintext string) error {
	if length := utf8.RuneCountInString(name); length < nameMinLength || length > nameMaxLength {
		return apperror.NewValidation(fmt.Sprintf("Name must be between %d and %d characters long", nameMinLength, nameMaxLength))
	}
	if !emailPattern.MatchString(email) {
		return apperror.NewValidation("Please provide a valid email address")
	}
	if len(plaintext) < passwordMinLength {
		return apperror.NewValidation(fmt.Sprintf("Password must be at least %d characters long", passwordMinLength))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func displayName(profile model.ExternalProfile) string {
	if name := strings.TrimSpace(profile.DisplayName); name != "" {
		return name
	}
	if profile.Email != "" {
		return profile.Email
	}
	return "Unknown User"
}
