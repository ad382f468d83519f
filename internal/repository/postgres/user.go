package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/davidldv/taskforge/internal/dbx"
	"github.com/davidldv/taskforge/internal/model"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, google_id, github_id, created_at, updated_at`

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email), "failed to get user by email")
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id), "failed to get user by id")
}

func (r *UserRepository) GetByProviderID(ctx context.Context, provider model.Provider, providerID string) (model.User, error) {
	column, err := providerColumn(provider)
	if err != nil {
		return model.User{}, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, providerID), "failed to get user by provider id")
}

// Create inserts the user inside a transaction, re-checking email uniqueness
// first so two concurrent sign-ups with the same email cannot both succeed.
// The unique index backstops the check: either path surfaces as
// model.ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	var saved model.User

	err := dbx.WithTx(ctx, r.db.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if user.Email != "" {
			var exists bool
			err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`,
				user.Email,
			).Scan(&exists)
			if err != nil {
				return fmt.Errorf("failed to check email existence: %w", err)
			}
			if exists {
				return model.ErrDuplicateEmail
			}
		}

		query := `INSERT INTO users (id, name, email, password_hash, google_id, github_id, created_at, updated_at)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				  RETURNING ` + userColumns

		var err error
		saved, err = scanUser(tx.QueryRowContext(ctx, query,
			user.ID, user.Name, nullable(user.Email), nullable(user.PasswordHash),
			nullable(user.GoogleID), nullable(user.GitHubID),
			user.CreatedAt, user.UpdatedAt,
		), "failed to create user")
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrDuplicateEmail
		}
		return model.User{}, err
	}

	return saved, nil
}

func (r *UserRepository) AttachProviderID(ctx context.Context, id uuid.UUID, provider model.Provider, providerID string) (model.User, error) {
	column, err := providerColumn(provider)
	if err != nil {
		return model.User{}, err
	}

	query := `UPDATE users SET ` + column + ` = $1, updated_at = now() WHERE id = $2
			  RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, providerID, id), "failed to attach provider id")
}

func providerColumn(provider model.Provider) (string, error) {
	switch provider {
	case model.ProviderGoogle:
		return "google_id", nil
	case model.ProviderGitHub:
		return "github_id", nil
	default:
		return "", fmt.Errorf("unknown provider %q", provider)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, failMsg string) (model.User, error) {
	var user model.User
	var email, passwordHash, googleID, githubID sql.NullString

	err := row.Scan(
		&user.ID, &user.Name, &email, &passwordHash, &googleID, &githubID,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("%s: %w", failMsg, err)
	}

	user.Email = email.String
	user.PasswordHash = passwordHash.String
	user.GoogleID = googleID.String
	user.GitHubID = githubID.String

	return user, nil
}

// nullable maps an empty string to NULL so sparse unique indexes stay sparse.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
