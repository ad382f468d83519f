package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidldv/taskforge/internal/model"
)

func newMockConnection(t *testing.T) (*Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Connection{DB: db}, mock
}

func userRow(user model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "google_id", "github_id", "created_at", "updated_at",
	}).AddRow(
		user.ID.String(), user.Name, user.Email, user.PasswordHash,
		user.GoogleID, user.GitHubID, user.CreatedAt, user.UpdatedAt,
	)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	want := model.User{
		ID:        uuid.New(),
		Name:      "Ann Lee",
		Email:     "ann@example.com",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("ann@example.com").
		WillReturnRows(userRow(want))

	got, err := repo.GetByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Email, got.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_Create_CommitsTransaction(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	user := model.User{
		ID:           uuid.New(),
		Name:         "Ann Lee",
		Email:        "ann@example.com",
		PasswordHash: "digest",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(userRow(user))
	mock.ExpectCommit()

	got, err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmailRollsBack(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	user := model.User{ID: uuid.New(), Name: "Ann Lee", Email: "ann@example.com"}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolationBackstop(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	// The transactional existence check can still lose to a concurrent
	// insert; the unique index error must surface as the same conflict.
	user := model.User{ID: uuid.New(), Name: "Ann Lee", Email: "ann@example.com"}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_SkipsEmailCheckWithoutEmail(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	// Provider-created account without a disclosed email.
	user := model.User{ID: uuid.New(), Name: "Ann Lee", GitHubID: "gh-7"}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(userRow(user))
	mock.ExpectCommit()

	got, err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "gh-7", got.GitHubID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_AttachProviderID(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewUserRepository(conn)

	user := model.User{ID: uuid.New(), Name: "Ann Lee", Email: "ann@example.com", GoogleID: "g-123"}

	mock.ExpectQuery("UPDATE users SET google_id").
		WithArgs("g-123", user.ID).
		WillReturnRows(userRow(user))

	got, err := repo.AttachProviderID(context.Background(), user.ID, model.ProviderGoogle, "g-123")
	require.NoError(t, err)
	assert.Equal(t, "g-123", got.GoogleID)
}

func TestUserRepository_GetByProviderID_UnknownProvider(t *testing.T) {
	conn, _ := newMockConnection(t)
	repo := NewUserRepository(conn)

	_, err := repo.GetByProviderID(context.Background(), model.Provider("gitlab"), "x")
	require.Error(t, err)
}
