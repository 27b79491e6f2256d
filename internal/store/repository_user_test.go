package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockDB wraps a sqlmock connection into a PostgreSQL-dialect DB.
func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &DB{
		DB:                 db,
		dialect:            DialectPostgres,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}, mock
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return &userRepository{db: db, logger: logger.Nop()}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var userRowColumns = []string{"id", "email", "password", "name", "is_active", "is_staff", "is_superuser", "created_at"}

// ── CreateUser ───────────────────────────────────────────────────────────────

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	ctx := context.Background()

	user := models.User{
		Email:    "test@example.com",
		Password: "hash",
		Name:     "Test",
		IsActive: true,
	}
	now := time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Email, user.Password, user.Name, true, false, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))

	created, err := repo.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.UserID)
	assert.Equal(t, user.Email, created.Email)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(context.Background(), models.User{Email: "test@example.com"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestCreateUser_SQLiteUniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})

	_, err := repo.CreateUser(context.Background(), models.User{Email: "test@example.com"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(context.Background(), models.User{Email: "test@example.com"})
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrEmailAlreadyExists)
}

// ── FindUserByEmail / FindUserByID ───────────────────────────────────────────

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, email, password, name, is_active, is_staff, is_superuser, created_at FROM users WHERE email = \$1`).
		WithArgs("test@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(7, "test@example.com", "hash", "Test", true, false, false, now))

	found, err := repo.FindUserByEmail(context.Background(), "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), found.UserID)
	assert.Equal(t, "hash", found.Password)
	assert.True(t, found.IsActive)
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT id").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestFindUserByEmail_ScanError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1)) // wrong shape

	_, err := repo.FindUserByEmail(context.Background(), "test@example.com")
	assert.ErrorIs(t, err, ErrScanningRow)
}

func TestFindUserByID_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(3, "a@example.com", "hash", "", true, true, true, time.Now()))

	found, err := repo.FindUserByID(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, found.IsSuperuser)
}

// ── UpdateUser ───────────────────────────────────────────────────────────────

func TestUpdateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery(`UPDATE users SET name = \$1, password = \$2 WHERE id = \$3 RETURNING`).
		WithArgs("New Name", "newhash", int64(3)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(3, "a@example.com", "newhash", "New Name", true, false, false, time.Now()))

	updated, err := repo.UpdateUser(context.Background(), models.User{UserID: 3, Name: "New Name", Password: "newhash"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "a@example.com", updated.Email)
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("UPDATE users").WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateUser(context.Background(), models.User{UserID: 3})
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}
