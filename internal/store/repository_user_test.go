package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"user_id", "login", "password_hash", "created_at"}

func newTestUserRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewUserRepository(newDBFromSQL(db), logger.Nop()), mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("john", "hash", testNow).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1))

	created, err := repo.CreateUser(testContext(), models.User{Login: "john", Password: "secret", PasswordHash: "hash"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.UserID)
	assert.Empty(t, created.Password)
	assert.Equal(t, testNow, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{name: "login taken", code: pgerrcode.UniqueViolation, want: ErrLoginAlreadyExists},
		{name: "broken statement", code: pgerrcode.SyntaxError, want: ErrExecutingStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t)
			mock.ExpectQuery("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: tt.code})

			_, err := repo.CreateUser(testContext(), models.User{Login: "john", PasswordHash: "hash"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserRepository_FindUserByLogin(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT user_id, login, password_hash, created_at FROM users WHERE login = ").
		WithArgs("john").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(5), "john", "hash", testNow))
	mock.ExpectQuery("FROM users WHERE login = ").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userColumns))

	found, err := repo.FindUserByLogin(testContext(), "john")
	require.NoError(t, err)
	assert.Equal(t, models.User{UserID: 5, Login: "john", PasswordHash: "hash", CreatedAt: testNow}, found)

	_, err = repo.FindUserByLogin(testContext(), "ghost")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestUserRepository_Exists(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT 1 FROM users WHERE user_id = ").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM users WHERE user_id = ").
		WithArgs(int64(43)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	known, err := repo.Exists(testContext(), 42)
	require.NoError(t, err)
	assert.True(t, known)

	unknown, err := repo.Exists(testContext(), 43)
	require.NoError(t, err)
	assert.False(t, unknown)
}

func TestUserRepository_Exists_StorageDown(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	for range 3 {
		mock.ExpectQuery("SELECT 1 FROM users").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ConnectionFailure})
	}

	_, err := repo.Exists(testContext(), 42)

	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
