package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	tasksrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	createErr error
	getOut    *models.User
	getErr    error

	created *models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = 1
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRepoManager struct {
	users usersrepo.Repository
	tasks tasksrepo.Repository
}

func (f *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return f.users }
func (f *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository             { return f.tasks }

func newUserService(t *testing.T, db *sql.DB, repo usersrepo.Repository) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
	return NewUserService(db, &fakeRepoManager{users: repo}, cfg)
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeUsersRepo{}
	svc := newUserService(t, db, repo)

	u, err := svc.Register(context.Background(), "A", "a@x.com", "12345678")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.NotEqual(t, "12345678", u.PasswordHash, "password must be stored hashed")
	assert.True(t, auth.CheckPassword("12345678", u.PasswordHash))
}

func TestRegister_LongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeUsersRepo{}
	svc := newUserService(t, db, repo)

	// 90 chars passes validation (max 100) but exceeds bcrypt's 72-byte
	// key limit; registration and the subsequent login must still work
	password := strings.Repeat("a", 90)

	u, err := svc.Register(context.Background(), "A", "a@x.com", password)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(password, u.PasswordHash))

	repo.getOut = u
	_, user, err := svc.Login(context.Background(), "a@x.com", password)
	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)
}

func TestRegister_ValidationErrors(t *testing.T) {
	db, _ := newSQLMockDB(t)
	svc := newUserService(t, db, &fakeUsersRepo{})

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "a@x.com", "12345678"},
		{"name too long", string(make([]byte, 256)), "a@x.com", "12345678"},
		{"bad email", "A", "not-an-email", "12345678"},
		{"email with spaces", "A", "a b@x.com", "12345678"},
		{"short password", "A", "a@x.com", "1234567"},
		{"long password", "A", "a@x.com", string(make([]byte, 101))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.userName, tc.email, tc.password)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	svc := newUserService(t, db, &fakeUsersRepo{createErr: common.ErrorAlreadyExists})

	_, err := svc.Register(context.Background(), "A", "a@x.com", "12345678")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)

	hash, err := auth.HashPassword("12345678")
	require.NoError(t, err)
	repo := &fakeUsersRepo{getOut: &models.User{ID: 7, Name: "A", Email: "a@x.com", PasswordHash: hash}}
	svc := newUserService(t, db, repo)

	token, user, err := svc.Login(context.Background(), "a@x.com", "12345678")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)

	claims, err := auth.ParseToken(token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "A", claims.Name)
}

func TestLogin_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)

	hash, err := auth.HashPassword("12345678")
	require.NoError(t, err)
	repo := &fakeUsersRepo{getOut: &models.User{ID: 7, Email: "a@x.com", PasswordHash: hash}}
	svc := newUserService(t, db, repo)

	_, _, err = svc.Login(context.Background(), "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	svc := newUserService(t, db, &fakeUsersRepo{getErr: common.ErrorNotFound})

	_, _, err := svc.Login(context.Background(), "nobody@x.com", "12345678")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_MissingFields(t *testing.T) {
	db, _ := newSQLMockDB(t)
	svc := newUserService(t, db, &fakeUsersRepo{})

	_, _, err := svc.Login(context.Background(), "", "12345678")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, _, err = svc.Login(context.Background(), "a@x.com", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}
