package repogorm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lynkr/lynkr-server/users"
	"github.com/lynkr/lynkr-server/users/repogorm"
)

func newTestRepo(t *testing.T) *repogorm.Repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A fresh connection would get a fresh in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo, err := repogorm.New(db)
	require.NoError(t, err)
	return repo
}

func newUser(email, username string) *users.User {
	return &users.User{
		Name:         "Ada Lovelace",
		Email:        email,
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Role:         users.RoleUser,
	}
}

func TestNewRequiresDB(t *testing.T) {
	_, err := repogorm.New(nil)
	require.Error(t, err)
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ada := newUser("ada@example.com", "ada1234")
	require.NoError(t, repo.Create(ctx, ada))
	require.NotEmpty(t, ada.ID)

	grace := newUser("grace@example.com", "grace999")
	require.NoError(t, repo.Create(ctx, grace))
	require.NotEmpty(t, grace.ID)
	require.NotEqual(t, ada.ID, grace.ID)

	stored, err := repo.GetByID(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", stored.Email)
}

func TestCreateDistinguishesDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("ada@example.com", "ada1234")))

	err := repo.Create(ctx, newUser("ada@example.com", "other999"))
	require.ErrorIs(t, err, users.ErrDuplicateEmail)

	err = repo.Create(ctx, newUser("other@example.com", "ada1234"))
	require.ErrorIs(t, err, users.ErrDuplicateUsername)
}

func TestGetUnknownUserReturnsNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, users.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestSetVerifiedByIDReportsRowsAffected(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ada := newUser("ada@example.com", "ada1234")
	require.NoError(t, repo.Create(ctx, ada))

	rows, err := repo.SetVerifiedByID(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	stored, err := repo.GetByID(ctx, ada.ID)
	require.NoError(t, err)
	require.True(t, stored.Verified)
	require.NotNil(t, stored.VerifiedAt)

	// Already verified: zero rows, no error
	rows, err = repo.SetVerifiedByID(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), rows)

	rows, err = repo.SetVerifiedByID(ctx, "missing")
	require.NoError(t, err)
	require.Equal(t, int64(0), rows)
}
