package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lynkr/lynkr-server/users"
	fakeuserrepo "github.com/lynkr/lynkr-server/users/repofake"
)

func newUser(email, username string) *users.User {
	return &users.User{
		Name:         "Ada Lovelace",
		Email:        email,
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Role:         users.RoleUser,
	}
}

func TestCreateAssignsIDAndRoundTrips(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	ctx := context.Background()

	user := newUser("ada@example.com", "ada1234")
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)
}

func TestCreateDistinguishesDuplicates(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("ada@example.com", "ada1234")))

	err := repo.Create(ctx, newUser("ada@example.com", "other999"))
	require.ErrorIs(t, err, users.ErrDuplicateEmail)

	err = repo.Create(ctx, newUser("other@example.com", "ada1234"))
	require.ErrorIs(t, err, users.ErrDuplicateUsername)
}

func TestGetUnknownUserReturnsNotFound(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, users.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestSetVerifiedByIDIsIdempotent(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	ctx := context.Background()

	user := newUser("ada@example.com", "ada1234")
	require.NoError(t, repo.Create(ctx, user))

	rows, err := repo.SetVerifiedByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	verified, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, verified.Verified)
	require.NotNil(t, verified.VerifiedAt)

	// Second update touches nothing; that is not an error
	rows, err = repo.SetVerifiedByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), rows)

	rows, err = repo.SetVerifiedByID(ctx, "missing")
	require.NoError(t, err)
	require.Equal(t, int64(0), rows)
}

func TestSafeUserOmitsSecrets(t *testing.T) {
	user := newUser("ada@example.com", "ada1234")
	user.ID = "user-1"
	user.Verified = true

	safe := user.Safe()
	require.Equal(t, "user-1", safe.ID)
	require.Equal(t, "ada1234", safe.Username)
	require.True(t, safe.Verified)
}
