package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vidhub/internal/apperr"
	"vidhub/internal/models"
)

func TestCreateUserDuplicateIdentity(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedUser(t, r, "ada", "ada@x.com")

	sameUsername := &models.User{
		Username:     "ada",
		Email:        "other@x.com",
		FullName:     "Other",
		AvatarURL:    "u",
		PasswordHash: "h",
	}
	require.ErrorIs(t, r.CreateUser(ctx, sameUsername), apperr.ErrDuplicateIdentity)

	sameEmail := &models.User{
		Username:     "other",
		Email:        "ada@x.com",
		FullName:     "Other",
		AvatarURL:    "u",
		PasswordHash: "h",
	}
	require.ErrorIs(t, r.CreateUser(ctx, sameEmail), apperr.ErrDuplicateIdentity)
}

func TestFindByUsernameOrEmail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seeded := seedUser(t, r, "ada", "ada@x.com")

	byUsername, err := r.FindByUsernameOrEmail(ctx, "ada")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, byUsername.ID)

	byEmail, err := r.FindByUsernameOrEmail(ctx, "ADA@X.COM")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, byEmail.ID)

	_, err = r.FindByUsernameOrEmail(ctx, "nobody")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRotateRefreshTokenCompareAndSet(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "ada", "ada@x.com")

	first := "refresh-token-1"
	require.NoError(t, r.UpdateRefreshToken(ctx, user.ID, &first))

	require.NoError(t, r.RotateRefreshToken(ctx, user.ID, "refresh-token-1", "refresh-token-2"))

	// The rotated-out value no longer matches the stored one.
	err := r.RotateRefreshToken(ctx, user.ID, "refresh-token-1", "refresh-token-3")
	require.ErrorIs(t, err, apperr.ErrTokenReuse)

	stored, err := r.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	require.Equal(t, "refresh-token-2", *stored.RefreshToken)
}

func TestRotateRefreshTokenAfterLogout(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "ada", "ada@x.com")

	token := "refresh-token-1"
	require.NoError(t, r.UpdateRefreshToken(ctx, user.ID, &token))
	require.NoError(t, r.UpdateRefreshToken(ctx, user.ID, nil))

	err := r.RotateRefreshToken(ctx, user.ID, "refresh-token-1", "refresh-token-2")
	require.ErrorIs(t, err, apperr.ErrTokenReuse)
}

func TestUpdateProfileLeavesPasswordHash(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "ada", "ada@x.com")

	require.NoError(t, r.UpdateProfile(ctx, user.ID, "Ada L.", "ada+new@x.com"))

	updated, err := r.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada L.", updated.FullName)
	require.Equal(t, "ada+new@x.com", updated.Email)
	require.Equal(t, user.PasswordHash, updated.PasswordHash)
}

func TestUpdatePasswordHash(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "ada", "ada@x.com")

	require.NoError(t, r.UpdatePasswordHash(ctx, user.ID, "new-hash"))

	updated, err := r.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", updated.PasswordHash)
	require.Equal(t, user.Username, updated.Username)
}
