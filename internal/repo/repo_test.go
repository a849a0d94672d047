package repo

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vidhub/internal/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Video{},
		&models.WatchEvent{},
	))
	return New(db)
}

func seedUser(t *testing.T, r *Repo, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		AvatarURL:    "https://cdn.example.com/avatars/a.png",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
	}
	require.NoError(t, r.DB.Create(user).Error)
	return user
}
