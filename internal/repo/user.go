package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"vidhub/internal/apperr"
	"vidhub/internal/models"
)

func (r *Repo) FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	var user models.User
	if err := r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", u.Username, u.Email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.ErrDuplicateIdentity
	}
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrDuplicateIdentity
		}
		return err
	}
	return nil
}

// UpdateRefreshToken sets or clears the stored refresh token. A nil token
// clears it (logout); the call is idempotent.
func (r *Repo) UpdateRefreshToken(ctx context.Context, userID uint, token *string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).Error
}

// RotateRefreshToken replaces the stored refresh token only if the presented
// value still matches: the compare-and-set that keeps two concurrent refresh
// calls from both succeeding. Zero affected rows means the presented token
// has already been rotated out.
func (r *Repo) RotateRefreshToken(ctx context.Context, userID uint, presented, next string) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", userID, presented).
		Update("refresh_token", next)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrTokenReuse
	}
	return nil
}

func (r *Repo) UpdatePasswordHash(ctx context.Context, userID uint, hash string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}

func (r *Repo) UpdateProfile(ctx context.Context, userID uint, fullName, email string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"full_name": fullName, "email": email}).Error
}

func (r *Repo) UpdateAvatar(ctx context.Context, userID uint, url string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_url", url).Error
}

func (r *Repo) UpdateCoverImage(ctx context.Context, userID uint, url string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("cover_image_url", url).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
