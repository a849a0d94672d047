package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"vidhub/internal/apperr"
	"vidhub/internal/hash"
	"vidhub/internal/logging"
	"vidhub/internal/media"
	"vidhub/internal/models"
	"vidhub/internal/repo"
	"vidhub/internal/tokens"
)

// AuthService owns the session-token lifecycle: credential verification,
// access/refresh issuance, rotation and revocation. Exactly one refresh
// token is valid per user: the value stored on the user row.
type AuthService struct {
	Repo          *repo.Repo
	Media         media.Store
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type RegisterInput struct {
	FullName   string
	Username   string
	Email      string
	Password   string
	Avatar     *Upload
	CoverImage *Upload
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var problems []string
	if in.FullName == "" {
		problems = append(problems, "fullName is required")
	}
	if in.Username == "" {
		problems = append(problems, "username is required")
	}
	if in.Email == "" {
		problems = append(problems, "email is required")
	}
	if strings.TrimSpace(in.Password) == "" {
		problems = append(problems, "password is required")
	}
	if in.Avatar == nil {
		problems = append(problems, "avatar file is required")
	}
	if len(problems) > 0 {
		return nil, apperr.Validation(problems...)
	}

	avatarURL, err := s.Media.Upload(ctx, "avatars", in.Avatar.Filename, in.Avatar.ContentType, in.Avatar.Body)
	if err != nil {
		l.Warn("avatar upload failed", "error", err)
		return nil, apperr.Validation("avatar upload failed")
	}

	coverURL := ""
	if in.CoverImage != nil {
		coverURL, err = s.Media.Upload(ctx, "covers", in.CoverImage.Filename, in.CoverImage.ContentType, in.CoverImage.Body)
		if err != nil {
			l.Warn("cover image upload failed", "error", err)
			return nil, apperr.Validation("cover image upload failed")
		}
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		FullName:      in.FullName,
		Username:      in.Username,
		Email:         in.Email,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
		PasswordHash:  pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	l.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "user_id", user.ID, "reason", "password mismatch")
		return nil, apperr.ErrInvalidCredentials
	}

	result, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateRefreshToken(ctx, user.ID, &result.RefreshToken); err != nil {
		return nil, err
	}

	l.Info("user logged in", "user_id", user.ID)
	return result, nil
}

// Logout clears the stored refresh token unconditionally; calling it twice
// is harmless.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.Repo.UpdateRefreshToken(ctx, userID, nil)
}

func (s *AuthService) Refresh(ctx context.Context, presented string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if strings.TrimSpace(presented) == "" {
		return nil, apperr.ErrUnauthorized
	}

	claims, err := tokens.ParseRefreshToken(presented, s.RefreshSecret)
	if err != nil {
		return nil, err
	}
	userID, err := tokens.UserID(&claims.RegisteredClaims)
	if err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		l.Warn("refresh token reuse detected", "user_id", user.ID)
		return nil, apperr.ErrTokenReuse
	}

	result, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	// Conditional rotation: a concurrent refresh that already rotated the
	// stored value makes this lose with ErrTokenReuse.
	if err := s.Repo.RotateRefreshToken(ctx, user.ID, presented, result.RefreshToken); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperr.Validation("new password is required")
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !hash.CheckPassword(user.PasswordHash, oldPassword) {
		return apperr.ErrInvalidCredentials
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePasswordHash(ctx, userID, pwHash)
}

func (s *AuthService) issuePair(user *models.User) (*LoginResult, error) {
	accessExp := time.Now().Add(s.AccessTTL)
	accessToken, err := tokens.SignAccessToken(user, s.AccessSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(s.RefreshTTL)
	refreshToken, err := tokens.SignRefreshToken(user.ID, s.RefreshSecret, refreshExp)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}
