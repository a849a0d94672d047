package service

import (
	"context"
	"strings"

	"vidhub/internal/apperr"
	"vidhub/internal/logging"
	"vidhub/internal/media"
	"vidhub/internal/models"
	"vidhub/internal/repo"
)

// UserService covers everything outside the session lifecycle: account
// updates, channel profiles, subscriptions and watch history.
type UserService struct {
	Repo  *repo.Repo
	Media media.Store
}

// ChannelProfile is the viewer-aware aggregation over a channel. The counts
// come from real subscription rows.
type ChannelProfile struct {
	models.User
	SubscriberCount   int64 `json:"subscriberCount"`
	SubscribedToCount int64 `json:"subscribedToCount"`
	IsSubscribed      bool  `json:"isSubscribed"`
}

func (s *UserService) Profile(ctx context.Context, username string, viewerID uint) (*ChannelProfile, error) {
	user, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	subscribers, err := s.Repo.SubscriberCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.Repo.SubscribedToCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	isSubscribed := false
	if viewerID != 0 && viewerID != user.ID {
		isSubscribed, err = s.Repo.IsSubscribed(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ChannelProfile{
		User:              *user,
		SubscriberCount:   subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

func (s *UserService) ToggleSubscription(ctx context.Context, subscriberID uint, channelUsername string) (bool, error) {
	channel, err := s.Repo.FindByUsername(ctx, channelUsername)
	if err != nil {
		return false, err
	}
	if channel.ID == subscriberID {
		return false, apperr.Validation("cannot subscribe to your own channel")
	}
	return s.Repo.ToggleSubscription(ctx, subscriberID, channel.ID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))

	var problems []string
	if fullName == "" {
		problems = append(problems, "fullName is required")
	}
	if email == "" {
		problems = append(problems, "email is required")
	}
	if len(problems) > 0 {
		return nil, apperr.Validation(problems...)
	}

	if err := s.Repo.UpdateProfile(ctx, userID, fullName, email); err != nil {
		return nil, err
	}
	return s.Repo.GetUserByID(ctx, userID)
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, upload *Upload) (*models.User, error) {
	if upload == nil {
		return nil, apperr.Validation("avatar file is required")
	}

	url, err := s.Media.Upload(ctx, "avatars", upload.Filename, upload.ContentType, upload.Body)
	if err != nil {
		logging.FromContext(ctx).Warn("avatar upload failed", "user_id", userID, "error", err)
		return nil, apperr.Validation("avatar upload failed")
	}

	if err := s.Repo.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, err
	}
	return s.Repo.GetUserByID(ctx, userID)
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID uint, upload *Upload) (*models.User, error) {
	if upload == nil {
		return nil, apperr.Validation("cover image file is required")
	}

	url, err := s.Media.Upload(ctx, "covers", upload.Filename, upload.ContentType, upload.Body)
	if err != nil {
		logging.FromContext(ctx).Warn("cover image upload failed", "user_id", userID, "error", err)
		return nil, apperr.Validation("cover image upload failed")
	}

	if err := s.Repo.UpdateCoverImage(ctx, userID, url); err != nil {
		return nil, err
	}
	return s.Repo.GetUserByID(ctx, userID)
}

func (s *UserService) WatchHistory(ctx context.Context, userID uint, from, size int) ([]models.Video, error) {
	return s.Repo.WatchHistory(ctx, userID, from, size)
}

func (s *UserService) RecordWatch(ctx context.Context, userID, videoID uint) error {
	if _, err := s.Repo.GetVideoByID(ctx, videoID); err != nil {
		return err
	}
	return s.Repo.CreateWatchEvent(ctx, userID, videoID)
}
