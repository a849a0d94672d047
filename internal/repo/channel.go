package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"vidhub/internal/apperr"
	"vidhub/internal/models"
)

func (r *Repo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repo) SubscriberCount(ctx context.Context, channelID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}

func (r *Repo) SubscribedToCount(ctx context.Context, subscriberID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	return count, err
}

func (r *Repo) IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

// ToggleSubscription flips the subscriber/channel pair and reports whether a
// subscription exists afterwards.
func (r *Repo) ToggleSubscription(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	subscribed := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
			Delete(&models.Subscription{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		subscribed = true
		return tx.Create(&models.Subscription{
			SubscriberID: subscriberID,
			ChannelID:    channelID,
		}).Error
	})
	return subscribed, err
}

func (r *Repo) GetVideoByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := r.DB.WithContext(ctx).First(&video, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *Repo) CreateWatchEvent(ctx context.Context, userID, videoID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.WatchEvent{UserID: userID, VideoID: videoID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Video{}).
			Where("id = ?", videoID).
			Update("views", gorm.Expr("views + 1")).Error
	})
}

func (r *Repo) WatchHistory(ctx context.Context, userID uint, from, size int) ([]models.Video, error) {
	var videos []models.Video
	err := r.DB.WithContext(ctx).
		Joins("JOIN watch_events ON watch_events.video_id = videos.id").
		Where("watch_events.user_id = ?", userID).
		Order("watch_events.watched_at DESC").
		Offset(from).
		Limit(size).
		Find(&videos).Error
	return videos, err
}
