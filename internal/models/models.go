package models

import (
	"time"
)

type User struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username      string    `gorm:"uniqueIndex;not null"     json:"username"`
	Email         string    `gorm:"uniqueIndex;not null"     json:"email"`
	FullName      string    `gorm:"not null"                 json:"fullName"`
	AvatarURL     string    `gorm:"not null"                 json:"avatarUrl"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	PasswordHash  string    `gorm:"not null"                 json:"-"`
	RefreshToken  *string   `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Subscription struct {
	ID           uint      `gorm:"primaryKey"                              json:"id"`
	SubscriberID uint      `gorm:"not null;uniqueIndex:idx_sub_pair"       json:"subscriberId"`
	ChannelID    uint      `gorm:"index;not null;uniqueIndex:idx_sub_pair" json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Video struct {
	ID           uint      `gorm:"primaryKey"     json:"id"`
	OwnerID      uint      `gorm:"index;not null" json:"ownerId"`
	Title        string    `gorm:"not null"       json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `gorm:"not null"       json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Views        uint      `gorm:"default:0"      json:"views"`
	CreatedAt    time.Time `json:"createdAt"`
}

type WatchEvent struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	VideoID   uint      `gorm:"index;not null" json:"videoId"`
	WatchedAt time.Time `gorm:"autoCreateTime" json:"watchedAt"`
}
