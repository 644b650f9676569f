package models

import (
	"time"

	"gorm.io/gorm"
)

// ScheduledVideo binds a video to a broadcast window at its hot spot.
// The window is [ScheduledAt, ScheduledAt+DurationSeconds); IsLive is an
// admin-toggled override that forces the entry to count as playing
// regardless of the window.
type ScheduledVideo struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	VideoID         uint            `json:"video_id" gorm:"not null"`
	Video           *Video          `json:"video,omitempty" gorm:"foreignKey:VideoID"`
	ScheduledAt     time.Time       `json:"scheduled_at" gorm:"not null"`
	DurationSeconds int             `json:"duration_seconds" gorm:"default:0"`
	IsLive          bool            `json:"is_live" gorm:"default:false"`
	TrafficStatus   string          `json:"traffic_status,omitempty"` // optional override for the hot spot
	StartTime       *VideoStartTime `json:"start_time,omitempty" gorm:"foreignKey:ScheduledVideoID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// VideoStartTime records when playback actually began, as opposed to the
// planned ScheduledAt. Written once, on the first go-live toggle.
type VideoStartTime struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ScheduledVideoID uint      `json:"scheduled_video_id" gorm:"uniqueIndex;not null"`
	StartedAt        time.Time `json:"started_at" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
}
