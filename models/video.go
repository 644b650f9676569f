package models

import (
	"time"

	"gorm.io/gorm"
)

// Video status workflow: a relay upload starts as "pending", an admin moves
// it to "approved" or "rejected", scheduling moves it to "scheduled" and the
// go-live toggle to "live". Unscheduling reverts it to "approved".
const (
	VideoStatusPending   = "pending"
	VideoStatusApproved  = "approved"
	VideoStatusRejected  = "rejected"
	VideoStatusScheduled = "scheduled"
	VideoStatusLive      = "live"
)

type Video struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	FilePath    string         `json:"file_path" gorm:"not null"`
	Status      string         `json:"status" gorm:"default:pending"`
	UploaderID  uint           `json:"uploader_id" gorm:"not null"`
	Uploader    *User          `json:"uploader,omitempty" gorm:"foreignKey:UploaderID"`
	HotSpotID   *uint          `json:"hot_spot_id,omitempty"`
	HotSpot     *HotSpot       `json:"hot_spot,omitempty" gorm:"foreignKey:HotSpotID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
