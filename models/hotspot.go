package models

import (
	"time"

	"gorm.io/gorm"
)

type HotSpot struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"not null"`
	Active        bool           `json:"active" gorm:"default:true"`
	TrafficStatus string         `json:"traffic_status" gorm:"default:fluide"` // embouteille, fluide, dense
	Latitude      *float64       `json:"latitude,omitempty"`
	Longitude     *float64       `json:"longitude,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}
