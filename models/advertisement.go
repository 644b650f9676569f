package models

import (
	"time"

	"gorm.io/gorm"
)

type Advertisement struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"not null"`
	ImageURL  string         `json:"image_url"`
	TargetURL string         `json:"target_url"`
	Active    bool           `json:"active" gorm:"default:true"`
	StartsAt  *time.Time     `json:"starts_at,omitempty"`
	EndsAt    *time.Time     `json:"ends_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
