package models

import (
	"time"

	"gorm.io/gorm"
)

// Incident is a citizen-reported traffic event (accident, roadwork, jam).
type Incident struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Type        string         `json:"type" gorm:"not null"` // accident, travaux, embouteillage, autre
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Latitude    *float64       `json:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	ReporterID  uint           `json:"reporter_id" gorm:"not null"`
	Reporter    *User          `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	Likes       int            `json:"likes" gorm:"default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// IncidentReaction keeps one row per user per incident so a like cannot be
// counted twice.
type IncidentReaction struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	IncidentID uint      `json:"incident_id" gorm:"not null;uniqueIndex:idx_incident_user"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_incident_user"`
	CreatedAt  time.Time `json:"created_at"`
}
