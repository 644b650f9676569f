package models

import (
	"time"

	"gorm.io/gorm"
)

// Announcement is a police/municipal notice shown to all citizens.
type Announcement struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"not null"`
	Body      string         `json:"body" gorm:"not null"`
	Category  string         `json:"category" gorm:"default:info"` // info, alerte, circulation
	AuthorID  uint           `json:"author_id"`
	Author    *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
