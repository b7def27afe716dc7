package models

import (
	"time"
)

type Task struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// DateCreated is stamped server-side on create and never changes afterwards.
	DateCreated   time.Time  `gorm:"not null" json:"date_created"`
	DateDue       *time.Time `json:"date_due"`
	DateCompleted *time.Time `json:"date_completed"`
	IsCompleted   bool       `gorm:"not null;default:false" json:"is_completed"`
	UserID        uint64     `gorm:"not null;index" json:"user_id"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
