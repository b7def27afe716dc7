package models

import (
	"time"
)

// Token is the opaque bearer credential presented as "Authorization: Token <key>".
// Each user holds at most one token; repeated logins return the same key.
type Token struct {
	Key       string    `gorm:"type:varchar(64);primarykey" json:"key"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
