package models

import (
	"time"
)

// User is an account that owns audiences and jobs
type User struct {
	ID              string `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	PasswordHash    string `gorm:"size:255;not null" json:"-"` // Never serialize password hash
	DisplayName     string `gorm:"size:100;not null" json:"display_name"`
	IsEmailVerified bool   `gorm:"not null" json:"is_email_verified"`

	// Timestamps
	CreatedAt   time.Time  `gorm:"not null;index:idx_users_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID    *string
	Email *string
}
