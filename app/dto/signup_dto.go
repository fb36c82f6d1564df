package dto

import "time"

// SignupRequest represents the signup form data
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Password    string `json:"password" validate:"required,min=8,max=128,password_strength" example:"SecurePass123!"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100" example:"Jane Doe"`
}

// UserDTO represents user data for API responses
type UserDTO struct {
	ID              string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email           string     `json:"email" example:"jane@example.com"`
	DisplayName     string     `json:"display_name" example:"Jane Doe"`
	IsEmailVerified bool       `json:"is_email_verified" example:"false"`
	CanGenerate     bool       `json:"can_generate" example:"true"`
	CreatedAt       time.Time  `json:"created_at" example:"2025-07-01T10:30:00Z"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}
