package dto

import (
	"time"

	"github.com/noah-isme/ecoquest-api/internal/models"
)

// SignUpRequest registers a new account and its profile.
type SignUpRequest struct {
	Email      string      `json:"email" validate:"required,email"`
	Password   string      `json:"password" validate:"required,min=6"`
	FullName   string      `json:"full_name" validate:"required,max=200"`
	SchoolName *string     `json:"school_name" validate:"omitempty,max=200"`
	Role       models.Role `json:"role" validate:"required,role"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the issued access token and the caller's identity.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	IssuedAt    time.Time    `json:"issued_at"`
	User        models.Actor `json:"user"`
}
