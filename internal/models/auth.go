package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	FullName       string   `json:"full_name"`
	Role           UserRole `json:"role"`
	PlatformID     *string  `json:"platform_id,omitempty"`
	OrganizationID *string  `json:"organization_id,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. Platform and
// organization ids carry the caller's scope chain for authorization checks.
type JWTClaims struct {
	UserID         string   `json:"user_id"`
	Role           UserRole `json:"role"`
	Email          string   `json:"email"`
	PlatformID     *string  `json:"platform_id,omitempty"`
	OrganizationID *string  `json:"organization_id,omitempty"`
	jwt.RegisteredClaims
}
