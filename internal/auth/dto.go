package auth

import "github.com/tokoluma/luma-backend/internal/users"

// RegisterRequest carries a new account signup.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Phone    string `json:"phone" validate:"omitempty,min=8,max=20"`
}

// LoginRequest carries credentials for the password login flow.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a refresh session. The access token may be expired;
// only its signature and jti are inspected.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is the minted access/refresh credential pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned by register, login, and refresh.
type AuthResponse struct {
	TokenPair
	User users.UserDTO `json:"user"`
}
