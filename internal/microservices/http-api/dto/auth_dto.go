package dto

import "time"

// Data Transfer Objects for authentication requests and responses.
// Form tags let the same structs bind HTML form posts.

// SignUpRequest: payload for account creation
type SignUpRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=8,max=72"`
}

// SignInRequest: payload for password sign-in
type SignInRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// AuthResponse: tokens issued after sign-up, sign-in or refresh
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// RefreshTokenRequest: payload for refreshing access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ResetPasswordRequest: asks for a reset link by email
type ResetPasswordRequest struct {
	Email string `form:"email" json:"email" binding:"required,email"`
}

// ConfirmResetRequest: sets a new password with the mailed token
type ConfirmResetRequest struct {
	Token    string `form:"token" json:"token" binding:"required"`
	Password string `form:"password" json:"password" binding:"required,min=8,max=72"`
}

// UpdateCredentialsRequest: both fields optional, at least one must be set
type UpdateCredentialsRequest struct {
	Email    string `form:"email" json:"email" binding:"omitempty,email"`
	Password string `form:"password" json:"password" binding:"omitempty,min=8,max=72"`
}

type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// MessageResponse: {success: "..."} acknowledgement
type MessageResponse struct {
	Success string `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
