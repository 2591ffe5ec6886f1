package shared

import "time"

// shared types across the application
// 1st: the authenticated session handed explicitly to services
// 2nd: add more shared types as needed

// Session identifies the caller of a request. Handlers receive it from the
// auth middleware and pass it down; services never look it up themselves.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"jti"`        // access token id, used for revocation
	ExpiresAt time.Time `json:"expires_at"` // access token expiry
}
