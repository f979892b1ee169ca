package dto

import "time"

// SignUpRequest captures the payload for account registration.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignInRequest captures the payload for username/password sign-in.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued token and the known identity state.
// Role may be empty immediately after sign-up or self-healing sign-in;
// clients must treat that as "authenticated but role-less".
type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes the current persisted session.
type SessionResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSessionResponse builds a session view from persisted session state.
func NewSessionResponse(userID, username, role string, expiresAt time.Time) SessionResponse {
	return SessionResponse{
		UserID:    userID,
		Username:  username,
		Role:      role,
		ExpiresAt: expiresAt,
	}
}
