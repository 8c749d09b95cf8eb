package dto

import "time"

// RegisterRequest entrada para registro: el actor nace con rol user.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

// LoginRequest credenciales de login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse sesión activa. ExpiresAt nil = sin vencimiento (admin).
type SessionResponse struct {
	ID        string     `json:"id"`
	LoginAt   time.Time  `json:"login_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// LoginResponse token JWT + actor + sesión.
type LoginResponse struct {
	Token       string          `json:"token"`
	User        UserResponse    `json:"user"`
	Session     SessionResponse `json:"session"`
	Permissions []string        `json:"permissions"`
}

// MeResponse salida de GET /api/me.
type MeResponse struct {
	User        UserResponse    `json:"user"`
	Session     SessionResponse `json:"session"`
	Permissions []string        `json:"permissions"`
}

// HeartbeatRequest marca presencia del actor en una ruta.
type HeartbeatRequest struct {
	Route string `json:"route" validate:"required,max=200"`
}

// PresenceEntry actor visto en una ruta.
type PresenceEntry struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Route    string    `json:"route"`
	LastSeen time.Time `json:"last_seen"`
}
