package entity

import "time"

// User representa un actor autenticable del sistema.
// Role guarda el ID del rol asignado (admin, finance, hr, user o el ID de un rol personalizado).
type User struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"password_hash"` // bcrypt, nunca texto plano
	Name           string       `json:"name"`
	Role           string       `json:"role"`
	Permissions    []Capability `json:"permissions"` // otorgadas individualmente, se suman a las del rol
	Locked         bool         `json:"locked"`
	FailedAttempts int          `json:"failed_attempts"`
	LastLoginAt    *time.Time   `json:"last_login_at,omitempty"`
	Version        int64        `json:"version"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// IsAdmin informa si el actor tiene el rol admin.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
