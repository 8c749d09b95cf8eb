package entity

import "time"

// SessionState estados del ciclo de sesión: LoggedOut → Authenticating → LoggedIn → LoggedOut.
type SessionState string

const (
	SessionLoggedOut      SessionState = "logged_out"
	SessionAuthenticating SessionState = "authenticating"
	SessionLoggedIn       SessionState = "logged_in"
)

// Session sesión establecida tras un login exitoso. ExpiresAt nil = sin vencimiento (admin).
type Session struct {
	ID        string
	UserID    string
	Email     string
	Role      string
	LoginAt   time.Time
	ExpiresAt *time.Time
}

// Expired informa si la sesión venció en el instante now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}
