package entity

import "time"

// AlertAccountLocked alerta emitida al bloquear una cuenta por intentos fallidos.
const AlertAccountLocked = "account_locked"

// SecurityAlert registro persistente visible para administradores.
type SecurityAlert struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	ActorEmail   string    `json:"actor_email"`
	Message      string    `json:"message"`
	Acknowledged bool      `json:"acknowledged"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
}
