package dto

import (
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// CreateUserRequest alta administrativa de un actor (password en texto, se hashea en el caso de uso).
type CreateUserRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Role        string   `json:"role" validate:"required,max=64"`
	Permissions []string `json:"permissions"`
}

// UpdateUserRequest cambios de nombre, rol o permisos individuales.
type UpdateUserRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Role        string   `json:"role" validate:"required,max=64"`
	Permissions []string `json:"permissions"`
	Version     int64    `json:"version"`
}

// UserResponse salida de un actor (sin password).
type UserResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	Permissions    []string   `json:"permissions"`
	Locked         bool       `json:"locked"`
	FailedAttempts int        `json:"failed_attempts"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RoleRequest alta o edición de un rol. ID solo se usa al crear (opcional).
type RoleRequest struct {
	ID          string   `json:"id" validate:"omitempty,max=64"`
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Permissions []string `json:"permissions"`
	Version     int64    `json:"version"`
}

// FreezeSettingsRequest nuevos valores de los seis flags.
type FreezeSettingsRequest struct {
	PaidInvoices          bool  `json:"paid_invoices"`
	SavedClients          bool  `json:"saved_clients"`
	CompletedPayments     bool  `json:"completed_payments"`
	FinalizedReports      bool  `json:"finalized_reports"`
	ConfirmedOrders       bool  `json:"confirmed_orders"`
	ProcessedTransactions bool  `json:"processed_transactions"`
	Version               int64 `json:"version"`
}

// CompanyRequest perfil de la empresa emisora.
type CompanyRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	LogoDataURI string `json:"logo_data_uri" validate:"omitempty,startswith=data:image/"`
	Address     string `json:"address" validate:"max=300"`
	City        string `json:"city" validate:"max=100"`
	Country     string `json:"country" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	Website     string `json:"website" validate:"omitempty,url"`
	TaxID       string `json:"tax_id" validate:"max=50"`
	Version     int64  `json:"version"`
}

// NewUserResponse mapea el actor a su salida pública.
func NewUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		Permissions:    CapabilityStrings(u.Permissions),
		Locked:         u.Locked,
		FailedAttempts: u.FailedAttempts,
		LastLoginAt:    u.LastLoginAt,
		Version:        u.Version,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// CapabilityStrings convierte capacidades a strings para la salida JSON.
func CapabilityStrings(caps []entity.Capability) []string {
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		out = append(out, string(c))
	}
	return out
}
