package entity

import "time"

// Roles predeterminados (sembrados en el primer arranque, no se pueden borrar).
const (
	RoleAdmin   = "admin"
	RoleFinance = "finance"
	RoleHR      = "hr"
	RoleUser    = "user"
)

// Role paquete nombrado de capacidades. El ID de los roles por defecto coincide con su nombre.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Permissions []Capability `json:"permissions"`
	IsDefault   bool         `json:"is_default"`
	Version     int64        `json:"version"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Has informa si el rol otorga la capacidad.
func (r *Role) Has(c Capability) bool {
	if r == nil {
		return false
	}
	for _, p := range r.Permissions {
		if p == c {
			return true
		}
	}
	return false
}

// defaultRolePermissions tabla tipada rol → capacidades.
var defaultRolePermissions = []struct {
	id, name, description string
	perms                 []Capability
}{
	{RoleAdmin, "Administrador", "Acceso total al sistema", allCapabilities},
	{RoleFinance, "Finanzas", "Facturación, pagos, cuentas y reportes", []Capability{
		CapDashboard, CapInvoices, CapClients, CapPayments, CapBankAccounts, CapTransactions, CapReports,
	}},
	{RoleHR, "Recursos Humanos", "Gestión de personal y reportes", []Capability{
		CapDashboard, CapHR, CapReports,
	}},
	{RoleUser, "Usuario", "Acceso básico a facturas y clientes", []Capability{
		CapDashboard, CapInvoices, CapClients,
	}},
}

// DefaultRoles construye los cuatro roles sembrados.
func DefaultRoles(now time.Time) []*Role {
	out := make([]*Role, 0, len(defaultRolePermissions))
	for _, d := range defaultRolePermissions {
		perms := make([]Capability, len(d.perms))
		copy(perms, d.perms)
		out = append(out, &Role{
			ID:          d.id,
			Name:        d.name,
			Description: d.description,
			Permissions: perms,
			IsDefault:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out
}

// IsDefaultRoleID informa si id corresponde a uno de los roles sembrados.
func IsDefaultRoleID(id string) bool {
	for _, d := range defaultRolePermissions {
		if d.id == id {
			return true
		}
	}
	return false
}
