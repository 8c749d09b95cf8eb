// Package navigation arma el menú lateral según las capacidades efectivas del actor.
package navigation

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Entry una opción del menú.
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

var catalog = []struct {
	cap   entity.Capability
	label string
	path  string
}{
	{entity.CapDashboard, "Panel", "/dashboard"},
	{entity.CapInvoices, "Facturas", "/invoices"},
	{entity.CapClients, "Clientes", "/clients"},
	{entity.CapPayments, "Pagos", "/payments"},
	{entity.CapBankAccounts, "Cuentas bancarias", "/bank-accounts"},
	{entity.CapTransactions, "Transacciones", "/transactions"},
	{entity.CapReports, "Reportes", "/reports"},
	{entity.CapHR, "Recursos humanos", "/hr"},
	{entity.CapUsers, "Usuarios", "/users"},
	{entity.CapRoles, "Roles", "/roles"},
	{entity.CapSettings, "Empresa", "/settings"},
	{entity.CapAdmin, "Administración", "/admin"},
}

// Build filtra el catálogo por perms conservando el orden del menú.
func Build(perms []entity.Capability) []Entry {
	held := make(map[entity.Capability]bool, len(perms))
	for _, p := range perms {
		held[p] = true
	}
	out := make([]Entry, 0, len(perms))
	for _, c := range catalog {
		if held[c.cap] {
			out = append(out, Entry{Key: string(c.cap), Label: c.label, Path: c.path})
		}
	}
	return out
}

type MenuUseCase struct {
	authz *access.Authorizer
}

func NewMenuUseCase(authz *access.Authorizer) *MenuUseCase {
	return &MenuUseCase{authz: authz}
}

// Menu resuelve las capacidades contra el store en cada llamada.
func (uc *MenuUseCase) Menu(ctx context.Context, actor *entity.User) ([]Entry, error) {
	perms, err := uc.authz.Permissions(ctx, actor)
	if err != nil {
		return nil, err
	}
	return Build(perms), nil
}
