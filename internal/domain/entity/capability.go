package entity

import (
	"fmt"
	"sort"
)

// Capability permiso nombrado que habilita una sección de navegación o una mutación.
// Conjunto cerrado: cualquier valor fuera de AllCapabilities() es inválido.
type Capability string

const (
	CapDashboard    Capability = "dashboard"
	CapInvoices     Capability = "invoices"
	CapClients      Capability = "clients"
	CapPayments     Capability = "payments"
	CapBankAccounts Capability = "bank_accounts"
	CapTransactions Capability = "transactions"
	CapReports      Capability = "reports"
	CapHR           Capability = "hr"
	CapUsers        Capability = "users"
	CapRoles        Capability = "roles"
	CapSettings     Capability = "settings"
	CapAdmin        Capability = "admin"
)

var allCapabilities = []Capability{
	CapDashboard, CapInvoices, CapClients, CapPayments, CapBankAccounts, CapTransactions,
	CapReports, CapHR, CapUsers, CapRoles, CapSettings, CapAdmin,
}

// AllCapabilities devuelve una copia del catálogo en orden de menú.
func AllCapabilities() []Capability {
	out := make([]Capability, len(allCapabilities))
	copy(out, allCapabilities)
	return out
}

// Valid informa si c pertenece al catálogo.
func (c Capability) Valid() bool {
	for _, k := range allCapabilities {
		if k == c {
			return true
		}
	}
	return false
}

// ParseCapability convierte un string externo en Capability, rechazando desconocidos.
func ParseCapability(s string) (Capability, error) {
	c := Capability(s)
	if !c.Valid() {
		return "", fmt.Errorf("capacidad desconocida %q", s)
	}
	return c, nil
}

// ParseCapabilities convierte y deduplica una lista externa.
func ParseCapabilities(in []string) ([]Capability, error) {
	seen := make(map[Capability]struct{}, len(in))
	out := make([]Capability, 0, len(in))
	for _, s := range in {
		c, err := ParseCapability(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	SortCapabilities(out)
	return out, nil
}

// SortCapabilities ordena según el catálogo (orden de menú, no alfabético).
func SortCapabilities(caps []Capability) {
	rank := make(map[Capability]int, len(allCapabilities))
	for i, c := range allCapabilities {
		rank[c] = i
	}
	sort.SliceStable(caps, func(i, j int) bool { return rank[caps[i]] < rank[caps[j]] })
}

// HasCapability informa si c está en la lista.
func HasCapability(caps []Capability, c Capability) bool {
	for _, k := range caps {
		if k == c {
			return true
		}
	}
	return false
}
