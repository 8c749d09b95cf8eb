package authz_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/backoffice-api/internal/domain/authz"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

func userWith(role string, perms ...entity.Capability) *entity.User {
	return &entity.User{ID: "u1", Email: "u@x.com", Role: role, Permissions: perms}
}

func TestCanAccess_UsuarioConPermisosExplicitos(t *testing.T) {
	actor := userWith(entity.RoleUser, entity.CapDashboard, entity.CapInvoices)

	assert.False(t, authz.CanAccess(actor, nil, entity.CapAdmin), "user no debe acceder a admin")
	assert.True(t, authz.CanAccess(actor, nil, entity.CapInvoices), "user debe acceder a invoices")
}

func TestCanAccess_AdminSiemprePuede(t *testing.T) {
	actor := userWith(entity.RoleAdmin)
	for _, c := range entity.AllCapabilities() {
		assert.True(t, authz.CanAccess(actor, nil, c), "admin debe acceder a %s", c)
	}
	assert.True(t, authz.CanAccess(actor, nil, entity.Capability("no-existe")))
}

func TestCanAccess_PermisosDelRol(t *testing.T) {
	actor := userWith(entity.RoleFinance)
	var finance *entity.Role
	for _, r := range entity.DefaultRoles(time.Now()) {
		if r.ID == entity.RoleFinance {
			finance = r
		}
	}
	assert.True(t, authz.CanAccess(actor, finance, entity.CapBankAccounts))
	assert.False(t, authz.CanAccess(actor, finance, entity.CapUsers))
}

func TestCanAccess_RolAusenteDeniega(t *testing.T) {
	actor := userWith("rol-borrado")
	assert.False(t, authz.CanAccess(actor, nil, entity.CapDashboard))
	assert.False(t, authz.CanAccess(nil, nil, entity.CapDashboard))
}

func TestCanAccess_RolDeOtroActorNoSeUsa(t *testing.T) {
	actor := userWith(entity.RoleUser)
	other := &entity.Role{ID: "finance", Permissions: []entity.Capability{entity.CapPayments}}
	assert.False(t, authz.CanAccess(actor, other, entity.CapPayments))
}

func TestCanAccess_CapacidadDesconocidaDeniega(t *testing.T) {
	actor := userWith(entity.RoleUser, entity.Capability("invoicez"))
	assert.False(t, authz.CanAccess(actor, nil, entity.Capability("invoicez")))
}

func TestEffectivePermissions_UnionOrdenada(t *testing.T) {
	actor := userWith("custom", entity.CapReports, entity.CapDashboard)
	role := &entity.Role{ID: "custom", Permissions: []entity.Capability{entity.CapInvoices, entity.CapDashboard}}

	got := authz.EffectivePermissions(actor, role)
	assert.Equal(t, []entity.Capability{entity.CapDashboard, entity.CapInvoices, entity.CapReports}, got)
}

func TestIsFrozen_FacturaPagada(t *testing.T) {
	settings := &entity.FreezeSettings{PaidInvoices: true}
	inv := &entity.Invoice{ID: "i1", InvoiceNumber: "INV-001", Status: entity.InvoiceStatusPaid}

	assert.True(t, authz.IsFrozen(settings, entity.ClassPaidInvoices, inv))

	inv.Status = entity.InvoiceStatusSent
	assert.False(t, authz.IsFrozen(settings, entity.ClassPaidInvoices, inv))
}

func TestIsFrozen_FlagApagado(t *testing.T) {
	inv := &entity.Invoice{ID: "i1", Status: entity.InvoiceStatusPaid}
	assert.False(t, authz.IsFrozen(&entity.FreezeSettings{}, entity.ClassPaidInvoices, inv))
	assert.False(t, authz.IsFrozen(nil, entity.ClassPaidInvoices, inv))
}

func TestIsFrozen_ClienteGuardado(t *testing.T) {
	settings := &entity.FreezeSettings{SavedClients: true}
	assert.True(t, authz.IsFrozen(settings, entity.ClassSavedClients, &entity.Client{ID: "c1", Name: "Acme"}))
	assert.False(t, authz.IsFrozen(settings, entity.ClassSavedClients, &entity.Client{Name: "Nuevo"}))
}

func TestIsFrozen_PagoCompletado(t *testing.T) {
	settings := &entity.FreezeSettings{CompletedPayments: true}
	assert.True(t, authz.IsFrozen(settings, entity.ClassCompletedPayments, &entity.Payment{ID: "p", Status: entity.PaymentCompleted}))
	assert.False(t, authz.IsFrozen(settings, entity.ClassCompletedPayments, &entity.Payment{ID: "p", Status: entity.PaymentPending}))
}

func TestIsFrozen_ClasesIncondicionales(t *testing.T) {
	settings := &entity.FreezeSettings{FinalizedReports: true, ConfirmedOrders: true, ProcessedTransactions: true}
	for _, class := range []entity.RecordClass{
		entity.ClassFinalizedReports, entity.ClassConfirmedOrders, entity.ClassProcessedTransactions,
	} {
		assert.True(t, authz.IsFrozen(settings, class, nil), "%s debe congelarse sin condición", class)
	}
}

func TestIsFrozen_ClaseDesconocida(t *testing.T) {
	settings := &entity.FreezeSettings{PaidInvoices: true, SavedClients: true}
	assert.False(t, authz.IsFrozen(settings, entity.RecordClass("futureClass"), &entity.Client{ID: "c", Name: "n"}))
}
