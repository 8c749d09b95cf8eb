// Package authz resuelve permisos y congelamiento. Funciones puras: dependen solo de
// (actor, rol, configuración, registro) en el instante de la llamada y no guardan caché.
package authz

import "github.com/jhoicas/backoffice-api/internal/domain/entity"

// Freezable expone el estado mínimo de un registro para evaluar congelamiento.
type Freezable interface {
	FreezeID() string
	FreezeName() string
	FreezeStatus() string
}

// CanAccess decide si el actor puede usar la capacidad.
// admin siempre puede. Para el resto: capacidad ∈ permisos individuales ∪ permisos del rol.
// Rol ausente, actor nil o capacidad desconocida ⇒ denegar.
func CanAccess(actor *entity.User, role *entity.Role, capability entity.Capability) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if !capability.Valid() {
		return false
	}
	for _, p := range actor.Permissions {
		if p == capability {
			return true
		}
	}
	if role != nil && role.ID == actor.Role {
		return role.Has(capability)
	}
	return false
}

// EffectivePermissions unión ordenada de permisos individuales y del rol (solo válidos).
func EffectivePermissions(actor *entity.User, role *entity.Role) []entity.Capability {
	if actor == nil {
		return nil
	}
	if actor.IsAdmin() {
		return entity.AllCapabilities()
	}
	seen := map[entity.Capability]struct{}{}
	var out []entity.Capability
	add := func(caps []entity.Capability) {
		for _, c := range caps {
			if !c.Valid() {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	add(actor.Permissions)
	if role != nil && role.ID == actor.Role {
		add(role.Permissions)
	}
	entity.SortCapabilities(out)
	return out
}

// IsFrozen aplica el predicado de la clase si su flag está activo.
// Clases desconocidas nunca se congelan.
func IsFrozen(settings *entity.FreezeSettings, class entity.RecordClass, record Freezable) bool {
	enabled, known := settings.Flag(class)
	if !known || !enabled {
		return false
	}
	switch class {
	case entity.ClassPaidInvoices:
		return record != nil && record.FreezeStatus() == string(entity.InvoiceStatusPaid)
	case entity.ClassSavedClients:
		return record != nil && record.FreezeID() != "" && record.FreezeName() != ""
	case entity.ClassCompletedPayments:
		return record != nil && record.FreezeStatus() == entity.PaymentCompleted
	default:
		// finalizedReports, confirmedOrders, processedTransactions: congelan sin condición.
		return true
	}
}
