package invoicing

import (
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// transitions máquina de estados persistida: draft → sent → paid, y draft → paid directo.
var transitions = map[entity.InvoiceStatus][]entity.InvoiceStatus{
	entity.InvoiceStatusDraft: {entity.InvoiceStatusSent, entity.InvoiceStatusPaid},
	entity.InvoiceStatusSent:  {entity.InvoiceStatusPaid},
}

// Transition valida el cambio de estado. Overdue no es un destino válido (es derivado).
func Transition(from, to entity.InvoiceStatus) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: transición %s → %s no permitida", domain.ErrConflict, from, to)
}
