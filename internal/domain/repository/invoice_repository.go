package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice (las líneas viajan embebidas).
type InvoiceRepository interface {
	// Create devuelve domain.ErrDuplicate si el número de factura ya existe.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	// ExistsForClient informa si alguna factura referencia al cliente (chequeo al borrar).
	ExistsForClient(ctx context.Context, clientID string) (bool, error)
	// ListNumbers devuelve todos los números emitidos (para calcular el siguiente consecutivo).
	ListNumbers(ctx context.Context) ([]string, error)
}
