package billing

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// InvoiceExporter genera el documento de una factura (lo implementa el caso de uso de reportes).
type InvoiceExporter interface {
	ExportInvoice(ctx context.Context, actor *entity.User, invoiceID string, mask *entity.FieldMask, format string) (*ports.File, error)
}
