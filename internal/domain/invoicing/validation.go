package invoicing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// MinQuantity cantidad mínima aceptada por línea.
var MinQuantity = decimal.RequireFromString("0.01")

// ValidateItems verifica las líneas antes de derivar. Devuelve *domain.ValidationError con
// claves del tipo items[0].quantity.
func ValidateItems(items []entity.InvoiceItem) error {
	v := domain.NewValidationError()
	if len(items) == 0 {
		v.Add("items", "la factura debe tener al menos una línea")
	}
	for i, it := range items {
		key := func(f string) string { return fmt.Sprintf("items[%d].%s", i, f) }
		if strings.TrimSpace(it.Description) == "" {
			v.Add(key("description"), "descripción requerida")
		}
		if it.Quantity.LessThan(MinQuantity) {
			v.Add(key("quantity"), "la cantidad debe ser mayor a 0")
		}
		if it.Rate.IsNegative() {
			v.Add(key("rate"), "el precio no puede ser negativo")
		}
		if it.BuyingPrice != nil && it.BuyingPrice.IsNegative() {
			v.Add(key("buyingPrice"), "el costo no puede ser negativo")
		}
	}
	return v.OrNil()
}

// ValidateDiscount rechaza descuentos negativos. La tarifa de impuesto no se valida: Derive la acota.
// El descuento no se compara contra el subtotal (un total negativo es aceptado).
func ValidateDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		v := domain.NewValidationError()
		v.Add("discount", "el descuento no puede ser negativo")
		return v
	}
	return nil
}
