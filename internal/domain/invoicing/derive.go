// Package invoicing contiene el motor de derivación de facturas (servicio de dominio puro):
// totales, validación de líneas, consecutivo y transiciones de estado.
package invoicing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals resultado de la derivación, sin redondear.
type Totals struct {
	Subtotal         decimal.Decimal
	Tax              decimal.Decimal
	BuyingTotal      decimal.Decimal
	Profit           decimal.Decimal
	Total            decimal.Decimal
	ProfitIncomplete bool // alguna línea no tiene costo de compra (se tomó como 0)
}

// Amount = cantidad × precio unitario de venta.
func Amount(item entity.InvoiceItem) decimal.Decimal {
	return item.Quantity.Mul(item.Rate)
}

// Derive calcula los totales de la factura a precisión completa.
//
//	subtotal    = Σ cantidad × precio
//	buyingTotal = Σ cantidad × costo (costo ausente = 0)
//	tax         = subtotal × taxRate / 100
//	total       = subtotal + tax − discount
//	profit      = total − buyingTotal − tax
//
// El redondeo a 2 decimales se aplica solo al mostrar/exportar (ver Totals.Rounded).
func Derive(items []entity.InvoiceItem, taxRate, discount decimal.Decimal) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal = t.Subtotal.Add(Amount(it))
		if it.BuyingPrice == nil {
			t.ProfitIncomplete = true
			continue
		}
		t.BuyingTotal = t.BuyingTotal.Add(it.Quantity.Mul(*it.BuyingPrice))
	}
	t.Tax = t.Subtotal.Mul(ClampTaxRate(taxRate)).Div(hundred)
	t.Total = t.Subtotal.Add(t.Tax).Sub(discount)
	t.Profit = t.Total.Sub(t.BuyingTotal).Sub(t.Tax)
	return t
}

// Rounded devuelve una copia con todos los montos a 2 decimales (half-up).
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:         t.Subtotal.Round(2),
		Tax:              t.Tax.Round(2),
		BuyingTotal:      t.BuyingTotal.Round(2),
		Profit:           t.Profit.Round(2),
		Total:            t.Total.Round(2),
		ProfitIncomplete: t.ProfitIncomplete,
	}
}

// ClampTaxRate limita la tarifa al rango [0,100].
func ClampTaxRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	if rate.GreaterThan(hundred) {
		return hundred
	}
	return rate
}

// Apply recalcula los montos de línea y los totales sobre la factura.
func Apply(inv *entity.Invoice) {
	for i := range inv.Items {
		inv.Items[i].Amount = Amount(inv.Items[i])
	}
	inv.TaxRate = ClampTaxRate(inv.TaxRate)
	t := Derive(inv.Items, inv.TaxRate, inv.Discount)
	inv.Subtotal = t.Subtotal
	inv.Tax = t.Tax
	inv.BuyingTotal = t.BuyingTotal
	inv.Profit = t.Profit
	inv.Total = t.Total
	inv.ProfitIncomplete = t.ProfitIncomplete
}
