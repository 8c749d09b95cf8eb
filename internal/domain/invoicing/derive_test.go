package invoicing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/invoicing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(qty, rate string) entity.InvoiceItem {
	return entity.InvoiceItem{Description: "línea", Quantity: d(qty), Rate: d(rate)}
}

func withCost(it entity.InvoiceItem, cost string) entity.InvoiceItem {
	c := d(cost)
	it.BuyingPrice = &c
	return it
}

// Escenario: 2 × 50 + 1 × 100, IVA 10 %, descuento 5 → 200 / 20 / 215.
func TestDerive_EscenarioAcme(t *testing.T) {
	items := []entity.InvoiceItem{item("2", "50"), item("1", "100")}

	got := invoicing.Derive(items, d("10"), d("5"))

	assert.True(t, got.Subtotal.Equal(d("200")), "subtotal=%s", got.Subtotal)
	assert.True(t, got.Tax.Equal(d("20")), "tax=%s", got.Tax)
	assert.True(t, got.Total.Equal(d("215")), "total=%s", got.Total)
	assert.True(t, got.Profit.Equal(d("195")), "profit=%s", got.Profit)
	assert.True(t, got.ProfitIncomplete, "sin costos la utilidad queda marcada como incompleta")
}

func TestDerive_SubtotalEsSumaExacta(t *testing.T) {
	items := []entity.InvoiceItem{item("0.01", "0.01"), item("3", "33.333"), item("1.5", "2.2"), item("7", "0")}
	want := decimal.Zero
	for _, it := range items {
		want = want.Add(it.Quantity.Mul(it.Rate))
	}

	got := invoicing.Derive(items, d("0"), d("0"))
	assert.True(t, got.Subtotal.Equal(want), "subtotal=%s want=%s", got.Subtotal, want)
}

func TestDerive_InvariantesTotalYUtilidad(t *testing.T) {
	cases := []struct{ tax, discount string }{
		{"0", "0"}, {"19", "0"}, {"100", "12.5"}, {"7.5", "3"},
	}
	items := []entity.InvoiceItem{withCost(item("3", "19.99"), "10"), withCost(item("2", "5"), "1.25")}
	for _, tc := range cases {
		got := invoicing.Derive(items, d(tc.tax), d(tc.discount))
		assert.True(t, got.Tax.Equal(got.Subtotal.Mul(d(tc.tax)).Div(d("100"))), "tax con tarifa %s", tc.tax)
		assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax).Sub(d(tc.discount))))
		assert.True(t, got.Profit.Equal(got.Total.Sub(got.BuyingTotal).Sub(got.Tax)))
		assert.False(t, got.ProfitIncomplete)
	}
}

func TestDerive_CostoDeCompra(t *testing.T) {
	items := []entity.InvoiceItem{withCost(item("2", "50"), "30"), item("1", "100")}
	got := invoicing.Derive(items, d("0"), d("0"))

	assert.True(t, got.BuyingTotal.Equal(d("60")))
	assert.True(t, got.Profit.Equal(d("140")))
	assert.True(t, got.ProfitIncomplete)
}

func TestDerive_DescuentoMayorAlSubtotalPermiteTotalNegativo(t *testing.T) {
	got := invoicing.Derive([]entity.InvoiceItem{item("1", "10")}, d("0"), d("25"))
	assert.True(t, got.Total.Equal(d("-15")))
}

func TestDerive_TarifaSeAcota(t *testing.T) {
	items := []entity.InvoiceItem{item("1", "100")}
	assert.True(t, invoicing.Derive(items, d("150"), d("0")).Tax.Equal(d("100")))
	assert.True(t, invoicing.Derive(items, d("-3"), d("0")).Tax.Equal(decimal.Zero))
}

func TestDerive_SinRedondeoIntermedio(t *testing.T) {
	// 3 líneas de 0.005: redondeando por línea daría 0.03; acumulando a precisión completa 0.015 → 0.02.
	items := []entity.InvoiceItem{item("1", "0.005"), item("1", "0.005"), item("1", "0.005")}
	got := invoicing.Derive(items, d("0"), d("0"))

	assert.Equal(t, "0.015", got.Subtotal.String())
	assert.Equal(t, "0.02", got.Rounded().Subtotal.StringFixed(2))
}

func TestApply_RellenaMontosDeLinea(t *testing.T) {
	inv := &entity.Invoice{Items: []entity.InvoiceItem{item("2", "50")}, TaxRate: d("10")}
	invoicing.Apply(inv)

	assert.True(t, inv.Items[0].Amount.Equal(d("100")))
	assert.True(t, inv.Total.Equal(d("110")))
}

func TestValidateItems(t *testing.T) {
	err := invoicing.ValidateItems([]entity.InvoiceItem{
		{Description: "", Quantity: d("0"), Rate: d("-1")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items[0].quantity")
	assert.Contains(t, verr.Fields, "items[0].rate")
	assert.Contains(t, verr.Fields, "items[0].description")

	assert.NoError(t, invoicing.ValidateItems([]entity.InvoiceItem{item("0.01", "0")}))
	assert.Error(t, invoicing.ValidateItems(nil))
}

func TestValidateDiscount(t *testing.T) {
	assert.NoError(t, invoicing.ValidateDiscount(d("0")))
	assert.ErrorIs(t, invoicing.ValidateDiscount(d("-1")), domain.ErrInvalidInput)
}
