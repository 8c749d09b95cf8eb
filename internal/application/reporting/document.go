package reporting

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// Field par etiqueta/valor ya formateado.
type Field struct {
	Label string
	Value string
}

// Party bloque de emisor o receptor.
type Party struct {
	Name   string
	Logo   string // data URI, solo emisor
	Fields []Field
}

// Line línea de factura formateada.
type Line struct {
	Description string
	Quantity    string
	Rate        string
	BuyingPrice string
	Amount      string
}

// Document vista plana de una factura tras aplicar la máscara de campos.
// Los renderers solo dibujan lo que trae: un campo ausente aquí no aparece en el archivo.
type Document struct {
	Title           string
	Number          string
	Currency        string
	Header          []Field // emisión, vencimiento, estado
	Company         Party
	Client          Party
	Items           []Line
	ShowBuyingPrice bool
	Totals          []Field
	Notes           string
	Footnote        string
	CreatedAt       time.Time
}

// ProfitIncompleteMark sufijo de la utilidad cuando alguna línea no tiene costo de compra.
const ProfitIncompleteMark = " *"

// Visible proyecta factura + empresa según la máscara. Un campo entra solo si su bit está
// encendido y su valor no es vacío (para montos: distinto de cero, salvo subtotal y total).
// El estado es el efectivo a now: una enviada vencida sale como overdue.
func Visible(inv *entity.Invoice, company *entity.Company, mask entity.FieldMask, now time.Time) *Document {
	if company == nil {
		company = &entity.Company{}
	}
	cur := currencyCode(inv.Currency)
	money := func(d decimal.Decimal) string { return FormatMoney(d, cur) }

	doc := &Document{
		Title:     "FACTURA",
		Currency:  cur,
		Notes:     pick(mask.Invoice.Notes, inv.Notes),
		CreatedAt: inv.UpdatedAt.UTC(),
	}
	doc.Number = pick(mask.Invoice.Number, inv.InvoiceNumber)
	doc.Header = appendField(doc.Header, mask.Invoice.IssueDate, "Fecha de emisión", formatDate(inv.IssueDate))
	doc.Header = appendField(doc.Header, mask.Invoice.DueDate, "Fecha de vencimiento", formatDate(inv.DueDate))
	doc.Header = appendField(doc.Header, mask.Invoice.Status, "Estado", string(inv.EffectiveStatus(now)))

	cm := mask.Company
	doc.Company.Name = pick(cm.Name, company.Name)
	if cm.Logo && strings.HasPrefix(company.LogoDataURI, "data:image/") {
		doc.Company.Logo = company.LogoDataURI
	}
	doc.Company.Fields = appendField(doc.Company.Fields, cm.Address, "Dirección", company.FullAddress())
	doc.Company.Fields = appendField(doc.Company.Fields, cm.Phone, "Teléfono", company.Phone)
	doc.Company.Fields = appendField(doc.Company.Fields, cm.Email, "Email", company.Email)
	doc.Company.Fields = appendField(doc.Company.Fields, cm.Website, "Web", company.Website)
	doc.Company.Fields = appendField(doc.Company.Fields, cm.TaxID, "NIT", company.TaxID)

	cl := mask.Client
	doc.Client.Name = pick(cl.Name, inv.Client.Name)
	doc.Client.Fields = appendField(doc.Client.Fields, cl.Company, "Empresa", inv.Client.Company)
	doc.Client.Fields = appendField(doc.Client.Fields, cl.Email, "Email", inv.Client.Email)
	doc.Client.Fields = appendField(doc.Client.Fields, cl.Phone, "Teléfono", inv.Client.Phone)
	doc.Client.Fields = appendField(doc.Client.Fields, cl.Address, "Dirección", inv.Client.Address)
	doc.Client.Fields = appendField(doc.Client.Fields, cl.TaxID, "NIT", inv.Client.TaxID)

	doc.ShowBuyingPrice = mask.Invoice.BuyingPrice
	for _, it := range inv.Items {
		line := Line{
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			Rate:        money(it.Rate),
			Amount:      money(it.Quantity.Mul(it.Rate)),
		}
		if doc.ShowBuyingPrice && it.BuyingPrice != nil {
			line.BuyingPrice = money(*it.BuyingPrice)
		}
		doc.Items = append(doc.Items, line)
	}

	doc.Totals = append(doc.Totals, Field{Label: "Subtotal", Value: money(inv.Subtotal)})
	if mask.Invoice.Tax && !inv.Tax.IsZero() {
		doc.Totals = append(doc.Totals, Field{Label: "Impuesto (" + inv.TaxRate.String() + "%)", Value: money(inv.Tax)})
	}
	if mask.Invoice.Discount && !inv.Discount.IsZero() {
		doc.Totals = append(doc.Totals, Field{Label: "Descuento", Value: "-" + money(inv.Discount)})
	}
	doc.Totals = append(doc.Totals, Field{Label: "Total", Value: money(inv.Total)})
	if mask.Invoice.BuyingPrice && !inv.BuyingTotal.IsZero() {
		doc.Totals = append(doc.Totals, Field{Label: "Costo de compra", Value: money(inv.BuyingTotal)})
	}
	if mask.Invoice.Profit {
		profit := money(inv.Profit)
		if inv.ProfitIncomplete {
			profit += ProfitIncompleteMark
			doc.Footnote = "* Utilidad calculada con costo 0 en las líneas sin costo de compra registrado."
		}
		doc.Totals = append(doc.Totals, Field{Label: "Utilidad", Value: profit})
	}
	return doc
}

func pick(on bool, value string) string {
	if !on {
		return ""
	}
	return strings.TrimSpace(value)
}

func appendField(fields []Field, on bool, label, value string) []Field {
	if v := pick(on, value); v != "" {
		return append(fields, Field{Label: label, Value: v})
	}
	return fields
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// currencyCode normaliza el código ISO; si no se reconoce se usa tal cual.
func currencyCode(code string) string {
	if code == "" {
		return entity.DefaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return strings.ToUpper(code)
	}
	return unit.String()
}

// FormatMoney monto a 2 decimales con separador de miles: "USD 1,234.50".
func FormatMoney(d decimal.Decimal, cur string) string {
	s := d.Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := sign + string(buf) + frac
	if cur == "" {
		return out
	}
	return cur + " " + out
}
