package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de la factura. Overdue nunca se persiste: se deriva al leer.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// InvoiceNumberPrefix prefijo del consecutivo (INV-001, INV-002, ...).
const InvoiceNumberPrefix = "INV-"

// DefaultCurrency moneda cuando el formulario no la indica.
const DefaultCurrency = "USD"

// InvoiceItem línea de factura, propiedad exclusiva de una factura.
// BuyingPrice nil significa "sin costo registrado".
type InvoiceItem struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Rate        decimal.Decimal  `json:"rate"`
	BuyingPrice *decimal.Decimal `json:"buying_price,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
}

// Invoice cabecera + líneas + totales derivados.
// Invariantes: Total = Subtotal + Tax − Discount; Profit = Total − BuyingTotal − Tax.
type Invoice struct {
	ID               string          `json:"id"`
	InvoiceNumber    string          `json:"invoice_number"`
	ClientID         string          `json:"client_id"`
	Client           ClientSnapshot  `json:"client"`
	IssueDate        time.Time       `json:"issue_date"`
	DueDate          time.Time       `json:"due_date"`
	Items            []InvoiceItem   `json:"items"`
	TaxRate          decimal.Decimal `json:"tax_rate"`  // porcentaje 0..100
	Discount         decimal.Decimal `json:"discount"` // monto fijo
	Currency         string          `json:"currency"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	BuyingTotal      decimal.Decimal `json:"buying_total"`
	Profit           decimal.Decimal `json:"profit"`
	Total            decimal.Decimal `json:"total"`
	ProfitIncomplete bool            `json:"profit_incomplete"` // alguna línea sin costo de compra
	Status           InvoiceStatus   `json:"status"`
	Notes            string          `json:"notes,omitempty"`
	FieldMask        FieldMask       `json:"field_mask"`
	SentAt           *time.Time      `json:"sent_at,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	Version          int64           `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (inv *Invoice) FreezeID() string     { return inv.ID }
func (inv *Invoice) FreezeName() string   { return inv.InvoiceNumber }
func (inv *Invoice) FreezeStatus() string { return string(inv.Status) }

// EffectiveStatus devuelve overdue si la factura fue enviada y su fecha de vencimiento ya pasó.
func (inv *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if inv.Status == InvoiceStatusSent && !inv.DueDate.IsZero() && dateOnly(now).After(dateOnly(inv.DueDate)) {
		return InvoiceStatusOverdue
	}
	return inv.Status
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
