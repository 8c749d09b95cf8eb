package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// ClientRequest alta o edición de cliente.
type ClientRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"max=50"`
	Address    string `json:"address" validate:"max=300"`
	City       string `json:"city" validate:"max=100"`
	State      string `json:"state" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"max=100"`
	Company    string `json:"company" validate:"max=200"`
	TaxID      string `json:"tax_id" validate:"max=50"`
	Version    int64  `json:"version"`
}

// InvoiceItemRequest línea de factura. Los rangos numéricos se validan en el motor de derivación.
type InvoiceItemRequest struct {
	ID          string           `json:"id,omitempty"`
	Description string           `json:"description" validate:"max=500"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Rate        decimal.Decimal  `json:"rate"`
	BuyingPrice *decimal.Decimal `json:"buying_price,omitempty"`
}

// InvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id. Fechas en formato 2006-01-02.
type InvoiceRequest struct {
	ClientID  string               `json:"client_id" validate:"required"`
	IssueDate string               `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate   string               `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Items     []InvoiceItemRequest `json:"items" validate:"dive"`
	TaxRate   decimal.Decimal      `json:"tax_rate"`
	Discount  decimal.Decimal      `json:"discount"`
	Currency  string               `json:"currency" validate:"omitempty,len=3"`
	Notes     string               `json:"notes" validate:"max=2000"`
	FieldMask *entity.FieldMask    `json:"field_mask,omitempty"`
	Version   int64                `json:"version"`
}

// PreviewRequest recálculo sin escritura.
type PreviewRequest struct {
	Items    []InvoiceItemRequest `json:"items" validate:"dive"`
	TaxRate  decimal.Decimal      `json:"tax_rate"`
	Discount decimal.Decimal      `json:"discount"`
}

// PreviewResponse totales derivados, redondeados a 2 decimales para mostrar.
type PreviewResponse struct {
	Items            []entity.InvoiceItem `json:"items"`
	TaxRate          decimal.Decimal      `json:"tax_rate"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	Tax              decimal.Decimal      `json:"tax"`
	Discount         decimal.Decimal      `json:"discount"`
	BuyingTotal      decimal.Decimal      `json:"buying_total"`
	Profit           decimal.Decimal      `json:"profit"`
	Total            decimal.Decimal      `json:"total"`
	ProfitIncomplete bool                 `json:"profit_incomplete"`
}

// InvoiceResponse factura con su estado efectivo (overdue se calcula al leer).
type InvoiceResponse struct {
	*entity.Invoice
	EffectiveStatus entity.InvoiceStatus `json:"effective_status"`
}

// SendInvoiceRequest destinatario opcional; por defecto el email del snapshot del cliente.
type SendInvoiceRequest struct {
	To string `json:"to" validate:"omitempty,email"`
}
