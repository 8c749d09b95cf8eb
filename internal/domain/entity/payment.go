package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pago iniciado.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Payment pago saliente desde una cuenta; opcionalmente liquida una factura.
type Payment struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	InvoiceID     string          `json:"invoice_id,omitempty"`
	Beneficiary   string          `json:"beneficiary"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Version       int64           `json:"version"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

func (p *Payment) FreezeID() string     { return p.ID }
func (p *Payment) FreezeName() string   { return p.Beneficiary }
func (p *Payment) FreezeStatus() string { return p.Status }
