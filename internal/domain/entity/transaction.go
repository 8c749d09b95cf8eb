package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento bancario.
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// Estados de un movimiento.
const (
	TransactionPending   = "pending"
	TransactionProcessed = "processed"
)

// Transaction movimiento del log append-only de una cuenta (auditoría y exportación).
type Transaction struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Kind         string          `json:"kind"` // credit | debit
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reference    string          `json:"reference,omitempty"` // ID de pago o factura
	Description  string          `json:"description,omitempty"`
	Status       string          `json:"status"`
	CreatedBy    string          `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (t *Transaction) FreezeID() string     { return t.ID }
func (t *Transaction) FreezeName() string   { return t.Description }
func (t *Transaction) FreezeStatus() string { return t.Status }
