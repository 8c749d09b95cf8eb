package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cuenta bancaria.
const (
	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"
	AccountTypeCredit   = "credit"
)

// BankAccount cuenta bancaria; Balance se modifica solo por abonos y débitos registrados.
type BankAccount struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Bank          string          `json:"bank"`
	AccountNumber string          `json:"account_number"`
	Type          string          `json:"type"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
