package dto

import "github.com/shopspring/decimal"

// BankAccountRequest alta de cuenta bancaria.
type BankAccountRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Bank           string          `json:"bank" validate:"max=200"`
	AccountNumber  string          `json:"account_number" validate:"max=64"`
	Type           string          `json:"type" validate:"required,oneof=checking savings credit"`
	Currency       string          `json:"currency" validate:"omitempty,len=3"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CreditRequest abono a una cuenta.
type CreditRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=500"`
}

// PaymentRequest inicio de pago saliente.
type PaymentRequest struct {
	AccountID   string          `json:"account_id" validate:"required"`
	Beneficiary string          `json:"beneficiary" validate:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
	InvoiceID   string          `json:"invoice_id"`
}

// UpdatePaymentRequest edición del beneficiario de un pago.
type UpdatePaymentRequest struct {
	Beneficiary string `json:"beneficiary" validate:"required,max=200"`
	Version     int64  `json:"version"`
}
