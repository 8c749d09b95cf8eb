package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard. Cada bloque viaja solo si el actor
// tiene la capacidad de la sección correspondiente.
type DashboardSummaryDTO struct {
	DateLabel string              `json:"date_label"`
	Invoices  *InvoiceWidgetDTO   `json:"invoices,omitempty"`
	Accounts  []CurrencyAmountDTO `json:"accounts,omitempty"`
	Payments  *PaymentWidgetDTO   `json:"payments,omitempty"`
	HR        *HRWidgetDTO        `json:"hr,omitempty"`
}

// InvoiceWidgetDTO conteo por estado efectivo y montos por moneda.
type InvoiceWidgetDTO struct {
	Count    int                `json:"count"`
	ByStatus map[string]int     `json:"by_status"`
	Totals   []InvoiceTotalsDTO `json:"totals"`
}

// InvoiceTotalsDTO montos de una moneda. MonthlyBilled cubre las emitidas en el mes en curso.
type InvoiceTotalsDTO struct {
	Currency      string          `json:"currency"`
	Billed        decimal.Decimal `json:"billed"`
	Collected     decimal.Decimal `json:"collected"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Overdue       decimal.Decimal `json:"overdue"`
	MonthlyBilled decimal.Decimal `json:"monthly_billed"`
}

// CurrencyAmountDTO monto agregado de una moneda.
type CurrencyAmountDTO struct {
	Currency string          `json:"currency"`
	Count    int             `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
}

// PaymentWidgetDTO pagos a la espera de confirmación bancaria.
type PaymentWidgetDTO struct {
	Pending       int             `json:"pending"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// HRWidgetDTO solicitudes por revisar y ausencias en curso.
type HRWidgetDTO struct {
	OpenLeaves    int `json:"open_leaves"`
	OnLeaveToday  int `json:"on_leave_today"`
	Announcements int `json:"announcements"`
}
