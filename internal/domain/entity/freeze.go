package entity

import "time"

// RecordClass clase de registro sujeta a congelamiento.
type RecordClass string

const (
	ClassPaidInvoices          RecordClass = "paidInvoices"
	ClassSavedClients          RecordClass = "savedClients"
	ClassCompletedPayments     RecordClass = "completedPayments"
	ClassFinalizedReports      RecordClass = "finalizedReports"
	ClassConfirmedOrders       RecordClass = "confirmedOrders"
	ClassProcessedTransactions RecordClass = "processedTransactions"
)

// FreezeSettingsID clave del único registro de configuración por despliegue.
const FreezeSettingsID = "global"

// FreezeSettings singleton que habilita o bloquea la edición de seis clases de registro.
type FreezeSettings struct {
	PaidInvoices          bool      `json:"paid_invoices"`
	SavedClients          bool      `json:"saved_clients"`
	CompletedPayments     bool      `json:"completed_payments"`
	FinalizedReports      bool      `json:"finalized_reports"`
	ConfirmedOrders       bool      `json:"confirmed_orders"`
	ProcessedTransactions bool      `json:"processed_transactions"`
	Version               int64     `json:"version"`
	UpdatedAt             time.Time `json:"updated_at"`
	UpdatedBy             string    `json:"updated_by,omitempty"`
}

// Flag devuelve el valor del flag de la clase; known=false para clases desconocidas.
func (f *FreezeSettings) Flag(class RecordClass) (enabled, known bool) {
	if f == nil {
		return false, true
	}
	switch class {
	case ClassPaidInvoices:
		return f.PaidInvoices, true
	case ClassSavedClients:
		return f.SavedClients, true
	case ClassCompletedPayments:
		return f.CompletedPayments, true
	case ClassFinalizedReports:
		return f.FinalizedReports, true
	case ClassConfirmedOrders:
		return f.ConfirmedOrders, true
	case ClassProcessedTransactions:
		return f.ProcessedTransactions, true
	default:
		return false, false
	}
}
