package entity

// FieldMask selección de campos visibles en la representación exportada de la factura.
// Un campo se omite si su bit está apagado o si su valor está vacío.
type FieldMask struct {
	Company CompanyFields `json:"company"`
	Client  ClientFields  `json:"client"`
	Invoice InvoiceFields `json:"invoice"`
}

type CompanyFields struct {
	Name    bool `json:"name"`
	Logo    bool `json:"logo"`
	Address bool `json:"address"`
	Phone   bool `json:"phone"`
	Email   bool `json:"email"`
	Website bool `json:"website"`
	TaxID   bool `json:"tax_id"`
}

type ClientFields struct {
	Name    bool `json:"name"`
	Email   bool `json:"email"`
	Phone   bool `json:"phone"`
	Address bool `json:"address"`
	Company bool `json:"company"`
	TaxID   bool `json:"tax_id"`
}

type InvoiceFields struct {
	Number      bool `json:"number"`
	IssueDate   bool `json:"issue_date"`
	DueDate     bool `json:"due_date"`
	Status      bool `json:"status"`
	Notes       bool `json:"notes"`
	Tax         bool `json:"tax"`
	Discount    bool `json:"discount"`
	Profit      bool `json:"profit"`
	BuyingPrice bool `json:"buying_price"`
}

// DefaultFieldMask todo visible salvo las cifras internas (utilidad y costo de compra).
func DefaultFieldMask() FieldMask {
	return FieldMask{
		Company: CompanyFields{Name: true, Logo: true, Address: true, Phone: true, Email: true, Website: true, TaxID: true},
		Client:  ClientFields{Name: true, Email: true, Phone: true, Address: true, Company: true, TaxID: true},
		Invoice: InvoiceFields{Number: true, IssueDate: true, DueDate: true, Status: true, Notes: true, Tax: true, Discount: true},
	}
}

// IsZero informa si ningún bit está encendido (máscara no inicializada).
func (m FieldMask) IsZero() bool { return m == FieldMask{} }
