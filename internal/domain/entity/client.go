package entity

import "time"

// Client representa un cliente facturable. Lo referencian las facturas por ClientID.
type Client struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	Country    string    `json:"country,omitempty"`
	Company    string    `json:"company,omitempty"`
	TaxID      string    `json:"tax_id,omitempty"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Client) FreezeID() string     { return c.ID }
func (c *Client) FreezeName() string   { return c.Name }
func (c *Client) FreezeStatus() string { return "" }

// FullAddress une los campos de dirección no vacíos.
func (c *Client) FullAddress() string {
	return joinNonEmpty(", ", c.Address, c.City, c.State, c.PostalCode, c.Country)
}

// Snapshot copia desnormalizada que se embebe en cada factura.
func (c *Client) Snapshot() ClientSnapshot {
	return ClientSnapshot{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.FullAddress(),
		Company: c.Company,
		TaxID:   c.TaxID,
	}
}

// ClientSnapshot datos del cliente congelados al momento de guardar la factura.
type ClientSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Company string `json:"company,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
