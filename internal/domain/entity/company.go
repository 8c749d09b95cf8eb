package entity

import "time"

// CompanyProfileID clave del perfil único de empresa.
const CompanyProfileID = "default"

// Company perfil singleton de la empresa emisora, embebido en cada factura renderizada.
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LogoDataURI string    `json:"logo_data_uri,omitempty"` // data:image/png;base64,...
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Website     string    `json:"website,omitempty"`
	TaxID       string    `json:"tax_id,omitempty"`
	Version     int64     `json:"version"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullAddress une dirección, ciudad y país.
func (c *Company) FullAddress() string {
	return joinNonEmpty(", ", c.Address, c.City, c.Country)
}
