package entity

import "time"

// Branch representa una sucursal / establecimiento anexo de la empresa.
// Cada sucursal emite con sus propias series (F001, B001, ...).
type Branch struct {
	ID        string
	CompanyID string
	Code      string // código de establecimiento SUNAT (ej. "0000")
	Name      string
	Address   string
	Ubigeo    string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
