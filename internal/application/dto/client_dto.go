package dto

import "time"

// CreateClientRequest entrada para crear un cliente.
// CompanyID vacío = la empresa del actor (se inyecta).
type CreateClientRequest struct {
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
	DocType   string `json:"doc_type" validate:"required,oneof=1 4 6 7"`
	DocNumber string `json:"doc_number" validate:"required,max=15"`
	Name      string `json:"name" validate:"required,min=1,max=300"`
	Address   string `json:"address" validate:"omitempty,max=300"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

// UpdateClientRequest entrada para actualizar un cliente.
type UpdateClientRequest struct {
	Name    string `json:"name" validate:"omitempty,max=300"`
	Address string `json:"address" validate:"omitempty,max=300"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	DocType   string    `json:"doc_type"`
	DocNumber string    `json:"doc_number"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
