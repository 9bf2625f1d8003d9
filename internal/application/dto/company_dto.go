package dto

import "time"

// CreateCompanyRequest entrada para registrar una empresa emisora (solo super_admin).
type CreateCompanyRequest struct {
	RUC             string `json:"ruc" validate:"required,len=11,numeric"`
	RazonSocial     string `json:"razon_social" validate:"required,min=1,max=300"`
	NombreComercial string `json:"nombre_comercial" validate:"omitempty,max=300"`
	Address         string `json:"address" validate:"omitempty,max=300"`
	Ubigeo          string `json:"ubigeo" validate:"omitempty,len=6,numeric"`
	Phone           string `json:"phone" validate:"omitempty,max=30"`
	Email           string `json:"email" validate:"omitempty,email"`
	SOLUser         string `json:"sol_user" validate:"omitempty,max=50"`
}

// UpdateCompanyRequest entrada para actualizar datos de la empresa.
type UpdateCompanyRequest struct {
	RazonSocial     string `json:"razon_social" validate:"omitempty,max=300"`
	NombreComercial string `json:"nombre_comercial" validate:"omitempty,max=300"`
	Address         string `json:"address" validate:"omitempty,max=300"`
	Ubigeo          string `json:"ubigeo" validate:"omitempty,len=6,numeric"`
	Phone           string `json:"phone" validate:"omitempty,max=30"`
	Email           string `json:"email" validate:"omitempty,email"`
	SOLUser         string `json:"sol_user" validate:"omitempty,max=50"`
	Status          string `json:"status" validate:"omitempty,oneof=active suspended inactive"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID              string    `json:"id"`
	RUC             string    `json:"ruc"`
	RazonSocial     string    `json:"razon_social"`
	NombreComercial string    `json:"nombre_comercial,omitempty"`
	Address         string    `json:"address,omitempty"`
	Ubigeo          string    `json:"ubigeo,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	SOLUser         string    `json:"sol_user,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
