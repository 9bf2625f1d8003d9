package dto

import "time"

// CreateBranchRequest entrada para crear una sucursal.
// CompanyID vacío = la empresa del actor (se inyecta).
type CreateBranchRequest struct {
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
	Code      string `json:"code" validate:"required,max=10"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Address   string `json:"address" validate:"omitempty,max=300"`
	Ubigeo    string `json:"ubigeo" validate:"omitempty,len=6,numeric"`
}

// UpdateBranchRequest entrada para actualizar una sucursal.
type UpdateBranchRequest struct {
	Name    string `json:"name" validate:"omitempty,max=200"`
	Address string `json:"address" validate:"omitempty,max=300"`
	Ubigeo  string `json:"ubigeo" validate:"omitempty,len=6,numeric"`
	Status  string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Ubigeo    string    `json:"ubigeo,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
