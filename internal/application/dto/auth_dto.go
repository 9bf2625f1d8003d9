package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token y su vencimiento (fijado según el tipo de usuario).
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Abilities []string     `json:"abilities"`
	User      UserResponse `json:"user"`
}

// InitSystemRequest entrada del bootstrap (primer super_admin).
type InitSystemRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// CompanyID vacío = la empresa del actor (se inyecta); super_admin debe indicarla.
type CreateUserRequest struct {
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Role      string `json:"role" validate:"required,oneof=admin emisor consultor"`
	UserType  string `json:"user_type" validate:"omitempty,oneof=system user api_client"`
}

// UpdateUserRequest entrada para actualizar un usuario.
type UpdateUserRequest struct {
	Name   string `json:"name" validate:"omitempty,max=200"`
	Role   string `json:"role" validate:"omitempty,oneof=admin emisor consultor"`
	Active *bool  `json:"active"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	UserType  string    `json:"user_type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
