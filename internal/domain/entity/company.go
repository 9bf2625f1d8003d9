package entity

import "time"

// Company representa una empresa emisora (tenant del sistema, enfoque Perú).
// Es la frontera de aislamiento: todo registro de dominio lleva su CompanyID.
type Company struct {
	ID          string
	RUC         string // RUC de 11 dígitos
	RazonSocial string
	NombreComercial string
	Address     string
	Ubigeo      string // código de ubicación geográfica INEI (6 dígitos)
	Phone       string
	Email       string
	SOLUser     string // usuario secundario SOL registrado en el colaborador de envío
	Status      string // active, suspended, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
