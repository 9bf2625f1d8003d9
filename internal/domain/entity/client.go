package entity

import "time"

// Tipos de documento de identidad (catálogo 06 SUNAT).
const (
	DocTypeDNI = "1" // Documento Nacional de Identidad
	DocTypeRUC = "6" // Registro Único de Contribuyentes
	DocTypeCE  = "4" // Carnet de extranjería
	DocTypePAS = "7" // Pasaporte
)

// Client representa un cliente receptor de comprobantes de la empresa.
type Client struct {
	ID        string
	CompanyID string
	DocType   string // catálogo 06: "1" DNI, "6" RUC, etc.
	DocNumber string
	Name      string // razón social o nombre completo
	Address   string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
