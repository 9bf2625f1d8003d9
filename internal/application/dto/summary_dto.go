package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSummaryRequest entrada para generar el resumen diario de boletas.
// CompanyID vacío = la empresa del actor (se inyecta).
type CreateSummaryRequest struct {
	CompanyID     string `json:"company_id" validate:"omitempty,uuid"`
	ReferenceDate string `json:"reference_date" validate:"required,datetime=2006-01-02"`
}

// SummaryResponse salida de un resumen diario.
type SummaryResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	ReferenceDate string          `json:"reference_date"`
	Correlativo   string          `json:"correlativo"`
	Ticket        string          `json:"ticket,omitempty"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	Sunat         SunatResult     `json:"sunat"`
	Documents     []string        `json:"documents,omitempty"` // IDs de boletas incluidas
	CreatedAt     time.Time       `json:"created_at"`
}
