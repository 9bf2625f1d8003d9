package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del resumen diario.
const (
	SummaryStatusDraft     = "DRAFT"
	SummaryStatusEnviado   = "ENVIADO" // ticket recibido, CDR pendiente
	SummaryStatusAceptado  = "ACEPTADO"
	SummaryStatusRechazado = "RECHAZADO"
)

// Summary representa un resumen diario de boletas (RC). Las boletas no se
// envían individualmente a SUNAT; se agrupan por día y se consulta el
// resultado después con el ticket.
type Summary struct {
	ID          string
	CompanyID   string
	ReferenceDate time.Time // fecha de emisión de las boletas resumidas
	Correlativo string      // identificador RC-YYYYMMDD-N
	Ticket      string      // ticket devuelto por SUNAT vía el colaborador
	Status      string
	Total       decimal.Decimal // suma de los totales de las boletas incluidas
	SunatCode        string
	SunatDescription string
	XMLPath     string
	CDRPath     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SummaryLine vincula una boleta incluida en el resumen.
type SummaryLine struct {
	ID         string
	SummaryID  string
	DocumentID string
}
