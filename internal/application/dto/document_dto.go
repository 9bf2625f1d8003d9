package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmitDocumentRequest entrada para emitir un comprobante (factura, boleta o nota).
// CompanyID vacío = la empresa del actor (se inyecta). Los totales los declara
// el emisor; el colaborador de envío valida el IGV contra sus propias reglas.
type EmitDocumentRequest struct {
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
	BranchID  string `json:"branch_id" validate:"required,uuid"`
	ClientID  string `json:"client_id" validate:"required,uuid"`
	Type      string `json:"type" validate:"required,oneof=01 03 07 08"`
	Serie     string `json:"serie" validate:"required,len=4"`
	IssueDate string `json:"issue_date" validate:"omitempty,datetime=2006-01-02"` // vacío = hoy
	Currency  string `json:"currency" validate:"omitempty,oneof=PEN USD"`
	// Solo notas de crédito/débito:
	AffectedID   string `json:"affected_id" validate:"omitempty,uuid"`
	NoteTypeCode string `json:"note_type_code" validate:"omitempty,len=2"`
	NoteReason   string `json:"note_reason" validate:"omitempty,max=300"`

	Lines []EmitLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// EmitLineRequest línea de detalle del comprobante.
type EmitLineRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	UnitCode    string          `json:"unit_code" validate:"omitempty,max=5"` // vacío = NIU
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IGVRate     decimal.Decimal `json:"igv_rate"` // 0.18 por defecto
}

// SunatResult bloque con el resultado del envío dentro de la respuesta.
type SunatResult struct {
	Status      string `json:"status"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
	Hash        string `json:"hash,omitempty"`
	Ticket      string `json:"ticket,omitempty"`
}

// DocumentResponse salida de un comprobante.
type DocumentResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	BranchID    string          `json:"branch_id"`
	ClientID    string          `json:"client_id"`
	ClientName  string          `json:"client_name,omitempty"`
	Type        string          `json:"type"`
	Serie       string          `json:"serie"`
	Correlativo int64           `json:"correlativo"`
	Name        string          `json:"name"` // ej. "F001-123"
	IssueDate   string          `json:"issue_date"`
	Currency    string          `json:"currency"`
	Gravado     decimal.Decimal `json:"gravado"`
	IGV         decimal.Decimal `json:"igv"`
	Total       decimal.Decimal `json:"total"`
	AffectedID  string          `json:"affected_id,omitempty"`
	Sunat       SunatResult     `json:"sunat"`
	Lines       []LineResponse  `json:"lines,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LineResponse línea de detalle en la respuesta.
type LineResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	UnitCode    string          `json:"unit_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IGVRate     decimal.Decimal `json:"igv_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ListDocumentsRequest filtros de listado (query params).
type ListDocumentsRequest struct {
	PageRequest
	CompanyID string `query:"company_id"`
	Type      string `query:"type"`
	Serie     string `query:"serie"`
	Status    string `query:"status"`
	ClientID  string `query:"client_id"`
	From      string `query:"from"` // YYYY-MM-DD
	To        string `query:"to"`
}
