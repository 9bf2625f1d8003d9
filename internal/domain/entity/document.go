package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comprobante electrónico (catálogo 01 SUNAT).
const (
	DocFactura     = "01" // Factura (serie F***)
	DocBoleta      = "03" // Boleta de venta (serie B***)
	DocNotaCredito = "07" // Nota de crédito
	DocNotaDebito  = "08" // Nota de débito
)

// Estados del ciclo de vida SUNAT de un comprobante.
const (
	SunatStatusDraft      = "DRAFT"       // persistido, aún sin enviar
	SunatStatusAceptado   = "ACEPTADO"    // CDR con código 0
	SunatStatusRechazado  = "RECHAZADO"   // CDR con error de negocio
	SunatStatusErrorEnvio = "ERROR_ENVIO" // fallo de transporte contra el colaborador
)

// Document representa la cabecera de un comprobante electrónico
// (factura, boleta, nota de crédito o débito).
type Document struct {
	ID          string
	CompanyID   string
	BranchID    string
	ClientID    string
	Type        string // catálogo 01: "01", "03", "07", "08"
	Serie       string // F001, B001, FC01...
	Correlativo int64
	IssueDate   time.Time
	Currency    string // PEN, USD
	// Totales declarados por el emisor; el colaborador de envío valida IGV.
	Gravado decimal.Decimal
	IGV     decimal.Decimal
	Total   decimal.Decimal
	// Notas de crédito/débito: referencia al comprobante afectado.
	AffectedID   string
	NoteTypeCode string // catálogos 09/10 (motivo de la nota)
	NoteReason   string
	// Resultado del envío a SUNAT.
	SunatStatus      string
	SunatCode        string // código del CDR (0 = aceptado)
	SunatDescription string
	Hash             string // digest del XML firmado, lo reporta el colaborador
	XMLPath          string // ruta del XML firmado en el file store
	CDRPath          string // ruta del CDR (zip) en el file store
	PDFPath          string // ruta del PDF generado (vacío hasta la primera descarga)
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Name devuelve el identificador humano del comprobante (ej. "F001-123").
func (d *Document) Name() string {
	return d.Serie + "-" + strconv.FormatInt(d.Correlativo, 10)
}

// DocumentLine representa una línea de detalle del comprobante.
type DocumentLine struct {
	ID          string
	DocumentID  string
	Description string
	UnitCode    string // catálogo 03 (NIU, ZZ, KGM...)
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // precio unitario sin IGV
	IGVRate     decimal.Decimal // 0.18 o 0 (exonerado/inafecto)
	Subtotal    decimal.Decimal
}

// SeriePrefixFor devuelve el prefijo de serie esperado para cada tipo de
// comprobante: F para facturas y notas sobre facturas, B para boletas y sus notas.
func SeriePrefixFor(docType string) []string {
	switch docType {
	case DocFactura:
		return []string{"F"}
	case DocBoleta:
		return []string{"B"}
	case DocNotaCredito, DocNotaDebito:
		return []string{"F", "B"}
	}
	return nil
}

// ValidSerie verifica formato (letra + 3 alfanuméricos en mayúscula) y prefijo
// según el tipo.
func ValidSerie(docType, serie string) bool {
	if len(serie) != 4 {
		return false
	}
	prefixes := SeriePrefixFor(docType)
	if prefixes == nil {
		return false
	}
	match := false
	for _, p := range prefixes {
		if strings.HasPrefix(serie, p) {
			match = true
			break
		}
	}
	if !match {
		return false
	}
	for _, r := range serie[1:] {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
