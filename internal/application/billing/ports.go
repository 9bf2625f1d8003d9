package billing

import (
	"context"
	"time"

	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con el repo de
// comprobantes atado a la tx (reserva de correlativo + inserts atómicos).
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(docRepo repository.DocumentRepository) error) error
}

// SubmitRequest es el paquete completo que el colaborador necesita para firmar
// y enviar un comprobante: cabecera, emisor, receptor y líneas. El colaborador
// es el dueño del XML UBL, la firma y las reglas de IGV.
type SubmitRequest struct {
	Document *entity.Document
	Company  *entity.Company
	Client   *entity.Client
	Lines    []*entity.DocumentLine
	// Affected solo para notas de crédito/débito.
	Affected *entity.Document
}

// SummarySubmitRequest paquete para enviar un resumen diario de boletas.
type SummarySubmitRequest struct {
	Summary *entity.Summary
	Company *entity.Company
	Boletas []*entity.Document
}

// SubmitResult resultado del colaborador. Un rechazo de negocio de SUNAT llega
// aquí con Accepted=false y el código/descripción del CDR; los fallos de
// transporte llegan como error de la llamada.
type SubmitResult struct {
	Accepted    bool
	Code        string // código de respuesta SUNAT ("0" = aceptado)
	Description string
	Hash        string // digest del XML firmado
	Ticket      string // solo resúmenes: ticket para consultar después
	SignedXML   []byte // XML firmado devuelto por el colaborador
	CDR         []byte // zip del CDR (vacío si aún no hay, ej. resumen con ticket)
}

// DocumentSubmitter puerto de salida hacia el colaborador de facturación.
type DocumentSubmitter interface {
	SubmitDocument(ctx context.Context, req *SubmitRequest) (*SubmitResult, error)
	SubmitSummary(ctx context.Context, req *SummarySubmitRequest) (*SubmitResult, error)
	// CheckTicket consulta el estado de un resumen enviado.
	CheckTicket(ctx context.Context, ticket string) (*SubmitResult, error)
}

// FileStore puerto del almacén de artefactos (XML firmado, CDR, PDF).
// Get devuelve domain.ErrNotFound si la ruta no existe.
type FileStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Get(ctx context.Context, path string) ([]byte, error)
}

// DocumentPDFGenerator genera la representación impresa del comprobante.
type DocumentPDFGenerator interface {
	GenerateDocumentPDF(
		ctx context.Context,
		doc *entity.Document,
		company *entity.Company,
		client *entity.Client,
		lines []*entity.DocumentLine,
	) ([]byte, error)
}

// Clock inyectable para tests (emisión usa la fecha del día por defecto).
type Clock func() time.Time
