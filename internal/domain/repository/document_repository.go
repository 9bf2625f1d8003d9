package repository

import (
	"context"
	"time"

	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
)

// DocumentFilter filtros de listado de comprobantes. Los campos vacíos no filtran.
type DocumentFilter struct {
	CompanyID string // obligatorio para no super_admin (lo impone la capa tenant)
	Type      string
	Serie     string
	Status    string
	ClientID  string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// DocumentRepository define el puerto de persistencia para Document y sus líneas.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	CreateLine(ctx context.Context, line *entity.DocumentLine) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	GetLines(ctx context.Context, documentID string) ([]*entity.DocumentLine, error)
	// NextCorrelativo reserva el siguiente número de la serie dentro de la
	// transacción activa (MAX+1 con lock de las filas de la serie).
	NextCorrelativo(ctx context.Context, companyID, serie string) (int64, error)
	// UpdateSunat persiste los campos de resultado del envío:
	// sunat_status, sunat_code, sunat_description, hash, xml_path, cdr_path, pdf_path.
	UpdateSunat(ctx context.Context, doc *entity.Document) error
	List(ctx context.Context, f DocumentFilter) ([]*entity.Document, error)
	// ListBoletasByDate devuelve las boletas de la empresa emitidas en la fecha
	// indicada (entrada del resumen diario).
	ListBoletasByDate(ctx context.Context, companyID string, date time.Time) ([]*entity.Document, error)
}
