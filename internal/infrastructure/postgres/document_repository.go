package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

const documentColumns = `id, company_id, branch_id, client_id, type, serie, correlativo, issue_date, currency,
	gravado, igv, total,
	COALESCE(affected_id::text, ''), COALESCE(note_type_code, ''), COALESCE(note_reason, ''),
	sunat_status, COALESCE(sunat_code, ''), COALESCE(sunat_description, ''), COALESCE(hash, ''),
	COALESCE(xml_path, ''), COALESCE(cdr_path, ''), COALESCE(pdf_path, ''),
	created_at, updated_at`

// DocumentRepo implementación del puerto DocumentRepository sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// NextCorrelativo reserva el siguiente número de la serie. Debe llamarse dentro
// de una transacción: el advisory lock sobre (company, serie) serializa
// emisiones concurrentes y se libera en el commit/rollback.
func (r *DocumentRepo) NextCorrelativo(ctx context.Context, companyID, serie string) (int64, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`, companyID, serie); err != nil {
		return 0, fmt.Errorf("lock serie: %w", err)
	}
	query := `
		SELECT COALESCE(MAX(correlativo), 0) + 1
		FROM documents
		WHERE company_id = $1 AND serie = $2`
	var next int64
	if err := r.q.QueryRow(ctx, query, companyID, serie).Scan(&next); err != nil {
		return 0, fmt.Errorf("next correlativo: %w", err)
	}
	return next, nil
}

// Create persiste la cabecera del comprobante.
// (company_id, type, serie, correlativo) es único.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO documents (id, company_id, branch_id, client_id, type, serie, correlativo, issue_date, currency,
			gravado, igv, total, affected_id, note_type_code, note_reason,
			sunat_status, sunat_code, sunat_description, hash, xml_path, cdr_path, pdf_path,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.CompanyID, doc.BranchID, doc.ClientID, doc.Type, doc.Serie, doc.Correlativo,
		doc.IssueDate, doc.Currency, doc.Gravado, doc.IGV, doc.Total,
		nullIfEmpty(doc.AffectedID), nullIfEmpty(doc.NoteTypeCode), nullIfEmpty(doc.NoteReason),
		doc.SunatStatus, nullIfEmpty(doc.SunatCode), nullIfEmpty(doc.SunatDescription), nullIfEmpty(doc.Hash),
		nullIfEmpty(doc.XMLPath), nullIfEmpty(doc.CDRPath), nullIfEmpty(doc.PDFPath),
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de detalle.
func (r *DocumentRepo) CreateLine(ctx context.Context, line *entity.DocumentLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO document_lines (id, document_id, description, unit_code, quantity, unit_price, igv_rate, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.DocumentID, line.Description, line.UnitCode,
		line.Quantity, line.UnitPrice, line.IGVRate, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert document line: %w", err)
	}
	return nil
}

// GetByID obtiene un comprobante por ID.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	var d entity.Document
	err := r.q.QueryRow(ctx, query, id).Scan(scanTargets(&d)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document by id: %w", err)
	}
	return &d, nil
}

// GetLines devuelve las líneas del comprobante en orden de inserción.
func (r *DocumentRepo) GetLines(ctx context.Context, documentID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT id, document_id, description, unit_code, quantity, unit_price, igv_rate, subtotal
		FROM document_lines WHERE document_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.Description, &l.UnitCode, &l.Quantity, &l.UnitPrice, &l.IGVRate, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// UpdateSunat persiste el resultado del envío (estado, código, hash y rutas de artefactos).
func (r *DocumentRepo) UpdateSunat(ctx context.Context, doc *entity.Document) error {
	query := `
		UPDATE documents SET sunat_status = $2, sunat_code = $3, sunat_description = $4, hash = $5,
			xml_path = $6, cdr_path = $7, pdf_path = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.SunatStatus, nullIfEmpty(doc.SunatCode), nullIfEmpty(doc.SunatDescription),
		nullIfEmpty(doc.Hash), nullIfEmpty(doc.XMLPath), nullIfEmpty(doc.CDRPath), nullIfEmpty(doc.PDFPath),
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document sunat: %w", err)
	}
	return nil
}

// List lista comprobantes según el filtro. Los campos vacíos no filtran.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	args := []any{}
	n := 0
	add := func(cond string, val any) {
		n++
		query += " AND " + cond + "$" + strconv.Itoa(n)
		args = append(args, val)
	}
	if f.CompanyID != "" {
		add("company_id = ", f.CompanyID)
	}
	if f.Type != "" {
		add("type = ", f.Type)
	}
	if f.Serie != "" {
		add("serie = ", f.Serie)
	}
	if f.Status != "" {
		add("sunat_status = ", f.Status)
	}
	if f.ClientID != "" {
		add("client_id = ", f.ClientID)
	}
	if f.From != nil {
		add("issue_date >= ", *f.From)
	}
	if f.To != nil {
		add("issue_date <= ", *f.To)
	}
	query += fmt.Sprintf(" ORDER BY issue_date DESC, serie, correlativo DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// ListBoletasByDate devuelve las boletas de la empresa emitidas en la fecha dada.
func (r *DocumentRepo) ListBoletasByDate(ctx context.Context, companyID string, date time.Time) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents
		WHERE company_id = $1 AND type = $2 AND issue_date::date = $3::date
		ORDER BY serie, correlativo`
	rows, err := r.q.Query(ctx, query, companyID, entity.DocBoleta, date)
	if err != nil {
		return nil, fmt.Errorf("list boletas by date: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func scanDocuments(rows pgx.Rows) ([]*entity.Document, error) {
	var list []*entity.Document
	for rows.Next() {
		var d entity.Document
		if err := rows.Scan(scanTargets(&d)...); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func scanTargets(d *entity.Document) []any {
	return []any{
		&d.ID, &d.CompanyID, &d.BranchID, &d.ClientID, &d.Type, &d.Serie, &d.Correlativo,
		&d.IssueDate, &d.Currency, &d.Gravado, &d.IGV, &d.Total,
		&d.AffectedID, &d.NoteTypeCode, &d.NoteReason,
		&d.SunatStatus, &d.SunatCode, &d.SunatDescription, &d.Hash,
		&d.XMLPath, &d.CDRPath, &d.PDFPath,
		&d.CreatedAt, &d.UpdatedAt,
	}
}
