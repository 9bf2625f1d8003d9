package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/internal/domain/repository"
)

var _ repository.SummaryRepository = (*SummaryRepo)(nil)

const summaryColumns = `id, company_id, reference_date, correlativo, COALESCE(ticket, ''), status, total,
	COALESCE(sunat_code, ''), COALESCE(sunat_description, ''), COALESCE(xml_path, ''), COALESCE(cdr_path, ''),
	created_at, updated_at`

// SummaryRepo implementación del puerto SummaryRepository sobre PostgreSQL.
type SummaryRepo struct {
	q Querier
}

// NewSummaryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSummaryRepository(q Querier) *SummaryRepo {
	return &SummaryRepo{q: q}
}

// Create persiste un resumen diario. (company_id, correlativo) es único.
func (r *SummaryRepo) Create(ctx context.Context, summary *entity.Summary) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	query := `
		INSERT INTO summaries (id, company_id, reference_date, correlativo, ticket, status, total,
			sunat_code, sunat_description, xml_path, cdr_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		summary.ID, summary.CompanyID, summary.ReferenceDate, summary.Correlativo,
		nullIfEmpty(summary.Ticket), summary.Status, summary.Total,
		nullIfEmpty(summary.SunatCode), nullIfEmpty(summary.SunatDescription),
		nullIfEmpty(summary.XMLPath), nullIfEmpty(summary.CDRPath),
		summary.CreatedAt, summary.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

// CreateLine vincula una boleta incluida en el resumen.
func (r *SummaryRepo) CreateLine(ctx context.Context, line *entity.SummaryLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `INSERT INTO summary_lines (id, summary_id, document_id) VALUES ($1, $2, $3)`
	_, err := r.q.Exec(ctx, query, line.ID, line.SummaryID, line.DocumentID)
	if err != nil {
		return fmt.Errorf("insert summary line: %w", err)
	}
	return nil
}

// GetByID obtiene un resumen por ID.
func (r *SummaryRepo) GetByID(ctx context.Context, id string) (*entity.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM summaries WHERE id = $1`
	var s entity.Summary
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CompanyID, &s.ReferenceDate, &s.Correlativo, &s.Ticket, &s.Status, &s.Total,
		&s.SunatCode, &s.SunatDescription, &s.XMLPath, &s.CDRPath, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get summary by id: %w", err)
	}
	return &s, nil
}

// GetLines devuelve las boletas vinculadas al resumen.
func (r *SummaryRepo) GetLines(ctx context.Context, summaryID string) ([]*entity.SummaryLine, error) {
	query := `SELECT id, summary_id, document_id FROM summary_lines WHERE summary_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, summaryID)
	if err != nil {
		return nil, fmt.Errorf("get summary lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.SummaryLine
	for rows.Next() {
		var l entity.SummaryLine
		if err := rows.Scan(&l.ID, &l.SummaryID, &l.DocumentID); err != nil {
			return nil, fmt.Errorf("scan summary line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// CountByDate cuenta resúmenes de la empresa para una fecha (numera el RC del día).
func (r *SummaryRepo) CountByDate(ctx context.Context, companyID string, date time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM summaries WHERE company_id = $1 AND reference_date::date = $2::date`
	var n int64
	if err := r.q.QueryRow(ctx, query, companyID, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("count summaries by date: %w", err)
	}
	return n, nil
}

// Update actualiza estado, ticket y resultado SUNAT del resumen.
func (r *SummaryRepo) Update(ctx context.Context, summary *entity.Summary) error {
	query := `
		UPDATE summaries SET ticket = $2, status = $3, sunat_code = $4, sunat_description = $5,
			xml_path = $6, cdr_path = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		summary.ID, nullIfEmpty(summary.Ticket), summary.Status,
		nullIfEmpty(summary.SunatCode), nullIfEmpty(summary.SunatDescription),
		nullIfEmpty(summary.XMLPath), nullIfEmpty(summary.CDRPath), summary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update summary: %w", err)
	}
	return nil
}

// ListByCompany lista resúmenes por company con paginación.
func (r *SummaryRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Summary, error) {
	query := `SELECT ` + summaryColumns + `
		FROM summaries WHERE company_id = $1 ORDER BY reference_date DESC, correlativo DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Summary
	for rows.Next() {
		var s entity.Summary
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.ReferenceDate, &s.Correlativo, &s.Ticket, &s.Status, &s.Total, &s.SunatCode, &s.SunatDescription, &s.XMLPath, &s.CDRPath, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
