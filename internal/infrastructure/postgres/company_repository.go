package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = `id, ruc, razon_social, COALESCE(nombre_comercial, ''), COALESCE(address, ''), COALESCE(ubigeo, ''), COALESCE(phone, ''), COALESCE(email, ''), COALESCE(sol_user, ''), status, created_at, updated_at`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una empresa. El RUC es único.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, ruc, razon_social, nombre_comercial, address, ubigeo, phone, email, sol_user, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.RUC, company.RazonSocial, nullIfEmpty(company.NombreComercial),
		nullIfEmpty(company.Address), nullIfEmpty(company.Ubigeo), nullIfEmpty(company.Phone),
		nullIfEmpty(company.Email), nullIfEmpty(company.SOLUser), company.Status,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get company by id")
}

// GetByRUC obtiene una empresa por RUC.
func (r *CompanyRepo) GetByRUC(ctx context.Context, ruc string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE ruc = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, ruc), "get company by ruc")
}

func (r *CompanyRepo) scanOne(row pgx.Row, op string) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.RUC, &c.RazonSocial, &c.NombreComercial, &c.Address, &c.Ubigeo,
		&c.Phone, &c.Email, &c.SOLUser, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// Update actualiza una empresa.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies SET razon_social = $2, nombre_comercial = $3, address = $4, ubigeo = $5, phone = $6, email = $7, sol_user = $8, status = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.RazonSocial, nullIfEmpty(company.NombreComercial),
		nullIfEmpty(company.Address), nullIfEmpty(company.Ubigeo), nullIfEmpty(company.Phone),
		nullIfEmpty(company.Email), nullIfEmpty(company.SOLUser), company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// List lista empresas con paginación (solo super_admin llega aquí sin filtro).
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.RUC, &c.RazonSocial, &c.NombreComercial, &c.Address, &c.Ubigeo, &c.Phone, &c.Email, &c.SOLUser, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina una empresa por ID.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}
