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

var _ repository.BranchRepository = (*BranchRepo)(nil)

const branchColumns = `id, company_id, code, name, COALESCE(address, ''), COALESCE(ubigeo, ''), status, created_at, updated_at`

// BranchRepo implementación del puerto BranchRepository sobre PostgreSQL.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// Create persiste una sucursal. (company_id, code) es único.
func (r *BranchRepo) Create(ctx context.Context, branch *entity.Branch) error {
	query := `
		INSERT INTO branches (id, company_id, code, name, address, ubigeo, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		branch.ID, branch.CompanyID, branch.Code, branch.Name,
		nullIfEmpty(branch.Address), nullIfEmpty(branch.Ubigeo), branch.Status,
		branch.CreatedAt, branch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por ID.
func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	var b entity.Branch
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.CompanyID, &b.Code, &b.Name, &b.Address, &b.Ubigeo, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch by id: %w", err)
	}
	return &b, nil
}

// ListByCompany lista sucursales por company con paginación.
func (r *BranchRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Branch, error) {
	query := `SELECT ` + branchColumns + `
		FROM branches WHERE company_id = $1 ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.Code, &b.Name, &b.Address, &b.Ubigeo, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Update actualiza una sucursal.
func (r *BranchRepo) Update(ctx context.Context, branch *entity.Branch) error {
	query := `
		UPDATE branches SET code = $2, name = $3, address = $4, ubigeo = $5, status = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		branch.ID, branch.Code, branch.Name, nullIfEmpty(branch.Address),
		nullIfEmpty(branch.Ubigeo), branch.Status, branch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update branch: %w", err)
	}
	return nil
}

// Delete elimina una sucursal por ID.
func (r *BranchRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	return nil
}
