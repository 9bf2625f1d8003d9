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

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, company_id, doc_type, doc_number, name, COALESCE(address, ''), COALESCE(email, ''), COALESCE(phone, ''), created_at, updated_at`

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un cliente. (company_id, doc_type, doc_number) es único.
func (r *ClientRepo) Create(ctx context.Context, client *entity.Client) error {
	query := `
		INSERT INTO clients (id, company_id, doc_type, doc_number, name, address, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		client.ID, client.CompanyID, client.DocType, client.DocNumber, client.Name,
		nullIfEmpty(client.Address), nullIfEmpty(client.Email), nullIfEmpty(client.Phone),
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get client by id")
}

// GetByDoc obtiene un cliente por documento de identidad dentro de la empresa.
func (r *ClientRepo) GetByDoc(ctx context.Context, companyID, docType, docNumber string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE company_id = $1 AND doc_type = $2 AND doc_number = $3`
	return r.scanOne(r.q.QueryRow(ctx, query, companyID, docType, docNumber), "get client by doc")
}

func (r *ClientRepo) scanOne(row pgx.Row, op string) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.DocType, &c.DocNumber, &c.Name, &c.Address,
		&c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// ListByCompany lista clientes por company con paginación.
func (r *ClientRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + `
		FROM clients WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.DocType, &c.DocNumber, &c.Name, &c.Address, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente.
func (r *ClientRepo) Update(ctx context.Context, client *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, address = $3, email = $4, phone = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		client.ID, client.Name, nullIfEmpty(client.Address), nullIfEmpty(client.Email),
		nullIfEmpty(client.Phone), client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Delete elimina un cliente por ID.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
