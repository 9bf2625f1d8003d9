package repository

import (
	"context"

	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
)

// BranchRepository define el puerto de persistencia para Branch.
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	Delete(ctx context.Context, id string) error
}
