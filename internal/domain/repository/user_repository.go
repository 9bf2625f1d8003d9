package repository

import (
	"context"

	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las implementaciones devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// UpdateLockState persiste solo failed_attempts y locked_until
	// (camino caliente del login, no toca el resto de la fila).
	UpdateLockState(ctx context.Context, user *entity.User) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
	// Count devuelve el total de usuarios del sistema (gate del bootstrap).
	Count(ctx context.Context) (int64, error)
}
