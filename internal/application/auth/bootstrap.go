package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
)

// InitializeSystem crea el primer super_admin y devuelve un token sin
// restricciones. Solo funciona mientras no exista ningún usuario; en cuanto
// hay uno, falla incondicionalmente con ErrAlreadyInitialized (nunca puede
// crear un segundo super_admin por esta vía).
func (uc *AuthUseCase) InitializeSystem(ctx context.Context, in dto.InitSystemRequest) (*dto.LoginResponse, error) {
	count, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrAlreadyInitialized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    "", // super_admin no pertenece a ningún tenant
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleSuperAdmin,
		UserType:     entity.UserTypeSystem,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Carrera entre dos inicializaciones: otra ya insertó (el índice único
		// parcial sobre role = 'super_admin' garantiza que solo una gana).
		if errors.Is(err, domain.ErrEmailAlreadyExists) || errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrAlreadyInitialized
		}
		return nil, err
	}
	return uc.issueToken(user)
}
