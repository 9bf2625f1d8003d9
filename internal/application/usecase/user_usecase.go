package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/application/tenant"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/internal/domain/repository"
)

// UserUseCase gestión de usuarios. Un admin administra los usuarios de su
// empresa; super_admin los de cualquiera. Crear otro super_admin por esta vía
// está vedado: el único super_admin nace en el bootstrap.
type UserUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, companyRepo: companyRepo}
}

// Create crea un usuario. company_id vacío = empresa del actor.
func (uc *UserUseCase) Create(ctx context.Context, claims tenant.Claims, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityUsersManage); err != nil {
		return nil, err
	}
	companyID, err := tenant.ResolveWriteCompany(claims, in.CompanyID)
	if err != nil {
		return nil, err
	}
	role := entity.Role(in.Role)
	// Escalada vedada: nadie crea super_admin, ni siquiera un super_admin.
	if !role.Valid() || role.IsSuperAdmin() {
		return nil, domain.ErrInvalidInput
	}
	userType := entity.UserType(in.UserType)
	if in.UserType == "" {
		userType = entity.UserTypeUser
	}
	if !userType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	// El tipo system queda reservado a la plataforma.
	if userType == entity.UserTypeSystem && !claims.IsSuperAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		UserType:     userType,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Get obtiene un usuario con gate de objeto.
func (uc *UserUseCase) Get(ctx context.Context, claims tenant.Claims, id string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, user.CompanyID); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List lista usuarios de la empresa resuelta por la política tenant.
func (uc *UserUseCase) List(ctx context.Context, claims tenant.Claims, requestedCompanyID string, page dto.PageRequest) ([]*dto.UserResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityUsersManage); err != nil {
		return nil, err
	}
	companyID, err := tenant.ResolveReadCompany(claims, requestedCompanyID)
	if err != nil {
		return nil, err
	}
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	users, err := uc.userRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

// Update actualiza nombre, rol o estado de un usuario con gate de objeto.
func (uc *UserUseCase) Update(ctx context.Context, claims tenant.Claims, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityUsersManage); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, user.CompanyID); err != nil {
		return nil, err
	}
	// El super_admin del bootstrap no se degrada ni se desactiva por API.
	if user.Role.IsSuperAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Role != "" {
		role := entity.Role(in.Role)
		if !role.Valid() || role.IsSuperAdmin() {
			return nil, domain.ErrInvalidInput
		}
		user.Role = role
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Delete elimina un usuario con gate de objeto.
func (uc *UserUseCase) Delete(ctx context.Context, claims tenant.Claims, id string) error {
	if err := tenant.RequireAbility(claims, entity.AbilityUsersManage); err != nil {
		return err
	}
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, user.CompanyID); err != nil {
		return err
	}
	if user.Role.IsSuperAdmin() {
		return domain.ErrForbidden
	}
	return uc.userRepo.Delete(ctx, id)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		UserType:  string(u.UserType),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
