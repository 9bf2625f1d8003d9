package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/application/tenant"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	"github.com/facturaloperu/facturacion-api/internal/domain/repository"
)

// BranchUseCase gestión de sucursales (establecimientos anexos).
type BranchUseCase struct {
	branchRepo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(branchRepo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{branchRepo: branchRepo}
}

// Create crea una sucursal. company_id vacío = empresa del actor.
func (uc *BranchUseCase) Create(ctx context.Context, claims tenant.Claims, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityBranchesManage); err != nil {
		return nil, err
	}
	companyID, err := tenant.ResolveWriteCompany(claims, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      in.Code,
		Name:      in.Name,
		Address:   in.Address,
		Ubigeo:    in.Ubigeo,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// Get obtiene una sucursal con gate de objeto.
func (uc *BranchUseCase) Get(ctx context.Context, claims tenant.Claims, id string) (*dto.BranchResponse, error) {
	branch, err := uc.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, branch.CompanyID); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// List lista sucursales de la empresa resuelta por la política tenant.
func (uc *BranchUseCase) List(ctx context.Context, claims tenant.Claims, requestedCompanyID string, page dto.PageRequest) ([]*dto.BranchResponse, error) {
	companyID, err := tenant.ResolveReadCompany(claims, requestedCompanyID)
	if err != nil {
		return nil, err
	}
	if companyID == "" {
		// super_admin sin filtro: exigir empresa, un listado global no tiene uso.
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	branches, err := uc.branchRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, toBranchResponse(b))
	}
	return out, nil
}

// Update actualiza una sucursal con gate de objeto.
func (uc *BranchUseCase) Update(ctx context.Context, claims tenant.Claims, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityBranchesManage); err != nil {
		return nil, err
	}
	branch, err := uc.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, branch.CompanyID); err != nil {
		return nil, err
	}
	if in.Name != "" {
		branch.Name = in.Name
	}
	if in.Address != "" {
		branch.Address = in.Address
	}
	if in.Ubigeo != "" {
		branch.Ubigeo = in.Ubigeo
	}
	if in.Status != "" {
		branch.Status = in.Status
	}
	branch.UpdatedAt = time.Now()
	if err := uc.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// Delete elimina una sucursal con gate de objeto.
func (uc *BranchUseCase) Delete(ctx context.Context, claims tenant.Claims, id string) error {
	if err := tenant.RequireAbility(claims, entity.AbilityBranchesManage); err != nil {
		return err
	}
	branch, err := uc.branchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, branch.CompanyID); err != nil {
		return err
	}
	return uc.branchRepo.Delete(ctx, id)
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		Code:      b.Code,
		Name:      b.Name,
		Address:   b.Address,
		Ubigeo:    b.Ubigeo,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
