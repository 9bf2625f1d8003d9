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

// CompanyUseCase gestión de empresas emisoras. El alta y la baja son
// operaciones de plataforma (solo super_admin); cada tenant puede leer y
// actualizar la suya.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(companyRepo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo}
}

// Create registra una nueva empresa emisora (solo super_admin).
func (uc *CompanyUseCase) Create(ctx context.Context, claims tenant.Claims, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if !claims.IsSuperAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.RUC == "" || len(in.RUC) != 11 || in.RazonSocial == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.companyRepo.GetByRUC(ctx, in.RUC)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	company := &entity.Company{
		ID:              uuid.New().String(),
		RUC:             in.RUC,
		RazonSocial:     in.RazonSocial,
		NombreComercial: in.NombreComercial,
		Address:         in.Address,
		Ubigeo:          in.Ubigeo,
		Phone:           in.Phone,
		Email:           in.Email,
		SOLUser:         in.SOLUser,
		Status:          "active",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Get obtiene una empresa por ID con gate de objeto.
func (uc *CompanyUseCase) Get(ctx context.Context, claims tenant.Claims, id string) (*dto.CompanyResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityCompanyRead); err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, company.ID); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// List lista empresas (solo super_admin; un tenant solo ve la suya).
func (uc *CompanyUseCase) List(ctx context.Context, claims tenant.Claims, page dto.PageRequest) ([]*dto.CompanyResponse, error) {
	page.DefaultPage()
	if !claims.IsSuperAdmin() {
		// Un tenant lista exactamente su propia empresa.
		one, err := uc.Get(ctx, claims, claims.CompanyID)
		if err != nil {
			return nil, err
		}
		return []*dto.CompanyResponse{one}, nil
	}
	companies, err := uc.companyRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, toCompanyResponse(c))
	}
	return out, nil
}

// Update actualiza los datos de la empresa (la propia, o cualquiera si super_admin).
func (uc *CompanyUseCase) Update(ctx context.Context, claims tenant.Claims, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityCompanyManage); err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, company.ID); err != nil {
		return nil, err
	}
	if in.RazonSocial != "" {
		company.RazonSocial = in.RazonSocial
	}
	if in.NombreComercial != "" {
		company.NombreComercial = in.NombreComercial
	}
	if in.Address != "" {
		company.Address = in.Address
	}
	if in.Ubigeo != "" {
		company.Ubigeo = in.Ubigeo
	}
	if in.Phone != "" {
		company.Phone = in.Phone
	}
	if in.Email != "" {
		company.Email = in.Email
	}
	if in.SOLUser != "" {
		company.SOLUser = in.SOLUser
	}
	if in.Status != "" {
		// Suspender/reactivar es operación de plataforma.
		if !claims.IsSuperAdmin() {
			return nil, domain.ErrForbidden
		}
		company.Status = in.Status
	}
	company.UpdatedAt = time.Now()
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Delete elimina una empresa (solo super_admin).
func (uc *CompanyUseCase) Delete(ctx context.Context, claims tenant.Claims, id string) error {
	if !claims.IsSuperAdmin() {
		return domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	return uc.companyRepo.Delete(ctx, id)
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:              c.ID,
		RUC:             c.RUC,
		RazonSocial:     c.RazonSocial,
		NombreComercial: c.NombreComercial,
		Address:         c.Address,
		Ubigeo:          c.Ubigeo,
		Phone:           c.Phone,
		Email:           c.Email,
		SOLUser:         c.SOLUser,
		Status:          c.Status,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
