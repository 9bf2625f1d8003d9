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

// ClientUseCase gestión de clientes receptores.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// Create crea un cliente. company_id vacío = empresa del actor.
func (uc *ClientUseCase) Create(ctx context.Context, claims tenant.Claims, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityClientsManage); err != nil {
		return nil, err
	}
	companyID, err := tenant.ResolveWriteCompany(claims, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if in.DocNumber == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.DocType {
	case entity.DocTypeDNI, entity.DocTypeRUC, entity.DocTypeCE, entity.DocTypePAS:
	default:
		return nil, domain.ErrInvalidInput
	}
	// DNI 8 dígitos, RUC 11: los largos los valida SUNAT, aquí solo lo básico.
	if in.DocType == entity.DocTypeDNI && len(in.DocNumber) != 8 {
		return nil, domain.ErrInvalidInput
	}
	if in.DocType == entity.DocTypeRUC && len(in.DocNumber) != 11 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.clientRepo.GetByDoc(ctx, companyID, in.DocType, in.DocNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		DocType:   in.DocType,
		DocNumber: in.DocNumber,
		Name:      in.Name,
		Address:   in.Address,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Get obtiene un cliente con gate de objeto.
func (uc *ClientUseCase) Get(ctx context.Context, claims tenant.Claims, id string) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, client.CompanyID); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes de la empresa resuelta por la política tenant.
func (uc *ClientUseCase) List(ctx context.Context, claims tenant.Claims, requestedCompanyID string, page dto.PageRequest) ([]*dto.ClientResponse, error) {
	companyID, err := tenant.ResolveReadCompany(claims, requestedCompanyID)
	if err != nil {
		return nil, err
	}
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	clients, err := uc.clientRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Update actualiza un cliente con gate de objeto.
func (uc *ClientUseCase) Update(ctx context.Context, claims tenant.Claims, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	if err := tenant.RequireAbility(claims, entity.AbilityClientsManage); err != nil {
		return nil, err
	}
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, client.CompanyID); err != nil {
		return nil, err
	}
	if in.Name != "" {
		client.Name = in.Name
	}
	if in.Address != "" {
		client.Address = in.Address
	}
	if in.Email != "" {
		client.Email = in.Email
	}
	if in.Phone != "" {
		client.Phone = in.Phone
	}
	client.UpdatedAt = time.Now()
	if err := uc.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete elimina un cliente con gate de objeto.
func (uc *ClientUseCase) Delete(ctx context.Context, claims tenant.Claims, id string) error {
	if err := tenant.RequireAbility(claims, entity.AbilityClientsManage); err != nil {
		return err
	}
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	if err := tenant.AuthorizeRecord(claims, client.CompanyID); err != nil {
		return err
	}
	return uc.clientRepo.Delete(ctx, id)
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		DocType:   c.DocType,
		DocNumber: c.DocNumber,
		Name:      c.Name,
		Address:   c.Address,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
