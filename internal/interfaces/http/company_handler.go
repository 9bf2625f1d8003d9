package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/application/usecase"
)

// CompanyHandler maneja las peticiones HTTP para empresas (protegido).
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear empresa (solo super_admin)
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.Envelope{data=dto.CompanyResponse}
// @Failure      403   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/v1/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
	}
	out, err := h.uc.Create(c.UserContext(), GetClaims(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.Envelope{data=dto.CompanyResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetClaims(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar empresas (tenant ve solo la suya)
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.Envelope{data=[]dto.CompanyResponse}
// @Router       /api/v1/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	page := parsePage(c)
	out, err := h.uc.List(c.UserContext(), GetClaims(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Update godoc
// @Summary      Actualizar empresa
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la empresa"
// @Param        body  body  dto.UpdateCompanyRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.Envelope{data=dto.CompanyResponse}
// @Failure      404   {object}  dto.Envelope
// @Router       /api/v1/companies/{id} [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
	}
	out, err := h.uc.Update(c.UserContext(), GetClaims(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Delete godoc
// @Summary      Eliminar empresa (solo super_admin)
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.Envelope
// @Failure      403  {object}  dto.Envelope
// @Router       /api/v1/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetClaims(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKMessage("empresa eliminada"))
}

// parsePage lee limit/offset de los query params con defaults y tope.
func parsePage(c *fiber.Ctx) dto.PageRequest {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return dto.PageRequest{Limit: limit, Offset: offset}
}
