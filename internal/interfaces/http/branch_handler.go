package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/application/usecase"
	"github.com/facturaloperu/facturacion-api/internal/domain"
)

// BranchHandler maneja las peticiones HTTP para sucursales (protegido).
type BranchHandler struct {
	uc *usecase.BranchUseCase
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *usecase.BranchUseCase) *BranchHandler {
	return &BranchHandler{uc: uc}
}

// Create godoc
// @Summary      Crear sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBranchRequest  true  "Datos de la sucursal"
// @Success      201   {object}  dto.Envelope{data=dto.BranchResponse}
// @Failure      409   {object}  dto.Envelope
// @Failure      422   {object}  dto.Envelope
// @Router       /api/v1/branches [post]
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
	}
	if in.Code == "" || in.Name == "" {
		return respondError(c, fmt.Errorf("%w: code y name son requeridos", domain.ErrInvalidInput))
	}
	out, err := h.uc.Create(c.UserContext(), GetClaims(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// GetByID godoc
// @Summary      Obtener sucursal por ID
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.Envelope{data=dto.BranchResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/branches/{id} [get]
func (h *BranchHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetClaims(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar sucursales
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Solo super_admin: empresa a listar"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.Envelope{data=[]dto.BranchResponse}
// @Router       /api/v1/branches [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetClaims(c), c.Query("company_id"), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Update godoc
// @Summary      Actualizar sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sucursal"
// @Param        body  body  dto.UpdateBranchRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.Envelope{data=dto.BranchResponse}
// @Failure      404   {object}  dto.Envelope
// @Router       /api/v1/branches/{id} [put]
func (h *BranchHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBranchRequest
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
// @Summary      Eliminar sucursal
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/branches/{id} [delete]
func (h *BranchHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetClaims(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKMessage("sucursal eliminada"))
}
