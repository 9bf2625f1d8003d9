package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/application/usecase"
	"github.com/facturaloperu/facturacion-api/internal/domain"
)

// ClientHandler maneja las peticiones HTTP para clientes receptores (protegido).
type ClientHandler struct {
	uc *usecase.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.Envelope{data=dto.ClientResponse}
// @Failure      409   {object}  dto.Envelope
// @Failure      422   {object}  dto.Envelope
// @Router       /api/v1/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
	}
	if in.DocType == "" || in.DocNumber == "" || in.Name == "" {
		return respondError(c, fmt.Errorf("%w: doc_type, doc_number y name son requeridos", domain.ErrInvalidInput))
	}
	out, err := h.uc.Create(c.UserContext(), GetClaims(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// GetByID godoc
// @Summary      Obtener cliente por ID
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.Envelope{data=dto.ClientResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetClaims(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar clientes
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Solo super_admin: empresa a listar"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.Envelope{data=[]dto.ClientResponse}
// @Router       /api/v1/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetClaims(c), c.Query("company_id"), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.UpdateClientRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.Envelope{data=dto.ClientResponse}
// @Failure      404   {object}  dto.Envelope
// @Router       /api/v1/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
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
// @Summary      Eliminar cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetClaims(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OKMessage("cliente eliminado"))
}
