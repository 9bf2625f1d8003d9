package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/facturaloperu/facturacion-api/internal/application/auth"
	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/domain"
)

// AuthHandler maneja login e inicialización del sistema.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.Envelope{data=dto.LoginResponse}
// @Failure      401   {object}  dto.Envelope
// @Failure      422   {object}  dto.Envelope
// @Failure      423   {object}  dto.Envelope
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
	}
	if in.Email == "" || in.Password == "" {
		return respondError(c, fmt.Errorf("%w: email y password son requeridos", domain.ErrInvalidInput))
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// InitSystem godoc
// @Summary      Inicializar el sistema (primer super_admin)
// @Description  Solo funciona una vez, con la tabla de usuarios vacía.
// @Tags         system
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitSystemRequest  true  "email, password"
// @Success      201   {object}  dto.Envelope{data=dto.LoginResponse}
// @Failure      409   {object}  dto.Envelope
// @Failure      422   {object}  dto.Envelope
// @Router       /api/v1/system/init [post]
func (h *AuthHandler) InitSystem(c *fiber.Ctx) error {
	var in dto.InitSystemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
	}
	if in.Email == "" || len(in.Password) < 8 {
		return respondError(c, fmt.Errorf("%w: email y password (mínimo 8 caracteres) son requeridos", domain.ErrInvalidInput))
	}
	out, err := h.uc.InitializeSystem(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}
