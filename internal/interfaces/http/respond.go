package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/domain"
)

// respondError mapea los errores de dominio al status HTTP y al sobre estándar.
// Todo handler pasa por aquí: un error nuevo sin mapeo sale como 500 genérico
// sin filtrar detalles internos.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.Fail("VALIDATION", err.Error()))
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("INVALID_CREDENTIALS", "credenciales inválidas"))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("UNAUTHORIZED", "no autorizado"))
	case errors.Is(err, domain.ErrAccountInactive):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("ACCOUNT_INACTIVE", "la cuenta está inactiva"))
	case errors.Is(err, domain.ErrAccountLocked):
		return c.Status(fiber.StatusLocked).JSON(dto.Fail("ACCOUNT_LOCKED", "cuenta bloqueada temporalmente por intentos fallidos"))
	case errors.Is(err, domain.ErrCrossTenant):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("CROSS_TENANT", "el recurso pertenece a otra empresa"))
	case errors.Is(err, domain.ErrAbilityRequired):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("ABILITY_REQUIRED", "el token no tiene permiso para esta operación"))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("FORBIDDEN", "acceso denegado"))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("NOT_FOUND", "recurso no encontrado"))
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail("EMAIL_EXISTS", "el email ya está registrado"))
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail("DUPLICATE", "el recurso ya existe"))
	case errors.Is(err, domain.ErrAlreadyInitialized):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail("ALREADY_INITIALIZED", "el sistema ya fue inicializado"))
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail("CONFLICT", "conflicto con el estado actual del recurso"))
	case errors.Is(err, domain.ErrUpstream):
		return c.Status(fiber.StatusBadGateway).JSON(dto.Fail("UPSTREAM", "fallo del servicio de facturación"))
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("INTERNAL", "error interno"))
}
