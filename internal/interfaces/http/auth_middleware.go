package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/facturaloperu/facturacion-api/internal/application/dto"
	"github.com/facturaloperu/facturacion-api/internal/application/tenant"
	"github.com/facturaloperu/facturacion-api/pkg/jwt"
)

// LocalClaims es la key de c.Locals donde el middleware deja los claims.
const LocalClaims = "claims"

// AuthMiddleware valida el Bearer Token JWT y deja los tenant.Claims en
// c.Locals. Los claims se construyen una vez por request; las abilities vienen
// del token tal como se emitieron, nunca se re-derivan del rol.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("MISSING_TOKEN", "Authorization header requerido"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("INVALID_TOKEN", "formato: Bearer <token>"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("MISSING_TOKEN", "token vacío"))
		}
		tc, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("INVALID_TOKEN", "token inválido o expirado"))
		}
		c.Locals(LocalClaims, tenant.FromToken(tc))
		return c.Next()
	}
}

// GetClaims devuelve los claims del contexto (después del middleware de auth).
func GetClaims(c *fiber.Ctx) tenant.Claims {
	v := c.Locals(LocalClaims)
	if v == nil {
		return tenant.Claims{}
	}
	claims, _ := v.(tenant.Claims)
	return claims
}

// RequireAbility corta el request si el token no trae la ability. Es el gate
// grueso a nivel de ruta; los casos de uso repiten la verificación junto al
// dato (defensa en profundidad).
func RequireAbility(ability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if !claims.Can(ability) {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail("ABILITY_REQUIRED", "el token no tiene permiso para esta operación"))
		}
		return c.Next()
	}
}
