package tenant

import (
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	pkgjwt "github.com/facturaloperu/facturacion-api/pkg/jwt"
)

// Claims es la identidad explícita del request. Se construye una vez en el
// middleware de auth a partir del token y se pasa como valor a cada caso de
// uso; no existe estado global de "usuario actual".
type Claims struct {
	UserID    string
	CompanyID string // vacío para super_admin
	Role      entity.Role
	UserType  entity.UserType
	Abilities []string
}

// FromToken construye los Claims de aplicación desde los claims del JWT.
func FromToken(tc *pkgjwt.Claims) Claims {
	return Claims{
		UserID:    tc.UserID,
		CompanyID: tc.CompanyID,
		Role:      entity.Role(tc.Role),
		UserType:  entity.UserType(tc.UserType),
		Abilities: tc.Abilities,
	}
}

// IsSuperAdmin indica si el actor salta el aislamiento multi-tenant.
func (c Claims) IsSuperAdmin() bool { return c.Role.IsSuperAdmin() }

// Can verifica una ability del token. El comodín "*" concede todo.
// Las abilities viajan en el token desde la emisión; no se re-derivan del rol.
func (c Claims) Can(ability string) bool {
	for _, a := range c.Abilities {
		if a == entity.AbilityAll || a == ability {
			return true
		}
	}
	return false
}
