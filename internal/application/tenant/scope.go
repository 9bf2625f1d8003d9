// Package tenant implementa la política de aislamiento multi-tenant.
//
// Contrato: para todo request autenticado de un actor que no es super_admin,
// la empresa del token es autoritativa. Las funciones son puras y se invocan
// en dos niveles: al entrar el request (resolver/filtrar la empresa antes de
// tocar lógica de negocio) y de nuevo sobre cada registro cargado por ID
// (defensa en profundidad contra adivinación de IDs). Un cruce de tenant
// nunca se corrige en silencio: aborta el request con ErrCrossTenant.
package tenant

import (
	"github.com/facturaloperu/facturacion-api/internal/domain"
)

// ResolveReadCompany decide la empresa a usar como filtro de lectura.
//   - Sin filtro explícito: se fuerza la empresa propia.
//   - Filtro explícito distinto de la propia: ErrCrossTenant.
//   - super_admin: pasa el filtro tal cual (vacío = sin filtro).
func ResolveReadCompany(c Claims, requested string) (string, error) {
	if c.IsSuperAdmin() {
		return requested, nil
	}
	if c.CompanyID == "" {
		// Un actor sin empresa y sin bypass no puede leer datos de tenants.
		return "", domain.ErrForbidden
	}
	if requested == "" || requested == c.CompanyID {
		return c.CompanyID, nil
	}
	return "", domain.ErrCrossTenant
}

// ResolveWriteCompany decide la empresa dueña de una escritura (create/update).
//   - Sin empresa explícita: se inyecta la propia.
//   - Empresa explícita distinta de la propia: ErrCrossTenant.
//   - super_admin: debe indicar la empresa (no tiene una propia que inyectar).
func ResolveWriteCompany(c Claims, provided string) (string, error) {
	if c.IsSuperAdmin() {
		if provided == "" {
			return "", domain.ErrInvalidInput
		}
		return provided, nil
	}
	if c.CompanyID == "" {
		return "", domain.ErrForbidden
	}
	if provided == "" || provided == c.CompanyID {
		return c.CompanyID, nil
	}
	return "", domain.ErrCrossTenant
}

// AuthorizeRecord verifica a nivel de objeto que un registro ya cargado
// pertenece a la empresa del actor. Se aplica siempre después de cargar por
// ID, aunque el request ya haya pasado el gate de entrada.
func AuthorizeRecord(c Claims, recordCompanyID string) error {
	if c.IsSuperAdmin() {
		return nil
	}
	if c.CompanyID == "" || recordCompanyID != c.CompanyID {
		return domain.ErrCrossTenant
	}
	return nil
}

// RequireAbility verifica que el token traiga la ability indicada.
func RequireAbility(c Claims, ability string) error {
	if c.Can(ability) {
		return nil
	}
	return domain.ErrAbilityRequired
}
