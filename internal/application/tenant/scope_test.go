package tenant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaloperu/facturacion-api/internal/application/tenant"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
)

const (
	empresaA = "00000000-0000-0000-0000-00000000000a"
	empresaB = "00000000-0000-0000-0000-00000000000b"
)

func claimsAdmin(companyID string) tenant.Claims {
	return tenant.Claims{
		UserID:    "00000000-0000-0000-0000-000000000001",
		CompanyID: companyID,
		Role:      entity.RoleAdmin,
		UserType:  entity.UserTypeUser,
		Abilities: entity.RoleAdmin.Abilities(),
	}
}

func claimsSuperAdmin() tenant.Claims {
	return tenant.Claims{
		UserID:    "00000000-0000-0000-0000-000000000002",
		CompanyID: "",
		Role:      entity.RoleSuperAdmin,
		UserType:  entity.UserTypeSystem,
		Abilities: []string{entity.AbilityAll},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ResolveReadCompany
// ──────────────────────────────────────────────────────────────────────────────

// Sin filtro explícito, la lectura se fuerza a la empresa del token.
func TestResolveReadCompany_SinFiltroUsaEmpresaPropia(t *testing.T) {
	got, err := tenant.ResolveReadCompany(claimsAdmin(empresaA), "")
	require.NoError(t, err)
	assert.Equal(t, empresaA, got)
}

// Filtrar por la propia empresa es redundante pero válido.
func TestResolveReadCompany_FiltroPropioEsValido(t *testing.T) {
	got, err := tenant.ResolveReadCompany(claimsAdmin(empresaA), empresaA)
	require.NoError(t, err)
	assert.Equal(t, empresaA, got)
}

// Pedir datos de otra empresa aborta con ErrCrossTenant, nunca se corrige en silencio.
func TestResolveReadCompany_FiltroAjenoEsCrossTenant(t *testing.T) {
	_, err := tenant.ResolveReadCompany(claimsAdmin(empresaA), empresaB)
	assert.ErrorIs(t, err, domain.ErrCrossTenant)
}

// super_admin puede leer cualquier empresa, o todas (filtro vacío).
func TestResolveReadCompany_SuperAdminPasaElFiltro(t *testing.T) {
	got, err := tenant.ResolveReadCompany(claimsSuperAdmin(), empresaB)
	require.NoError(t, err)
	assert.Equal(t, empresaB, got)

	got, err = tenant.ResolveReadCompany(claimsSuperAdmin(), "")
	require.NoError(t, err)
	assert.Empty(t, got, "super_admin sin filtro lee sin restricción de empresa")
}

// Un actor sin empresa y sin bypass no debería existir, pero si un token así
// llega, la lectura se niega.
func TestResolveReadCompany_SinEmpresaNiBypassEsForbidden(t *testing.T) {
	c := claimsAdmin("")
	_, err := tenant.ResolveReadCompany(c, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// ResolveWriteCompany
// ──────────────────────────────────────────────────────────────────────────────

// Si el payload no trae empresa, se inyecta la del token.
func TestResolveWriteCompany_InyectaEmpresaPropia(t *testing.T) {
	got, err := tenant.ResolveWriteCompany(claimsAdmin(empresaA), "")
	require.NoError(t, err)
	assert.Equal(t, empresaA, got)
}

// Escribir sobre otra empresa se rechaza aunque el payload lo pida.
func TestResolveWriteCompany_EmpresaAjenaEsCrossTenant(t *testing.T) {
	_, err := tenant.ResolveWriteCompany(claimsAdmin(empresaA), empresaB)
	assert.ErrorIs(t, err, domain.ErrCrossTenant)
}

// super_admin no tiene empresa propia que inyectar: debe indicarla.
func TestResolveWriteCompany_SuperAdminDebeIndicarEmpresa(t *testing.T) {
	_, err := tenant.ResolveWriteCompany(claimsSuperAdmin(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := tenant.ResolveWriteCompany(claimsSuperAdmin(), empresaB)
	require.NoError(t, err)
	assert.Equal(t, empresaB, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthorizeRecord — gate a nivel de objeto (defensa contra adivinación de IDs)
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorizeRecord_RegistroPropioPasa(t *testing.T) {
	assert.NoError(t, tenant.AuthorizeRecord(claimsAdmin(empresaA), empresaA))
}

func TestAuthorizeRecord_RegistroAjenoEsCrossTenant(t *testing.T) {
	err := tenant.AuthorizeRecord(claimsAdmin(empresaA), empresaB)
	assert.ErrorIs(t, err, domain.ErrCrossTenant)
}

func TestAuthorizeRecord_SuperAdminAccedeACualquierRegistro(t *testing.T) {
	assert.NoError(t, tenant.AuthorizeRecord(claimsSuperAdmin(), empresaA))
	assert.NoError(t, tenant.AuthorizeRecord(claimsSuperAdmin(), empresaB))
}

// ──────────────────────────────────────────────────────────────────────────────
// Abilities
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAbility_TokenConAbilityPasa(t *testing.T) {
	c := claimsAdmin(empresaA)
	assert.NoError(t, tenant.RequireAbility(c, entity.AbilityDocumentsEmit))
}

func TestRequireAbility_TokenSinAbilityFalla(t *testing.T) {
	c := tenant.Claims{
		CompanyID: empresaA,
		Role:      entity.RoleConsultor,
		Abilities: entity.RoleConsultor.Abilities(),
	}
	err := tenant.RequireAbility(c, entity.AbilityDocumentsEmit)
	assert.ErrorIs(t, err, domain.ErrAbilityRequired,
		"consultor no emite comprobantes")
}

// El comodín "*" del super_admin concede cualquier ability.
func TestRequireAbility_ComodinConcedeTodo(t *testing.T) {
	c := claimsSuperAdmin()
	assert.NoError(t, tenant.RequireAbility(c, entity.AbilityUsersManage))
	assert.NoError(t, tenant.RequireAbility(c, "ability:inexistente"))
}
