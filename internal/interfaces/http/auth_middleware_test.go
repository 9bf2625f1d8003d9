package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	apphttp "github.com/facturaloperu/facturacion-api/internal/interfaces/http"
	pkgjwt "github.com/facturaloperu/facturacion-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "facturacion-api-test"
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar los claims
//   - RequireAbility como gate de la ruta
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(ability string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireAbility(ability),
		func(c *fiber.Ctx) error {
			claims := apphttp.GetClaims(c)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":         true,
				"user_id":    claims.UserID,
				"company_id": claims.CompanyID,
				"role":       string(claims.Role),
			})
		},
	)
	return app
}

// tokenFor genera un JWT con el rol indicado y sus abilities.
func tokenFor(t *testing.T, role entity.Role) string {
	t.Helper()
	tok, _, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.TokenInput{
		UserID:    testUserID,
		CompanyID: testCompanyID,
		Role:      string(role),
		UserType:  string(entity.UserTypeUser),
		Abilities: role.Abilities(),
	}, time.Hour)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireAbility
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: el token trae la ability requerida → HTTP 200.
func TestRequireAbility_EmisorEmiteComprobantes(t *testing.T) {
	app := buildTestApp(entity.AbilityDocumentsEmit)
	resp := doRequest(t, app, tokenFor(t, entity.RoleEmisor))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"emisor debe poder acceder a ruta que exige documents:emit")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "emisor", body["role"])
}

// Caso 2: el token no trae la ability → HTTP 403 ABILITY_REQUIRED.
func TestRequireAbility_ConsultorBloqueadoEnEmision(t *testing.T) {
	app := buildTestApp(entity.AbilityDocumentsEmit)
	resp := doRequest(t, app, tokenFor(t, entity.RoleConsultor))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"consultor no debe emitir comprobantes")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "ABILITY_REQUIRED",
		"la respuesta de error debe incluir el código ABILITY_REQUIRED")
}

// Caso 3: el comodín "*" del super_admin concede cualquier ability.
func TestRequireAbility_SuperAdminPasaCualquierGate(t *testing.T) {
	app := buildTestApp(entity.AbilityUsersManage)
	resp := doRequest(t, app, tokenFor(t, entity.RoleSuperAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 4: sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(entity.AbilityDocumentsRead)
	resp := doRequest(t, app, "") // sin header
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// Caso 5: token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.AbilityDocumentsRead)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// Caso 6: header sin el esquema Bearer → HTTP 401.
func TestAuthMiddleware_EsquemaIncorrecto_Retorna401(t *testing.T) {
	app := buildTestApp(entity.AbilityDocumentsRead)
	resp := doRequest(t, app, "Basic dXNlcjpwYXNz")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware — extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		claims := apphttp.GetClaims(c)
		return c.JSON(fiber.Map{
			"user_id":    claims.UserID,
			"company_id": claims.CompanyID,
			"role":       string(claims.Role),
			"abilities":  claims.Abilities,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, entity.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID    string   `json:"user_id"`
		CompanyID string   `json:"company_id"`
		Role      string   `json:"role"`
		Abilities []string `json:"abilities"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, testCompanyID, body.CompanyID)
	assert.Equal(t, "admin", body.Role)
	assert.ElementsMatch(t, entity.RoleAdmin.Abilities(), body.Abilities,
		"las abilities viajan en el token tal como se emitieron")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg — integridad del generate/parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	abilities := entity.RoleEmisor.Abilities()
	tok, expiresAt, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.TokenInput{
		UserID:    testUserID,
		CompanyID: testCompanyID,
		Role:      "emisor",
		UserType:  "api_client",
		Abilities: abilities,
	}, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, 5*time.Second)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testCompanyID, claims.CompanyID)
	assert.Equal(t, "emisor", claims.Role)
	assert.Equal(t, "api_client", claims.UserType)
	assert.ElementsMatch(t, abilities, claims.Abilities)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// TTL negativo: el token nace vencido.
	tok, _, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.TokenInput{
		UserID: testUserID,
		Role:   "admin",
	}, -time.Minute)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.TokenInput{
		UserID: testUserID,
		Role:   "admin",
	}, time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
