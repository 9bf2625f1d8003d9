package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturaloperu/facturacion-api/internal/application/auth"
	"github.com/facturaloperu/facturacion-api/internal/domain"
	"github.com/facturaloperu/facturacion-api/internal/domain/entity"
	apphttp "github.com/facturaloperu/facturacion-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// stubUserRepo satisface el puerto de usuarios sin estado: los tests de
// validación del handler nunca deben llegar al repositorio.
type stubUserRepo struct{}

func (stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (stubUserRepo) GetByID(context.Context, string) (*entity.User, error) {
	return nil, domain.ErrNotFound
}
func (stubUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, domain.ErrNotFound
}
func (stubUserRepo) Update(context.Context, *entity.User) error          { return nil }
func (stubUserRepo) UpdateLockState(context.Context, *entity.User) error { return nil }
func (stubUserRepo) ListByCompany(context.Context, string, int, int) ([]*entity.User, error) {
	return nil, nil
}
func (stubUserRepo) Delete(context.Context, string) error { return nil }
func (stubUserRepo) Count(context.Context) (int64, error) { return 0, nil }

// buildAuthApp monta las rutas públicas de auth sobre un use case con repo stub.
func buildAuthApp() *fiber.App {
	uc := auth.NewAuthUseCase(stubUserRepo{}, auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: 60,
		Issuer:     testIssuer,
	}, auth.LockPolicy{})
	h := apphttp.NewAuthHandler(uc)

	app := fiber.New()
	app.Post("/api/v1/auth/login", h.Login)
	app.Post("/api/v1/system/init", h.InitSystem)
	return app
}

// postJSON lanza un POST con el body indicado y devuelve la respuesta parseada.
func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	return resp, envelope
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de validación del handler — taxonomía de errores
// ──────────────────────────────────────────────────────────────────────────────

// Campos requeridos ausentes → HTTP 422 con código VALIDATION.
func TestLogin_CamposFaltantes_Retorna422(t *testing.T) {
	app := buildAuthApp()
	resp, body := postJSON(t, app, "/api/v1/auth/login", `{"email":"admin@empresa.pe"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode,
		"un campo requerido ausente es un fallo de validación, no de parseo")

	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "la respuesta debe traer el objeto error")
	assert.Equal(t, "VALIDATION", errObj["code"])
}

func TestInitSystem_PasswordCorto_Retorna422(t *testing.T) {
	app := buildAuthApp()
	resp, body := postJSON(t, app, "/api/v1/system/init",
		`{"email":"root@empresa.pe","password":"corto"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "VALIDATION", errObj["code"])
}

// Un body que ni siquiera es JSON válido sigue siendo 400 INVALID_BODY:
// el 422 queda reservado para entradas bien formadas pero incompletas.
func TestLogin_BodyMalformado_Retorna400(t *testing.T) {
	app := buildAuthApp()
	resp, body := postJSON(t, app, "/api/v1/auth/login", `{esto no es json`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "INVALID_BODY", errObj["code"])
}
