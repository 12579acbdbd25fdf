package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Muestras-api/internal/application/dto"
	apphttp "github.com/jhoicas/Muestras-api/internal/interfaces/http"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "muestras-api-test"
	testExpMin    = 60
)

// gatedApp ruta /gated con AuthMiddleware + RequireRole que devuelve el usuario del contexto.
func gatedApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/gated",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func TestRequireRole_Matriz(t *testing.T) {
	cases := []struct {
		name   string
		roles  []string
		auth   func(t *testing.T) string
		status int
		code   string
	}{
		{"admin en ruta de maestro", []string{"admin"}, func(t *testing.T) string { return bearer(t, testUserID, "admin") }, http.StatusOK, ""},
		{"supervisor en ruta multi-rol", []string{"admin", "supervisor"}, func(t *testing.T) string { return bearer(t, testUserID, "supervisor") }, http.StatusOK, ""},
		{"rol sin distinguir mayúsculas", []string{"admin"}, func(t *testing.T) string { return bearer(t, testUserID, "ADMIN") }, http.StatusOK, ""},
		{"operador bloqueado", []string{"admin"}, func(t *testing.T) string { return bearer(t, testUserID, "operador") }, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{"admin"}, func(t *testing.T) string { return bearer(t, testUserID, "") }, http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin cabecera", []string{"admin"}, func(*testing.T) string { return "" }, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema distinto de Bearer", []string{"admin"}, func(*testing.T) string { return "Basic abc" }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token mal formado", []string{"admin"}, func(*testing.T) string { return "Bearer token.invalido.aqui" }, http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/gated", nil)
			if h := tc.auth(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			resp, err := gatedApp(tc.roles...).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				var body dto.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tc.code, body.Code)
			}
		})
	}
}

func TestAuthMiddleware_DejaUsuarioYRolEnLocals(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", bearer(t, testUserID, "supervisor"))

	resp, err := gatedApp("supervisor").Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "supervisor", body["role"])
}
