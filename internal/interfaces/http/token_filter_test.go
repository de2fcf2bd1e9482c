package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/vacunaspa/registro-api/internal/interfaces/http"
	pkgjwt "github.com/vacunaspa/registro-api/pkg/jwt"
	"github.com/vacunaspa/registro-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes del almacén de tokens y del marcador de último uso
// ──────────────────────────────────────────────────────────────────────────────

// tokenStoreFake responde validez fija por tipo de token.
type tokenStoreFake struct {
	accessValido  bool
	refreshValido bool
	failWith      error
}

func (s *tokenStoreFake) RegistrarPar(_ context.Context, _, _ string, _, _ time.Duration) error {
	return nil
}

func (s *tokenStoreFake) IsAccessTokenValid(_ context.Context, _, _ string) (bool, error) {
	return s.accessValido, s.failWith
}

func (s *tokenStoreFake) IsRefreshTokenValid(_ context.Context, _, _ string) (bool, error) {
	return s.refreshValido, s.failWith
}

func (s *tokenStoreFake) Revocar(_ context.Context, _, _ string) error { return nil }

// toucherFake registra las cuentas tocadas; el filtro lo invoca desacoplado.
type toucherFake struct {
	mu      sync.Mutex
	tocados []string
}

func (f *toucherFake) UpdateLastUsed(_ context.Context, usuarioID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tocados = append(f.tocados, usuarioID)
	return nil
}

func (f *toucherFake) cuenta() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tocados)
}

// buildFilterApp arma la app con las dos rutas relevantes para el filtro: una
// ruta normal y el endpoint de refresh, ambas detrás de auth + filtro.
func buildFilterApp(store *tokenStoreFake, toucher *toucherFake) *fiber.App {
	app := fiber.New()
	handler := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	}
	filtro := apphttp.TokenValidityFilter(store, toucher, logger.Nop())
	app.Get("/vacunacion/v1/usuarios/me", apphttp.AuthMiddleware(testJWTSecret), filtro, handler)
	app.Post(apphttp.RefreshTokenEndpoint, apphttp.AuthMiddleware(testJWTSecret), filtro, handler)
	app.Get("/publico", filtro, handler)
	return app
}

func tokenDePrueba(t *testing.T) *pkgjwt.Pair {
	t.Helper()
	pair, err := pkgjwt.GeneratePair(pkgjwt.Config{
		Secret:     testJWTSecret,
		Issuer:     testIssuer,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}, testUserID, []string{"PACIENTE"}, nil)
	require.NoError(t, err)
	return pair
}

func doFiltered(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de decisión del filtro: (access, refresh, path) → permitir o rechazar
// ──────────────────────────────────────────────────────────────────────────────

func TestTokenValidityFilter_TablaDeDecision(t *testing.T) {
	casos := []struct {
		nombre        string
		accessValido  bool
		refreshValido bool
		method, path  string
		wantStatus    int
		wantChallenge string
	}{
		{
			nombre:       "par vigente en ruta normal pasa",
			accessValido: true, refreshValido: true,
			method: http.MethodGet, path: "/vacunacion/v1/usuarios/me",
			wantStatus: http.StatusOK,
		},
		{
			nombre:       "par vigente en refresh pasa",
			accessValido: true, refreshValido: true,
			method: http.MethodPost, path: apphttp.RefreshTokenEndpoint,
			wantStatus: http.StatusOK,
		},
		{
			nombre:       "solo access vigente en ruta normal pasa",
			accessValido: true, refreshValido: false,
			method: http.MethodGet, path: "/vacunacion/v1/usuarios/me",
			wantStatus: http.StatusOK,
		},
		{
			nombre:       "solo access vigente no refresca",
			accessValido: true, refreshValido: false,
			method: http.MethodPost, path: apphttp.RefreshTokenEndpoint,
			wantStatus:    http.StatusForbidden,
			wantChallenge: "Access token cannot be used to refresh tokens",
		},
		{
			nombre:       "solo refresh vigente no sirve en ruta normal",
			accessValido: false, refreshValido: true,
			method: http.MethodGet, path: "/vacunacion/v1/usuarios/me",
			wantStatus:    http.StatusForbidden,
			wantChallenge: "Refresh token is only for refresh tokens",
		},
		{
			nombre:       "solo refresh vigente sí refresca",
			accessValido: false, refreshValido: true,
			method: http.MethodPost, path: apphttp.RefreshTokenEndpoint,
			wantStatus: http.StatusOK,
		},
		{
			nombre:       "par revocado en ruta normal",
			accessValido: false, refreshValido: false,
			method: http.MethodGet, path: "/vacunacion/v1/usuarios/me",
			wantStatus:    http.StatusForbidden,
			wantChallenge: "Tokens has been revoked",
		},
		{
			nombre:       "par revocado en refresh",
			accessValido: false, refreshValido: false,
			method: http.MethodPost, path: apphttp.RefreshTokenEndpoint,
			wantStatus:    http.StatusForbidden,
			wantChallenge: "Tokens has been revoked",
		},
	}

	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			store := &tokenStoreFake{accessValido: tc.accessValido, refreshValido: tc.refreshValido}
			app := buildFilterApp(store, &toucherFake{})
			pair := tokenDePrueba(t)

			resp := doFiltered(t, app, tc.method, tc.path, pair.AccessToken)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantChallenge != "" {
				challenge := resp.Header.Get(fiber.HeaderWWWAuthenticate)
				assert.Contains(t, challenge, `Bearer error="invalid_token"`)
				assert.Contains(t, challenge, tc.wantChallenge)
			}
		})
	}
}

// Una falla del almacén rechaza la petición: el filtro nunca falla abierto.
func TestTokenValidityFilter_FallaDelAlmacenRechaza(t *testing.T) {
	store := &tokenStoreFake{failWith: errors.New("redis caído")}
	app := buildFilterApp(store, &toucherFake{})
	pair := tokenDePrueba(t)

	resp := doFiltered(t, app, http.MethodGet, "/vacunacion/v1/usuarios/me", pair.AccessToken)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	challenge := resp.Header.Get(fiber.HeaderWWWAuthenticate)
	assert.Contains(t, challenge, `Bearer error="server_error"`)
	assert.Contains(t, challenge, "Token validation failed due to server issue")
}

// Sin credencial en los locals el filtro es transparente.
func TestTokenValidityFilter_SinCredencialPasa(t *testing.T) {
	toucher := &toucherFake{}
	app := buildFilterApp(&tokenStoreFake{}, toucher)

	resp := doFiltered(t, app, http.MethodGet, "/publico", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, toucher.cuenta(), "sin credencial no hay marca de último uso")
}

// Al permitir, el toque de último uso se dispara desacoplado de la respuesta.
func TestTokenValidityFilter_MarcaUltimoUso(t *testing.T) {
	toucher := &toucherFake{}
	app := buildFilterApp(&tokenStoreFake{accessValido: true, refreshValido: true}, toucher)
	pair := tokenDePrueba(t)

	resp := doFiltered(t, app, http.MethodGet, "/vacunacion/v1/usuarios/me", pair.AccessToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Eventually(t, func() bool { return toucher.cuenta() == 1 },
		time.Second, 10*time.Millisecond, "el último uso debe marcarse tras permitir")
}

// Al rechazar, NO se toca el último uso.
func TestTokenValidityFilter_NoMarcaEnRechazo(t *testing.T) {
	toucher := &toucherFake{}
	app := buildFilterApp(&tokenStoreFake{}, toucher)
	pair := tokenDePrueba(t)

	resp := doFiltered(t, app, http.MethodGet, "/vacunacion/v1/usuarios/me", pair.AccessToken)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, toucher.cuenta())
}
