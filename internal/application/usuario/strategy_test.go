package usuario_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacunaspa/registro-api/internal/application/dto"
	"github.com/vacunaspa/registro-api/internal/application/usuario"
	"github.com/vacunaspa/registro-api/internal/domain/entity"
	"github.com/vacunaspa/registro-api/pkg/logger"
)

// entorno de test con el servicio completo y sus stubs; el servicio actúa
// además como creador de cuentas para las estrategias.
type entorno struct {
	svc        *usuario.Service
	usuarios   *usuarioRepoStub
	personas   *personaRepoStub
	fabricas   *fabricanteRepoStub
	compromiso *compromisoStub
	tokens     *tokenIssuerStub
}

func nuevoEntorno() *entorno {
	e := &entorno{
		usuarios:   newUsuarioRepoStub(),
		personas:   newPersonaRepoStub(),
		fabricas:   newFabricanteRepoStub(),
		compromiso: &compromisoStub{comprometidas: map[string]bool{}},
		tokens:     &tokenIssuerStub{},
	}
	e.svc = usuario.NewService(e.usuarios, e.personas, e.fabricas, e.compromiso, e.tokens, logger.Nop())
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de estrategia
// ──────────────────────────────────────────────────────────────────────────────

// La resolución depende solo de la forma de la petición y es determinista:
// misma petición, misma estrategia.
func TestResolve_EsDeterminista(t *testing.T) {
	e := nuevoEntorno()
	resolver := usuario.NewStrategyResolver(e.svc, e.fabricas)

	directa := &dto.RegisterUserRequest{Usuario: dto.UsuarioDto{Username: "a"}}
	conLicencia := &dto.RegisterUserRequest{
		Usuario:            dto.UsuarioDto{Username: "a"},
		LicenciaFabricante: "LIC-123",
	}

	primera := resolver.Resolve(conLicencia)
	require.NotNil(t, primera)
	for i := 0; i < 3; i++ {
		assert.Same(t, primera, resolver.Resolve(conLicencia), "misma forma, misma estrategia")
	}
	assert.NotSame(t, primera, resolver.Resolve(directa), "sin licencia resuelve a la estrategia directa")
	assert.Nil(t, resolver.Resolve(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro por fabricante — validación previa a crear
// ──────────────────────────────────────────────────────────────────────────────

func peticionFabricante(licencia string) *dto.RegisterUserRequest {
	return &dto.RegisterUserRequest{
		Usuario: dto.UsuarioDto{
			Username: "lab-user",
			Password: "contrasena-segura",
			Roles:    []dto.RolDto{{Nombre: "FABRICANTE"}},
		},
		LicenciaFabricante: licencia,
	}
}

func TestRegistroFabricante_LicenciaDesconocida(t *testing.T) {
	e := nuevoEntorno()
	resolver := usuario.NewStrategyResolver(e.svc, e.fabricas)

	estrategia := resolver.Resolve(peticionFabricante("LIC-NO-EXISTE"))
	errs, err := estrategia.Validate(context.Background(), peticionFabricante("LIC-NO-EXISTE"))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, dto.CodeNotFound, errs[0].Code)
}

// Un fabricante cuya cuenta existente está deshabilitada no puede registrarse
// de nuevo: PERMISSION_DENIED, evaluado antes que ALREADY_EXISTS.
func TestRegistroFabricante_CuentaDeshabilitada(t *testing.T) {
	e := nuevoEntorno()
	e.fabricas.porLicencia["LIC-123"] = &entity.Fabricante{
		ID:        "f-1",
		Nombre:    "Laboratorios Istmo",
		Licencia:  "LIC-123",
		UsuarioID: "u-1",
		Usuario:   &entity.Usuario{ID: "u-1", Username: "istmo", Disabled: true},
	}
	resolver := usuario.NewStrategyResolver(e.svc, e.fabricas)

	req := peticionFabricante("LIC-123")
	errs, err := resolver.Resolve(req).Validate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, dto.CodePermissionDenied, errs[0].Code)
}

func TestRegistroFabricante_YaTieneUsuario(t *testing.T) {
	e := nuevoEntorno()
	e.fabricas.porLicencia["LIC-123"] = &entity.Fabricante{
		ID:        "f-1",
		Licencia:  "LIC-123",
		UsuarioID: "u-1",
		Usuario:   &entity.Usuario{ID: "u-1", Username: "istmo"},
	}
	resolver := usuario.NewStrategyResolver(e.svc, e.fabricas)

	req := peticionFabricante("LIC-123")
	errs, err := resolver.Resolve(req).Validate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, dto.CodeAlreadyExists, errs[0].Code)
}

// Create revalida: si la validación falla, devuelve los errores y NO persiste
// ninguna cuenta ni vínculo.
func TestRegistroFabricante_CreateNoPersisteEnFallo(t *testing.T) {
	e := nuevoEntorno()
	e.fabricas.porLicencia["LIC-123"] = &entity.Fabricante{
		ID:        "f-1",
		Licencia:  "LIC-123",
		UsuarioID: "u-existente",
	}
	resolver := usuario.NewStrategyResolver(e.svc, e.fabricas)

	req := peticionFabricante("LIC-123")
	resp, err := resolver.Resolve(req).Create(context.Background(), req)
	require.NoError(t, err)
	require.True(t, resp.HasErrors())
	assert.Empty(t, e.usuarios.porID, "no debe crearse ninguna cuenta")
	assert.Empty(t, e.fabricas.vinculados, "no debe vincularse ningún usuario")
}

// Camino feliz: la cuenta queda creada, vinculada al fabricante, y la
// respuesta anida la cuenta dentro de los datos del fabricante.
func TestRegistroFabricante_CreateVinculaCuenta(t *testing.T) {
	e := nuevoEntorno()
	e.fabricas.porLicencia["LIC-123"] = &entity.Fabricante{
		ID:       "f-1",
		Nombre:   "Laboratorios Istmo",
		Licencia: "LIC-123",
	}
	resolver := usuario.NewStrategyResolver(e.svc, e.fabricas)

	req := peticionFabricante("LIC-123")
	resp, err := resolver.Resolve(req).Create(context.Background(), req)
	require.NoError(t, err)
	require.False(t, resp.HasErrors())

	datos, ok := resp.Data["fabricante"].(map[string]any)
	require.True(t, ok, "la respuesta debe traer los datos del fabricante")
	assert.Equal(t, "LIC-123", datos["licencia"])

	cuenta, ok := datos["usuario"].(*dto.UsuarioResponse)
	require.True(t, ok)
	assert.Equal(t, "lab-user", cuenta.Username)
	assert.Equal(t, cuenta.ID, e.fabricas.vinculados["f-1"], "el fabricante queda vinculado a la cuenta nueva")

	persistido := e.usuarios.porID[cuenta.ID]
	require.NotNil(t, persistido)
	assert.Equal(t, "f-1", persistido.FabricanteID)
	assert.NotEqual(t, "contrasena-segura", persistido.PasswordHash, "la contraseña se persiste hasheada")
}
