package usuario_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacunaspa/registro-api/internal/application/dto"
	"github.com/vacunaspa/registro-api/internal/application/usuario"
	"github.com/vacunaspa/registro-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// ValidateAuthorities — jerarquía y permiso de gestión
// ──────────────────────────────────────────────────────────────────────────────

// Un actor con solo PACIENTE (prioridad 1) no puede asignar FABRICANTE
// (prioridad 2): viola la jerarquía Y carece del permiso de gestión, así que
// se acumulan ambos errores.
func TestValidateAuthorities_RolInferiorNoAsignaSuperior(t *testing.T) {
	usuarioDto := dto.UsuarioDto{
		Username: "nuevo",
		Password: "contrasena-larga",
		Roles:    []dto.RolDto{{Nombre: "FABRICANTE"}},
	}

	errs := usuario.ValidateAuthorities(usuarioDto, []usuario.RolEnum{usuario.RolPaciente})
	require.Len(t, errs, 2)
	assert.Equal(t, []string{dto.CodeRolHierarchyViolation, dto.CodePermissionDenied}, codigos(errs))
	assert.Equal(t, "roles[]", errs[0].Property)
	assert.Empty(t, errs[1].Property, "el error de permiso no se atribuye a una propiedad")
}

// Asignar un rol igual al propio respeta la jerarquía (prioridad solicitada <=
// prioridad máxima del actor).
func TestValidateAuthorities_RolIgualEsRegistrable(t *testing.T) {
	usuarioDto := dto.UsuarioDto{Roles: []dto.RolDto{{Nombre: "ADMINISTRATIVO"}}}

	errs := usuario.ValidateAuthorities(usuarioDto, []usuario.RolEnum{usuario.RolAdministrativo})
	assert.Empty(t, errs, "ADMINISTRATIVO tiene ADMINISTRATIVO_WRITE y puede registrar su propio nivel")
}

// La autoridad efectiva es la prioridad MÁXIMA del actor, no la mínima: un
// USER_MANAGER que además es PACIENTE sigue pudiendo asignar AUTORIDAD.
func TestValidateAuthorities_UsaPrioridadMaxima(t *testing.T) {
	usuarioDto := dto.UsuarioDto{Roles: []dto.RolDto{{Nombre: "AUTORIDAD"}}}

	errs := usuario.ValidateAuthorities(usuarioDto, []usuario.RolEnum{
		usuario.RolPaciente,
		usuario.RolUserManager,
	})
	assert.Empty(t, errs)
}

// DOCTOR respeta la jerarquía al asignar ENFERMERA pero no porta ningún
// permiso de gestión de usuarios: un solo error PERMISSION_DENIED.
func TestValidateAuthorities_SinPermisoDeGestion(t *testing.T) {
	usuarioDto := dto.UsuarioDto{Roles: []dto.RolDto{{Nombre: "ENFERMERA"}}}

	errs := usuario.ValidateAuthorities(usuarioDto, []usuario.RolEnum{usuario.RolDoctor})
	require.Len(t, errs, 1)
	assert.Equal(t, dto.CodePermissionDenied, errs[0].Code)
}

// Un nombre de rol desconocido o vacío nunca es registrable.
func TestValidateAuthorities_RolDesconocido(t *testing.T) {
	usuarioDto := dto.UsuarioDto{Roles: []dto.RolDto{{Nombre: "SUPREMO"}}}

	errs := usuario.ValidateAuthorities(usuarioDto, []usuario.RolEnum{usuario.RolUserManager})
	require.NotEmpty(t, errs)
	assert.Equal(t, dto.CodeRolHierarchyViolation, errs[0].Code)
}

// Varios roles en violación generan UN solo error de jerarquía, no uno por rol.
func TestValidateAuthorities_UnSoloErrorDeJerarquia(t *testing.T) {
	usuarioDto := dto.UsuarioDto{Roles: []dto.RolDto{
		{Nombre: "AUTORIDAD"},
		{Nombre: "USER_MANAGER"},
	}}

	errs := usuario.ValidateAuthorities(usuarioDto, []usuario.RolEnum{usuario.RolAdministrativo})
	require.Len(t, errs, 1)
	assert.Equal(t, dto.CodeRolHierarchyViolation, errs[0].Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateWarnings — observaciones no bloqueantes
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateWarnings_PermisosEnLineaIgnorados(t *testing.T) {
	usuarioDto := dto.UsuarioDto{Roles: []dto.RolDto{
		{Nombre: "PACIENTE", Permisos: []string{"TODO_WRITE"}},
	}}

	warns := usuario.ValidateWarnings(usuarioDto)
	require.Len(t, warns, 2, "permisos en línea + referencia por nombre sin ID")
	assert.Equal(t, dto.CodeInformationIgnored, warns[0].Code)
	assert.Equal(t, "roles[].permisos[]", warns[0].Property)
	assert.Equal(t, dto.CodeNonIdempotence, warns[1].Code)
	assert.Equal(t, "roles[]", warns[1].Property)
}

func TestValidateWarnings_ReferenciaPorIDNoAdvierte(t *testing.T) {
	id := int16(1)
	usuarioDto := dto.UsuarioDto{Roles: []dto.RolDto{{ID: &id}}}

	assert.Empty(t, usuario.ValidateWarnings(usuarioDto))
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateRegistration — unicidad y contraseña comprometida
// ──────────────────────────────────────────────────────────────────────────────

func registroBasico(username, password string) *dto.RegisterUserRequest {
	return &dto.RegisterUserRequest{Usuario: dto.UsuarioDto{
		Username: username,
		Password: password,
		Roles:    []dto.RolDto{{Nombre: "PACIENTE"}},
	}}
}

func TestValidateRegistration_UsernameTomado(t *testing.T) {
	repo := newUsuarioRepoStub()
	repo.agregar(&entity.Usuario{ID: "u-1", Username: "alice"})
	v := usuario.NewRegistrationValidator(repo, &compromisoStub{})

	errs, err := v.ValidateRegistration(context.Background(), registroBasico("alice", "segura-y-unica"))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, dto.CodeAlreadyTaken, errs[0].Code)
	assert.Equal(t, "username", errs[0].Property)
}

func TestValidateRegistration_ContrasenaComprometida(t *testing.T) {
	v := usuario.NewRegistrationValidator(newUsuarioRepoStub(), &compromisoStub{
		comprometidas: map[string]bool{"password123": true},
	})

	errs, err := v.ValidateRegistration(context.Background(), registroBasico("bob", "password123"))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, dto.CodeCompromisedPassword, errs[0].Code)
	assert.Equal(t, "password", errs[0].Property)
}

// Ambas reglas violadas: los errores se acumulan, no se corta en el primero.
func TestValidateRegistration_AcumulaViolaciones(t *testing.T) {
	repo := newUsuarioRepoStub()
	repo.agregar(&entity.Usuario{ID: "u-1", Username: "alice"})
	v := usuario.NewRegistrationValidator(repo, &compromisoStub{
		comprometidas: map[string]bool{"password123": true},
	})

	errs, err := v.ValidateRegistration(context.Background(), registroBasico("alice", "password123"))
	require.NoError(t, err)
	assert.Equal(t, []string{dto.CodeAlreadyTaken, dto.CodeCompromisedPassword}, codigos(errs))
}

// Un fallo de infraestructura (repositorio u oráculo caído) se propaga como
// error de Go; nunca se degrada a error de negocio.
func TestValidateRegistration_FalloDeInfraestructura(t *testing.T) {
	repo := newUsuarioRepoStub()
	repo.failWith = errPersistencia
	v := usuario.NewRegistrationValidator(repo, &compromisoStub{})

	errs, err := v.ValidateRegistration(context.Background(), registroBasico("alice", "segura"))
	assert.ErrorIs(t, err, errPersistencia)
	assert.Nil(t, errs)

	v = usuario.NewRegistrationValidator(newUsuarioRepoStub(), &compromisoStub{failWith: errPersistencia})
	errs, err = v.ValidateRegistration(context.Background(), registroBasico("alice", "segura"))
	assert.ErrorIs(t, err, errPersistencia)
	assert.Nil(t, errs)
}
