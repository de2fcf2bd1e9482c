package usuario

import (
	"context"

	"github.com/vacunaspa/registro-api/internal/application/dto"
	"github.com/vacunaspa/registro-api/internal/domain/repository"
)

// RegistrationValidator valida una petición de registro contra las reglas de
// negocio. Las violaciones se acumulan, no se corta en la primera. Asume que
// la lista de roles ya fue validada como no vacía en el borde HTTP.
type RegistrationValidator struct {
	usuarioRepo repository.UsuarioRepository
	compromiso  CompromisoChecker
}

// NewRegistrationValidator construye el validador.
func NewRegistrationValidator(usuarioRepo repository.UsuarioRepository, compromiso CompromisoChecker) *RegistrationValidator {
	return &RegistrationValidator{usuarioRepo: usuarioRepo, compromiso: compromiso}
}

// ValidateRegistration aplica las reglas incondicionales: unicidad del
// username (consulta a persistencia) y contraseña comprometida. Un fallo del
// oráculo o del repositorio se reporta como error de Go, no como ApiError.
func (v *RegistrationValidator) ValidateRegistration(ctx context.Context, req *dto.RegisterUserRequest) ([]dto.ApiError, error) {
	var errs []dto.ApiError

	if req.Usuario.Username != "" {
		existing, err := v.usuarioRepo.FindByUsername(ctx, req.Usuario.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs = append(errs, dto.ApiError{
				Code:     dto.CodeAlreadyTaken,
				Message:  "El nombre de usuario ya está en uso",
				Property: "username",
			})
		}
	}

	comprometida, err := v.compromiso.IsPasswordCompromised(ctx, req.Usuario.Password)
	if err != nil {
		return nil, err
	}
	if comprometida {
		errs = append(errs, dto.ApiError{
			Code:     dto.CodeCompromisedPassword,
			Message:  "La contraseña proporcionada está comprometida. Por favor use otra contraseña",
			Property: "password",
		})
	}

	return errs, nil
}

// ValidateAuthorities aplica las reglas de jerarquía y permiso. Solo se evalúa
// cuando la petición trae un scope de autoridad explícito; el auto-registro
// anónimo las omite por completo.
func ValidateAuthorities(usuarioDto dto.UsuarioDto, actingRoles []RolEnum) []dto.ApiError {
	var errs []dto.ApiError

	maxPriority := MaxPriority(actingRoles)
	for _, rolDto := range usuarioDto.Roles {
		if !esRolRegistrable(rolDto, maxPriority) {
			errs = append(errs, dto.ApiError{
				Code:     dto.CodeRolHierarchyViolation,
				Message:  "No puede asignar roles superiores a su rol actual",
				Property: "roles[]",
			})
			break
		}
	}

	if !tieneGestionUsuarios(actingRoles) {
		errs = append(errs, dto.ApiError{
			Code:    dto.CodePermissionDenied,
			Message: "No tienes permisos para registrar",
		})
	}

	return errs
}

// ValidateWarnings produce advertencias informativas, nunca bloqueantes: los
// permisos en línea se ignoran y las referencias por nombre sin ID se marcan
// para empujar a los clientes hacia referencias idempotentes.
func ValidateWarnings(usuarioDto dto.UsuarioDto) []dto.ApiError {
	var warns []dto.ApiError

	for _, rolDto := range usuarioDto.Roles {
		if len(rolDto.Permisos) > 0 {
			warns = append(warns, dto.ApiError{
				Code:     dto.CodeInformationIgnored,
				Message:  "Los permisos de los roles son ignorados al crear un usuario. Para crear o relacionar nuevos permisos a un rol debe utilizar otra opción",
				Property: "roles[].permisos[]",
			})
			break
		}
	}

	for _, rolDto := range usuarioDto.Roles {
		if rolDto.ID == nil && rolDto.Nombre != "" {
			warns = append(warns, dto.ApiError{
				Code:     dto.CodeNonIdempotence,
				Message:  "Utilice ID al realizar peticiones",
				Property: "roles[]",
			})
			break
		}
	}

	return warns
}

// esRolRegistrable: un actor puede asignar un rol sii la prioridad del rol
// solicitado no excede la prioridad máxima de sus propios roles.
func esRolRegistrable(rolDto dto.RolDto, maxActorPriority int) bool {
	if rolDto.Nombre == "" {
		return false
	}
	rol, err := ResolveRol(rolDto.Nombre)
	if err != nil {
		return false
	}
	return rol.Priority <= maxActorPriority
}
