package usuario

import (
	"context"

	"github.com/vacunaspa/registro-api/internal/application/dto"
	"github.com/vacunaspa/registro-api/internal/domain/repository"
)

// cuentaCreator materializa la cuenta ya validada. Lo implementa el Service;
// la interfaz evita el ciclo estrategia -> servicio.
type cuentaCreator interface {
	crearCuenta(ctx context.Context, usuarioDto dto.UsuarioDto, personaID, fabricanteID string) (*dto.UsuarioResponse, error)
}

// RegistrationStrategy variante de registro. El conjunto es cerrado: registro
// directo y registro por licencia de fabricante. Validate acumula errores de
// negocio; Create solo materializa la cuenta con validación en verde.
type RegistrationStrategy interface {
	Validate(ctx context.Context, req *dto.RegisterUserRequest) ([]dto.ApiError, error)
	Create(ctx context.Context, req *dto.RegisterUserRequest) (*dto.ApiResponse, error)
}

// StrategyResolver selecciona exactamente una estrategia por petición según la
// forma de la misma. La resolución es determinista y total: toda petición bien
// formada mapea a una estrategia, o a ninguna, que es en sí un error
// (API_UPDATE_UNSUPPORTED en el orquestador).
type StrategyResolver struct {
	directa    *registroDirecto
	fabricante *registroFabricante
}

// NewStrategyResolver construye el resolutor con sus dos variantes.
func NewStrategyResolver(creator cuentaCreator, fabricanteRepo repository.FabricanteRepository) *StrategyResolver {
	return &StrategyResolver{
		directa:    &registroDirecto{creator: creator},
		fabricante: &registroFabricante{creator: creator, fabricanteRepo: fabricanteRepo},
	}
}

// Resolve mapea la forma de la petición a su estrategia. La licencia de
// fabricante presente selecciona el registro de fabricante; cualquier otra
// forma usa el registro directo.
func (r *StrategyResolver) Resolve(req *dto.RegisterUserRequest) RegistrationStrategy {
	if req == nil {
		return nil
	}
	if req.LicenciaFabricante != "" {
		return r.fabricante
	}
	return r.directa
}

// ── Registro directo ──────────────────────────────────────────────────────────

// registroDirecto camino por defecto: cuenta independiente, opcionalmente
// vinculada a una persona existente.
type registroDirecto struct {
	creator cuentaCreator
}

func (s *registroDirecto) Validate(_ context.Context, _ *dto.RegisterUserRequest) ([]dto.ApiError, error) {
	// Las reglas compartidas (unicidad, contraseña) ya corrieron en el
	// orquestador; el registro directo no agrega reglas propias.
	return nil, nil
}

func (s *registroDirecto) Create(ctx context.Context, req *dto.RegisterUserRequest) (*dto.ApiResponse, error) {
	response := dto.NewApiResponse()
	cuenta, err := s.creator.crearCuenta(ctx, req.Usuario, req.PersonaID, "")
	if err != nil {
		return nil, err
	}
	response.AddData("usuario", cuenta)
	return response, nil
}

// ── Registro por fabricante ───────────────────────────────────────────────────

// registroFabricante se selecciona cuando la petición trae licencia. La cuenta
// creada queda asociada al registro del fabricante.
type registroFabricante struct {
	creator        cuentaCreator
	fabricanteRepo repository.FabricanteRepository
}

func (s *registroFabricante) Validate(ctx context.Context, req *dto.RegisterUserRequest) ([]dto.ApiError, error) {
	if req.LicenciaFabricante == "" {
		return []dto.ApiError{{
			Code:    dto.CodeMissingInformation,
			Message: "Falta licencia fabricante",
		}}, nil
	}

	fabricante, err := s.fabricanteRepo.FindByLicencia(ctx, req.LicenciaFabricante)
	if err != nil {
		return nil, err
	}
	if fabricante == nil {
		return []dto.ApiError{{
			Code:    dto.CodeNotFound,
			Message: "Fabricante no encontrado",
		}}, nil
	}
	if fabricante.Usuario != nil && fabricante.Usuario.Disabled {
		return []dto.ApiError{{
			Code:    dto.CodePermissionDenied,
			Message: "No puede registrarse",
		}}, nil
	}
	if fabricante.UsuarioID != "" {
		return []dto.ApiError{{
			Code:    dto.CodeAlreadyExists,
			Message: "Ya tiene usuario",
		}}, nil
	}
	return nil, nil
}

func (s *registroFabricante) Create(ctx context.Context, req *dto.RegisterUserRequest) (*dto.ApiResponse, error) {
	response := dto.NewApiResponse()

	errs, err := s.Validate(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return response.AddErrors(errs), nil
	}

	// Revalidado arriba: la licencia existe.
	fabricante, err := s.fabricanteRepo.FindByLicencia(ctx, req.LicenciaFabricante)
	if err != nil {
		return nil, err
	}
	if fabricante == nil {
		return response.AddError(dto.CodeNotFound, "Fabricante no encontrado", ""), nil
	}

	cuenta, err := s.creator.crearCuenta(ctx, req.Usuario, "", fabricante.ID)
	if err != nil {
		return nil, err
	}
	if err := s.fabricanteRepo.VincularUsuario(ctx, fabricante.ID, cuenta.ID); err != nil {
		return nil, err
	}

	response.AddData("fabricante", map[string]any{
		"id":       fabricante.ID,
		"nombre":   fabricante.Nombre,
		"licencia": fabricante.Licencia,
		"usuario":  cuenta,
	})
	return response, nil
}
