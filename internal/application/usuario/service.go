package usuario

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vacunaspa/registro-api/internal/application/dto"
	"github.com/vacunaspa/registro-api/internal/domain/entity"
	"github.com/vacunaspa/registro-api/internal/domain/repository"
	"github.com/vacunaspa/registro-api/pkg/logger"
)

// Service orquesta el registro de cuentas, el cambio de contraseña y el login.
// Las reglas de negocio se devuelven como datos (ApiError) dentro del sobre de
// respuesta; los errores de Go se reservan para fallas de infraestructura.
type Service struct {
	usuarioRepo    repository.UsuarioRepository
	personaRepo    repository.PersonaRepository
	fabricanteRepo repository.FabricanteRepository
	validator      *RegistrationValidator
	resolver       *StrategyResolver
	compromiso     CompromisoChecker
	tokens         TokenIssuer
	log            *logger.Logger
}

// NewService construye el servicio de usuarios y su resolutor de estrategias.
func NewService(
	usuarioRepo repository.UsuarioRepository,
	personaRepo repository.PersonaRepository,
	fabricanteRepo repository.FabricanteRepository,
	compromiso CompromisoChecker,
	tokens TokenIssuer,
	log *logger.Logger,
) *Service {
	s := &Service{
		usuarioRepo:    usuarioRepo,
		personaRepo:    personaRepo,
		fabricanteRepo: fabricanteRepo,
		validator:      NewRegistrationValidator(usuarioRepo, compromiso),
		compromiso:     compromiso,
		tokens:         tokens,
		log:            log,
	}
	s.resolver = NewStrategyResolver(s, fabricanteRepo)
	return s
}

// CreateUser registra una cuenta nueva. actorScope trae los roles del
// solicitante autenticado; vacío significa auto-registro anónimo y omite por
// completo los chequeos de jerarquía y permiso.
func (s *Service) CreateUser(ctx context.Context, req *dto.RegisterUserRequest, actorScope []string) (*dto.ApiResponse, error) {
	response := dto.NewApiResponse()

	if len(actorScope) > 0 {
		actingRoles := RolesFromScope(actorScope)
		if errs := ValidateAuthorities(req.Usuario, actingRoles); len(errs) > 0 {
			return response.AddErrors(errs), nil
		}
	}

	response.AddWarnings(ValidateWarnings(req.Usuario))

	errs, err := s.validator.ValidateRegistration(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return response.AddErrors(errs), nil
	}

	strategy := s.resolver.Resolve(req)
	if strategy == nil {
		return response.AddError(dto.CodeUpdateUnsupported, "No se encontró estrategia válida para registrarse", ""), nil
	}

	final, err := strategy.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return response.Merge(final), nil
}

// crearCuenta materializa la cuenta: convierte los roles pedidos a roles del
// catálogo, hashea la contraseña y persiste. Implementa cuentaCreator para las
// estrategias.
func (s *Service) crearCuenta(ctx context.Context, usuarioDto dto.UsuarioDto, personaID, fabricanteID string) (*dto.UsuarioResponse, error) {
	roles := make([]entity.Rol, 0, len(usuarioDto.Roles))
	for _, rolDto := range usuarioDto.Roles {
		rol, err := ResolveRol(rolDto.Nombre)
		if err != nil {
			continue // roles desconocidos ya generaron advertencia o error antes
		}
		roles = append(roles, entity.Rol{Nombre: rol.Nombre, Priority: rol.Priority})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(usuarioDto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	creado, err := s.usuarioRepo.Create(ctx, &entity.Usuario{
		ID:           uuid.New().String(),
		Username:     usuarioDto.Username,
		PasswordHash: string(hash),
		PersonaID:    personaID,
		FabricanteID: fabricanteID,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("usuario_id", creado.ID).Msg("cuenta creada")
	return toUsuarioResponse(creado), nil
}

// GetUsuarioByIdentifier resuelve una cuenta por identificador flexible:
// username, luego credenciales de persona (cédula, pasaporte o correo), luego
// credenciales de fabricante (licencia o correo).
func (s *Service) GetUsuarioByIdentifier(ctx context.Context, identifier string) (*entity.Usuario, error) {
	if u, err := s.usuarioRepo.FindByUsername(ctx, identifier); err != nil || u != nil {
		return u, err
	}

	cedula, pasaporte, correo := formatToSearch(identifier)
	if u, err := s.usuarioRepo.FindByCredencialesPersona(ctx, cedula, pasaporte, correo); err != nil || u != nil {
		return u, err
	}

	return s.usuarioRepo.FindByCredencialesFabricante(ctx, identifier, identifier)
}

// GetUsuarioByID busca una cuenta por su ID.
func (s *Service) GetUsuarioByID(ctx context.Context, id string) (*entity.Usuario, error) {
	return s.usuarioRepo.FindByID(ctx, id)
}

// GetProfile arma el perfil del usuario con su persona o fabricante vinculado.
func (s *Service) GetProfile(ctx context.Context, usuarioID string) (*dto.ApiResponse, error) {
	response := dto.NewApiResponse()

	persona, err := s.personaRepo.FindByUsuarioID(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if persona != nil {
		response.AddData("persona", persona)
	}

	fabricante, err := s.fabricanteRepo.FindByUsuarioID(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if fabricante != nil {
		response.AddData("fabricante", fabricante)
	}

	return response, nil
}

// Login verifica credenciales y emite el par de tokens. La respuesta incluye
// los datos de la persona o fabricante vinculado.
func (s *Service) Login(ctx context.Context, in dto.LoginRequest) (*dto.ApiResponse, error) {
	response := dto.NewApiResponse()

	usuario, err := s.GetUsuarioByIdentifier(ctx, in.Identificador)
	if err != nil {
		return nil, err
	}
	if usuario == nil {
		return response.AddError(dto.CodeNotFound, "El usuario no ha sido encontrado, intente nuevamente.", ""), nil
	}
	if bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(in.Password)) != nil {
		return response.AddError(dto.CodeValidationFailed, "Credenciales inválidas", ""), nil
	}
	if usuario.Disabled {
		return response.AddError(dto.CodePermissionDenied, "La cuenta está deshabilitada", ""), nil
	}

	claims := map[string]string{}
	if usuario.PersonaID != "" {
		claims["persona_id"] = usuario.PersonaID
		if persona, err := s.personaRepo.FindByID(ctx, usuario.PersonaID); err == nil && persona != nil {
			response.AddData("persona", persona)
		}
	}
	if usuario.FabricanteID != "" {
		claims["fabricante_id"] = usuario.FabricanteID
		if fabricante, err := s.fabricanteRepo.FindByUsuarioID(ctx, usuario.ID); err == nil && fabricante != nil {
			response.AddData("fabricante", fabricante)
		}
	}

	pair, err := s.tokens.GenerateTokenPair(ctx, usuario.ID, nombresDeRoles(usuario.Roles), claims)
	if err != nil {
		return nil, err
	}
	response.AddData("token", pair)
	return response, nil
}

// ChangePassword restaura la contraseña de una cuenta resuelta por
// identificador flexible. Solo persiste cuando no se acumuló ningún error,
// incluida la verificación fuera de banda por fecha de nacimiento.
func (s *Service) ChangePassword(ctx context.Context, restore dto.RestoreRequest) (*dto.ApiResponse, error) {
	response := dto.NewApiResponse()

	usuario, err := s.GetUsuarioByIdentifier(ctx, restore.Username)
	if err != nil {
		return nil, err
	}
	if usuario == nil {
		return response.AddError(dto.CodeNotFound, "La persona con la identificación dada no fue encontrada", "username"), nil
	}

	errs, err := s.validateChangePassword(ctx, usuario, restore)
	if err != nil {
		return nil, err
	}
	response.AddErrors(errs)

	persona, err := s.personaRepo.FindByUsuarioID(ctx, usuario.ID)
	if err != nil {
		return nil, err
	}
	switch {
	case persona == nil:
		response.AddError(dto.CodeValidationFailed, "No se pudo encontrar la persona asociada al usuario", "")
	case persona.FechaNacimiento.IsZero():
		response.AddError(dto.CodeMissingInformation, "Operación no permitida. La fecha de nacimiento de la persona es null", "fecha_nacimiento")
	default:
		fecha, parseErr := time.Parse("2006-01-02", restore.FechaNacimiento)
		if parseErr != nil || !fecha.Equal(truncarADia(persona.FechaNacimiento)) {
			response.AddError(dto.CodeValidationFailed, "La fecha de nacimiento no coincide con la registrada", "fecha_nacimiento")
		}
	}

	if response.HasErrors() {
		return response, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(restore.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	usuario.PasswordHash = string(hash)
	usuario.UpdatedAt = time.Now().UTC()
	if err := s.usuarioRepo.Save(ctx, usuario); err != nil {
		return nil, err
	}
	return response, nil
}

// UpdateLastUsed toca la marca de último uso de la cuenta. Operación best
// effort invocada desde el filtro de tokens; el fallo solo se registra.
func (s *Service) UpdateLastUsed(ctx context.Context, usuarioID string) error {
	usuario, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if err != nil {
		return err
	}
	if usuario == nil {
		s.log.Error().Str("usuario_id", usuarioID).Msg("no existe usuario para marcar último uso")
		return nil
	}
	usuario.LastUsed = time.Now().UTC()
	return s.usuarioRepo.Save(ctx, usuario)
}

func (s *Service) validateChangePassword(ctx context.Context, usuario *entity.Usuario, restore dto.RestoreRequest) ([]dto.ApiError, error) {
	const propiedad = "new_password"
	var errs []dto.ApiError

	if bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(restore.NewPassword)) == nil {
		errs = append(errs, dto.ApiError{
			Code:     dto.CodeValidationFailed,
			Message:  "La nueva contraseña no puede ser igual a la contraseña actual",
			Property: propiedad,
		})
	}
	if usuario.Username != "" && strings.Contains(strings.ToLower(restore.NewPassword), strings.ToLower(usuario.Username)) {
		errs = append(errs, dto.ApiError{
			Code:     dto.CodeValidationFailed,
			Message:  "La nueva contraseña no puede tener su username",
			Property: propiedad,
		})
	}
	comprometida, err := s.compromiso.IsPasswordCompromised(ctx, restore.NewPassword)
	if err != nil {
		return nil, err
	}
	if comprometida {
		errs = append(errs, dto.ApiError{
			Code:     dto.CodeValidationFailed,
			Message:  "La nueva contraseña está comprometida, utilice contraseñas seguras",
			Property: propiedad,
		})
	}
	return errs, nil
}

// formatToSearch separa un identificador libre en las variantes de búsqueda:
// correo si tiene arroba, pasaporte si empieza con letras, cédula en el resto.
func formatToSearch(identifier string) (cedula, pasaporte, correo string) {
	id := strings.TrimSpace(identifier)
	switch {
	case strings.Contains(id, "@"):
		return "", "", strings.ToLower(id)
	case id != "" && esLetra(rune(id[0])):
		return "", strings.ToUpper(id), ""
	default:
		return id, "", ""
	}
}

func esLetra(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func truncarADia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nombresDeRoles(roles []entity.Rol) []string {
	nombres := make([]string, 0, len(roles))
	for _, r := range roles {
		nombres = append(nombres, r.Nombre)
	}
	return nombres
}

func toUsuarioResponse(u *entity.Usuario) *dto.UsuarioResponse {
	if u == nil {
		return nil
	}
	return &dto.UsuarioResponse{
		ID:           u.ID,
		Username:     u.Username,
		Roles:        nombresDeRoles(u.Roles),
		PersonaID:    u.PersonaID,
		FabricanteID: u.FabricanteID,
		CreatedAt:    u.CreatedAt,
	}
}
