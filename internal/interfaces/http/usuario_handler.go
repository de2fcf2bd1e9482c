package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vacunaspa/registro-api/internal/application/dto"
	"github.com/vacunaspa/registro-api/internal/application/usuario"
)

// UsuarioHandler maneja registro, login, refresh y restauración de contraseña.
type UsuarioHandler struct {
	svc    *usuario.Service
	tokens *usuario.TokenService
}

// NewUsuarioHandler construye el handler de usuarios.
func NewUsuarioHandler(svc *usuario.Service, tokens *usuario.TokenService) *UsuarioHandler {
	return &UsuarioHandler{svc: svc, tokens: tokens}
}

// Register registra una cuenta. Funciona anónimo (auto-registro) o con
// credencial: en ese caso los roles del token forman el scope de autoridad y
// habilitan los chequeos de jerarquía y permiso.
func (h *UsuarioHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msg := validateStruct(in); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}
	if len(in.Usuario.Roles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "roles no puede estar vacío"})
	}

	response, err := h.svc.CreateUser(c.UserContext(), &in, GetRoles(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo completar el registro"})
	}
	status := fiber.StatusCreated
	if response.HasErrors() {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(response)
}

// Login verifica credenciales y emite el par de tokens.
func (h *UsuarioHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msg := validateStruct(in); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}

	response, err := h.svc.Login(c.UserContext(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo iniciar sesión"})
	}
	if response.HasErrors() {
		return c.Status(fiber.StatusUnauthorized).JSON(response)
	}
	return c.JSON(response)
}

// Refresh emite un par nuevo revocando el vigente. El filtro de tokens ya
// garantizó que el refresh token presentado es válido en este endpoint.
func (h *UsuarioHandler) Refresh(c *fiber.Ctx) error {
	claims := map[string]string{}
	if personaID := GetPersonaID(c); personaID != "" {
		claims["persona_id"] = personaID
	}
	if fabricanteID := GetFabricanteID(c); fabricanteID != "" {
		claims["fabricante_id"] = fabricanteID
	}

	pair, err := h.tokens.Refresh(c.UserContext(), GetUserID(c), GetTokenID(c), GetRoles(c), claims)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo refrescar el token"})
	}
	response := dto.NewApiResponse().AddData("token", pair)
	return c.JSON(response)
}

// Restore cambia la contraseña con verificación fuera de banda.
func (h *UsuarioHandler) Restore(c *fiber.Ctx) error {
	var in dto.RestoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msg := validateStruct(in); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}

	response, err := h.svc.ChangePassword(c.UserContext(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo cambiar la contraseña"})
	}
	return c.JSON(response)
}

// Me devuelve el perfil del usuario autenticado.
func (h *UsuarioHandler) Me(c *fiber.Ctx) error {
	response, err := h.svc.GetProfile(c.UserContext(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo cargar el perfil"})
	}
	return c.JSON(response)
}
