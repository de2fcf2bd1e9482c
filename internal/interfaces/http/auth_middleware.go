package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vacunaspa/registro-api/internal/application/dto"
	pkgjwt "github.com/vacunaspa/registro-api/pkg/jwt"
)

// Locals keys con los claims extraídos del JWT.
const (
	LocalUserID       = "user_id"
	LocalTokenID      = "token_id"
	LocalRoles        = "roles"
	LocalTipoToken    = "tipo_token"
	LocalPersonaID    = "persona_id"
	LocalFabricanteID = "fabricante_id"
)

// AuthMiddleware valida el Bearer Token JWT y carga los claims en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, errResp := parseBearer(c, jwtSecret)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errResp)
		}
		setClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuthMiddleware carga los claims si hay un token válido y deja pasar
// sin credencial. Un token presente pero inválido sí rechaza: no se degrada a
// anónimo una credencial rota.
func OptionalAuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		claims, errResp := parseBearer(c, jwtSecret)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errResp)
		}
		setClaims(c, claims)
		return c.Next()
	}
}

// RequireRole autoriza solo a usuarios que porten alguno de los roles dados.
// Debe usarse después de AuthMiddleware.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles := GetRoles(c)
		if len(roles) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "MISSING_ROLE", Message: "el token no incluye roles",
			})
		}
		for _, rol := range roles {
			for _, a := range allowed {
				if strings.EqualFold(rol, a) {
					return c.Next()
				}
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "rol sin acceso a este recurso",
		})
	}
}

func parseBearer(c *fiber.Ctx, jwtSecret string) (*pkgjwt.Claims, *dto.ErrorResponse) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"}
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"}
	}
	claims, err := pkgjwt.Parse(jwtSecret, tokenString)
	if err != nil {
		return nil, &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"}
	}
	return claims, nil
}

func setClaims(c *fiber.Ctx, claims *pkgjwt.Claims) {
	c.Locals(LocalUserID, claims.Subject)
	c.Locals(LocalTokenID, claims.ID)
	c.Locals(LocalRoles, claims.Roles)
	c.Locals(LocalTipoToken, claims.Tipo)
	c.Locals(LocalPersonaID, claims.PersonaID)
	c.Locals(LocalFabricanteID, claims.FabricanteID)
}

// GetUserID devuelve el ID del usuario autenticado, o vacío.
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetTokenID devuelve el jti del token presentado, o vacío.
func GetTokenID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalTokenID).(string)
	return s
}

// GetRoles devuelve los roles del token, o nil.
func GetRoles(c *fiber.Ctx) []string {
	roles, _ := c.Locals(LocalRoles).([]string)
	return roles
}

// GetPersonaID devuelve el claim persona_id, o vacío.
func GetPersonaID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalPersonaID).(string)
	return s
}

// GetFabricanteID devuelve el claim fabricante_id, o vacío.
func GetFabricanteID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalFabricanteID).(string)
	return s
}
