package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/vacunaspa/registro-api/internal/domain/repository"
	"github.com/vacunaspa/registro-api/pkg/logger"
)

// RefreshTokenEndpoint único path donde un refresh token es aceptable.
const RefreshTokenEndpoint = "/vacunacion/v1/token/refresh"

// lastUsedToucher marca el último uso de la cuenta. Lo implementa
// usuario.Service.
type lastUsedToucher interface {
	UpdateLastUsed(ctx context.Context, usuarioID string) error
}

// TokenValidityFilter verifica contra el almacén de tokens que la credencial
// presentada sigue vigente y que el tipo de token corresponde al endpoint.
// Debe correr después de AuthMiddleware; peticiones sin credencial pasan
// intactas.
//
// Las dos consultas al almacén corren en paralelo atadas al contexto de la
// petición y se juntan antes de decidir. Reglas en orden, gana la primera:
//  1. access inválido, refresh válido, path ≠ refresh  → rechazar
//  2. access válido, refresh inválido, path = refresh  → rechazar
//  3. ambos inválidos                                  → rechazar
//  4. en otro caso                                     → permitir
//
// Cualquier falla del almacén rechaza con server_error: nunca se falla
// abierto. Al permitir se dispara, desacoplado de la petición, el toque de
// último uso; su error solo se registra.
func TokenValidityFilter(store repository.TokenStore, toucher lastUsedToucher, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		tokenID := GetTokenID(c)
		if userID == "" || tokenID == "" {
			return c.Next()
		}
		log.Debug().Str("usuario_id", userID).Str("token_id", tokenID).Msg("verificando vigencia del token")

		var accessValid, refreshValid bool
		g, ctx := errgroup.WithContext(c.UserContext())
		g.Go(func() error {
			var err error
			accessValid, err = store.IsAccessTokenValid(ctx, userID, tokenID)
			return err
		})
		g.Go(func() error {
			var err error
			refreshValid, err = store.IsRefreshTokenValid(ctx, userID, tokenID)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Error().Err(err).Msg("falla consultando el almacén de tokens")
			return reject(c, "server_error", "Token validation failed due to server issue")
		}

		path := c.Path()
		log.Debug().Bool("access", accessValid).Bool("refresh", refreshValid).Str("path", path).Msg("vigencia resuelta")

		switch {
		case !accessValid && refreshValid && path != RefreshTokenEndpoint:
			return reject(c, "invalid_token", "Refresh token is only for refresh tokens")
		case accessValid && !refreshValid && path == RefreshTokenEndpoint:
			return reject(c, "invalid_token", "Access token cannot be used to refresh tokens")
		case !accessValid && !refreshValid:
			return reject(c, "invalid_token", "Tokens has been revoked")
		}

		// Best effort, desacoplado de la cancelación de la petición: la
		// respuesta no espera ni depende de esta marca.
		touchCtx := context.WithoutCancel(c.UserContext())
		go func() {
			if err := toucher.UpdateLastUsed(touchCtx, userID); err != nil {
				log.Error().Err(err).Str("usuario_id", userID).Msg("no se pudo marcar último uso")
			}
		}()

		return c.Next()
	}
}

// reject corta la petición con 403 y el challenge estándar.
func reject(c *fiber.Ctx, errorCode, description string) error {
	c.Set(fiber.HeaderWWWAuthenticate,
		fmt.Sprintf("Bearer error=%q, error_description=%q", errorCode, description))
	return c.SendStatus(fiber.StatusForbidden)
}
