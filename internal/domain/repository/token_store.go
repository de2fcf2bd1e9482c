package repository

import (
	"context"
	"time"
)

// TokenStore puerto del almacén de tokens emitidos. La validez de un token se
// deriva por demanda consultando la clave (sujeto, jti); la expiración la
// gobierna el propio almacén.
type TokenStore interface {
	// RegistrarPar marca como válidos el access y refresh token del par.
	RegistrarPar(ctx context.Context, usuarioID, tokenID string, accessTTL, refreshTTL time.Duration) error
	IsAccessTokenValid(ctx context.Context, usuarioID, tokenID string) (bool, error)
	IsRefreshTokenValid(ctx context.Context, usuarioID, tokenID string) (bool, error)
	// Revocar invalida ambos tokens del par.
	Revocar(ctx context.Context, usuarioID, tokenID string) error
}
