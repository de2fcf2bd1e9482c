package usuario

import (
	"context"

	"github.com/vacunaspa/registro-api/internal/application/dto"
	"github.com/vacunaspa/registro-api/internal/domain/repository"
	pkgjwt "github.com/vacunaspa/registro-api/pkg/jwt"
)

// TokenService emite, refresca y revoca pares de tokens. La firma la hace
// pkg/jwt; la validez por demanda vive en el TokenStore (Redis), de modo que
// revocar un par es borrar sus claves.
type TokenService struct {
	cfg   pkgjwt.Config
	store repository.TokenStore
}

var _ TokenIssuer = (*TokenService)(nil)

// NewTokenService construye el servicio de tokens.
func NewTokenService(cfg pkgjwt.Config, store repository.TokenStore) *TokenService {
	return &TokenService{cfg: cfg, store: store}
}

// GenerateTokenPair firma un par nuevo y lo registra como válido en el
// almacén con las vigencias configuradas.
func (s *TokenService) GenerateTokenPair(ctx context.Context, usuarioID string, roles []string, claims map[string]string) (*dto.TokenPairResponse, error) {
	pair, err := pkgjwt.GeneratePair(s.cfg, usuarioID, roles, claims)
	if err != nil {
		return nil, err
	}
	if err := s.store.RegistrarPar(ctx, usuarioID, pair.TokenID, s.cfg.AccessTTL, s.cfg.RefreshTTL); err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// Refresh revoca el par vigente y emite uno nuevo con los mismos claims. El
// filtro de tokens ya garantizó que el refresh token presentado es válido y
// que la petición llegó al endpoint de refresh.
func (s *TokenService) Refresh(ctx context.Context, usuarioID, tokenID string, roles []string, claims map[string]string) (*dto.TokenPairResponse, error) {
	if err := s.store.Revocar(ctx, usuarioID, tokenID); err != nil {
		return nil, err
	}
	return s.GenerateTokenPair(ctx, usuarioID, roles, claims)
}
