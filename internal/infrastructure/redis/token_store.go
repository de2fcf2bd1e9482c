package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vacunaspa/registro-api/internal/domain/repository"
)

var _ repository.TokenStore = (*TokenStore)(nil)

// TokenStore almacén de pares de tokens keyed por (sujeto, jti).
// Formato de claves: token:access:<usuario>:<jti> y token:refresh:<usuario>:<jti>.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore construye el almacén sobre el cliente dado.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// RegistrarPar marca ambos tokens del par como válidos con sus TTL.
func (s *TokenStore) RegistrarPar(ctx context.Context, usuarioID, tokenID string, accessTTL, refreshTTL time.Duration) error {
	if err := s.client.Set(ctx, accessKey(usuarioID, tokenID), "1", accessTTL).Err(); err != nil {
		return fmt.Errorf("registrar access token: %w", err)
	}
	if err := s.client.Set(ctx, refreshKey(usuarioID, tokenID), "1", refreshTTL).Err(); err != nil {
		return fmt.Errorf("registrar refresh token: %w", err)
	}
	return nil
}

// IsAccessTokenValid reporta si el access token sigue vigente.
func (s *TokenStore) IsAccessTokenValid(ctx context.Context, usuarioID, tokenID string) (bool, error) {
	return s.exists(ctx, accessKey(usuarioID, tokenID))
}

// IsRefreshTokenValid reporta si el refresh token sigue vigente.
func (s *TokenStore) IsRefreshTokenValid(ctx context.Context, usuarioID, tokenID string) (bool, error) {
	return s.exists(ctx, refreshKey(usuarioID, tokenID))
}

// Revocar invalida ambos tokens del par.
func (s *TokenStore) Revocar(ctx context.Context, usuarioID, tokenID string) error {
	if err := s.client.Del(ctx, accessKey(usuarioID, tokenID), refreshKey(usuarioID, tokenID)).Err(); err != nil {
		return fmt.Errorf("revocar par de tokens: %w", err)
	}
	return nil
}

func (s *TokenStore) exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("consultar token: %w", err)
	}
	return n > 0, nil
}

func accessKey(usuarioID, tokenID string) string {
	return fmt.Sprintf("token:access:%s:%s", usuarioID, tokenID)
}

func refreshKey(usuarioID, tokenID string) string {
	return fmt.Sprintf("token:refresh:%s:%s", usuarioID, tokenID)
}
