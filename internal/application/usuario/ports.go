package usuario

import (
	"context"

	"github.com/vacunaspa/registro-api/internal/application/dto"
)

// CompromisoChecker oráculo de contraseñas comprometidas (corpus de brechas
// conocidas). La semántica de la consulta externa es opaca: solo importa el
// booleano.
type CompromisoChecker interface {
	IsPasswordCompromised(ctx context.Context, password string) (bool, error)
}

// TokenIssuer emite pares de tokens para una cuenta autenticada.
type TokenIssuer interface {
	GenerateTokenPair(ctx context.Context, usuarioID string, roles []string, claims map[string]string) (*dto.TokenPairResponse, error)
}
