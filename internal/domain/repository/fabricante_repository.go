package repository

import (
	"context"

	"github.com/vacunaspa/registro-api/internal/domain/entity"
)

// FabricanteRepository puerto de persistencia para fabricantes.
type FabricanteRepository interface {
	FindByLicencia(ctx context.Context, licencia string) (*entity.Fabricante, error)
	FindByUsuarioID(ctx context.Context, usuarioID string) (*entity.Fabricante, error)
	// VincularUsuario asocia la cuenta creada con el fabricante.
	VincularUsuario(ctx context.Context, fabricanteID, usuarioID string) error
}
