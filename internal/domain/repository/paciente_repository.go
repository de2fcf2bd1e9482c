package repository

import (
	"context"

	"github.com/vacunaspa/registro-api/internal/domain/entity"
)

// PersonaRepository puerto de persistencia para personas.
type PersonaRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Persona, error)
	FindByUsuarioID(ctx context.Context, usuarioID string) (*entity.Persona, error)
}

// PacienteRepository puerto de persistencia para pacientes.
type PacienteRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Paciente, error)
}
