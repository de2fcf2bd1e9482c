package repository

import (
	"context"

	"github.com/vacunaspa/registro-api/internal/domain/entity"
)

// VacunaRepository puerto de persistencia para vacunas, sedes y dosis.
type VacunaRepository interface {
	FindVacunaByID(ctx context.Context, id string) (*entity.Vacuna, error)
	FindSedeByID(ctx context.Context, id string) (*entity.Sede, error)
	FindDoctorByID(ctx context.Context, id string) (*entity.Persona, error)
	// FindUltimaDosis devuelve la dosis más reciente del paciente para la
	// vacuna, o (nil, nil) si no tiene dosis previas.
	FindUltimaDosis(ctx context.Context, pacienteID, vacunaID string) (*entity.Dosis, error)
	CreateDosis(ctx context.Context, dosis *entity.Dosis) (*entity.Dosis, error)
	FindDosisByPacienteAndVacuna(ctx context.Context, pacienteID, vacunaID string) ([]entity.Dosis, error)
	FindDosisByPaciente(ctx context.Context, pacienteID string) ([]entity.Dosis, error)
}
