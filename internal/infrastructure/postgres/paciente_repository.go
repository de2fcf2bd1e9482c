package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacunaspa/registro-api/internal/domain/entity"
	"github.com/vacunaspa/registro-api/internal/domain/repository"
)

var (
	_ repository.PacienteRepository = (*PacienteRepo)(nil)
	_ repository.PersonaRepository  = (*PersonaRepo)(nil)
)

// PersonaRepo implementación del puerto PersonaRepository sobre PostgreSQL.
type PersonaRepo struct {
	pool *pgxpool.Pool
}

// NewPersonaRepository construye el adaptador de persistencia para personas.
func NewPersonaRepository(pool *pgxpool.Pool) *PersonaRepo {
	return &PersonaRepo{pool: pool}
}

const selectPersona = `
	SELECT p.id, p.nombre, p.apellido, COALESCE(p.cedula, ''), COALESCE(p.pasaporte, ''),
	       COALESCE(p.correo, ''), COALESCE(p.telefono, ''),
	       p.fecha_nacimiento, COALESCE(p.direccion, ''),
	       p.created_at, p.updated_at
	FROM personas p`

// FindByID obtiene una persona por ID.
func (r *PersonaRepo) FindByID(ctx context.Context, id string) (*entity.Persona, error) {
	return r.findOne(ctx, selectPersona+` WHERE p.id = $1`, id)
}

// FindByUsuarioID obtiene la persona vinculada a una cuenta.
func (r *PersonaRepo) FindByUsuarioID(ctx context.Context, usuarioID string) (*entity.Persona, error) {
	query := selectPersona + `
		JOIN usuarios u ON u.persona_id = p.id
		WHERE u.id = $1`
	return r.findOne(ctx, query, usuarioID)
}

func (r *PersonaRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Persona, error) {
	var (
		p     entity.Persona
		fecha *time.Time // NULL = fecha de nacimiento desconocida
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Nombre, &p.Apellido, &p.Cedula, &p.Pasaporte, &p.Correo,
		&p.Telefono, &fecha, &p.Direccion, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get persona: %w", err)
	}
	if fecha != nil {
		p.FechaNacimiento = *fecha
	}
	return &p, nil
}

// PacienteRepo implementación del puerto PacienteRepository sobre PostgreSQL.
type PacienteRepo struct {
	pool     *pgxpool.Pool
	personas *PersonaRepo
}

// NewPacienteRepository construye el adaptador de persistencia para pacientes.
func NewPacienteRepository(pool *pgxpool.Pool) *PacienteRepo {
	return &PacienteRepo{pool: pool, personas: NewPersonaRepository(pool)}
}

// FindByID obtiene un paciente con su persona. El paciente comparte ID con la persona.
func (r *PacienteRepo) FindByID(ctx context.Context, id string) (*entity.Paciente, error) {
	var pac entity.Paciente
	err := r.pool.QueryRow(ctx, `
		SELECT id, COALESCE(identificacion_temporal, ''), created_at, updated_at
		FROM pacientes WHERE id = $1`, id).
		Scan(&pac.ID, &pac.IdentificacionTemporal, &pac.CreatedAt, &pac.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get paciente: %w", err)
	}

	persona, err := r.personas.FindByID(ctx, pac.ID)
	if err != nil {
		return nil, err
	}
	if persona != nil {
		pac.Persona = *persona
	}
	return &pac, nil
}
