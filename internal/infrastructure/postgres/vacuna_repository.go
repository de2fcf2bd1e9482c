package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacunaspa/registro-api/internal/domain/entity"
	"github.com/vacunaspa/registro-api/internal/domain/repository"
)

var _ repository.VacunaRepository = (*VacunaRepo)(nil)

// VacunaRepo implementación del puerto VacunaRepository sobre PostgreSQL.
type VacunaRepo struct {
	pool     *pgxpool.Pool
	personas *PersonaRepo
}

// NewVacunaRepository construye el adaptador de persistencia para vacunas y dosis.
func NewVacunaRepository(pool *pgxpool.Pool) *VacunaRepo {
	return &VacunaRepo{pool: pool, personas: NewPersonaRepository(pool)}
}

// FindVacunaByID obtiene una vacuna por ID.
func (r *VacunaRepo) FindVacunaByID(ctx context.Context, id string) (*entity.Vacuna, error) {
	var v entity.Vacuna
	err := r.pool.QueryRow(ctx, `
		SELECT id, nombre, COALESCE(fabricante_id::text, ''), COALESCE(edad_minima, 0), created_at, updated_at
		FROM vacunas WHERE id = $1`, id).
		Scan(&v.ID, &v.Nombre, &v.FabricanteID, &v.EdadMinima, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vacuna: %w", err)
	}
	return &v, nil
}

// FindSedeByID obtiene una sede por ID.
func (r *VacunaRepo) FindSedeByID(ctx context.Context, id string) (*entity.Sede, error) {
	var s entity.Sede
	err := r.pool.QueryRow(ctx, `
		SELECT id, nombre, COALESCE(dependencia, ''), COALESCE(direccion, ''), created_at
		FROM sedes WHERE id = $1`, id).
		Scan(&s.ID, &s.Nombre, &s.Dependencia, &s.Direccion, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sede: %w", err)
	}
	return &s, nil
}

// FindDoctorByID obtiene la persona de un doctor registrado.
func (r *VacunaRepo) FindDoctorByID(ctx context.Context, id string) (*entity.Persona, error) {
	query := selectPersona + `
		JOIN doctores d ON d.id = p.id
		WHERE d.id = $1`
	return r.personas.findOne(ctx, query, id)
}

const selectDosis = `
	SELECT id, paciente_id, vacuna_id, sede_id, COALESCE(doctor_id::text, ''),
	       numero_dosis, COALESCE(lote, ''), fecha_aplicacion, created_at
	FROM dosis`

// FindUltimaDosis devuelve la dosis más reciente del paciente para la vacuna.
func (r *VacunaRepo) FindUltimaDosis(ctx context.Context, pacienteID, vacunaID string) (*entity.Dosis, error) {
	query := selectDosis + `
		WHERE paciente_id = $1 AND vacuna_id = $2
		ORDER BY fecha_aplicacion DESC LIMIT 1`
	var d entity.Dosis
	err := r.pool.QueryRow(ctx, query, pacienteID, vacunaID).Scan(
		&d.ID, &d.PacienteID, &d.VacunaID, &d.SedeID, &d.DoctorID,
		&d.NumeroDosis, &d.Lote, &d.FechaAplicacion, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get última dosis: %w", err)
	}
	return &d, nil
}

// CreateDosis persiste la aplicación de una dosis.
func (r *VacunaRepo) CreateDosis(ctx context.Context, dosis *entity.Dosis) (*entity.Dosis, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO dosis (id, paciente_id, vacuna_id, sede_id, doctor_id, numero_dosis, lote, fecha_aplicacion, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, NULLIF($7, ''), $8, $9)`,
		dosis.ID, dosis.PacienteID, dosis.VacunaID, dosis.SedeID, dosis.DoctorID,
		string(dosis.NumeroDosis), dosis.Lote, dosis.FechaAplicacion, dosis.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert dosis: %w", err)
	}
	return dosis, nil
}

// FindDosisByPacienteAndVacuna lista las dosis de una vacuna de un paciente.
func (r *VacunaRepo) FindDosisByPacienteAndVacuna(ctx context.Context, pacienteID, vacunaID string) ([]entity.Dosis, error) {
	query := selectDosis + `
		WHERE paciente_id = $1 AND vacuna_id = $2
		ORDER BY fecha_aplicacion`
	return r.listDosis(ctx, query, pacienteID, vacunaID)
}

// FindDosisByPaciente lista todas las dosis de un paciente.
func (r *VacunaRepo) FindDosisByPaciente(ctx context.Context, pacienteID string) ([]entity.Dosis, error) {
	query := selectDosis + `
		WHERE paciente_id = $1
		ORDER BY fecha_aplicacion`
	return r.listDosis(ctx, query, pacienteID)
}

func (r *VacunaRepo) listDosis(ctx context.Context, query string, args ...any) ([]entity.Dosis, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dosis: %w", err)
	}
	defer rows.Close()

	var list []entity.Dosis
	for rows.Next() {
		var d entity.Dosis
		if err := rows.Scan(&d.ID, &d.PacienteID, &d.VacunaID, &d.SedeID, &d.DoctorID,
			&d.NumeroDosis, &d.Lote, &d.FechaAplicacion, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dosis: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
