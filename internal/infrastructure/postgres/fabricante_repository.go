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

var _ repository.FabricanteRepository = (*FabricanteRepo)(nil)

// FabricanteRepo implementación del puerto FabricanteRepository sobre PostgreSQL.
type FabricanteRepo struct {
	pool *pgxpool.Pool
}

// NewFabricanteRepository construye el adaptador de persistencia para fabricantes.
func NewFabricanteRepository(pool *pgxpool.Pool) *FabricanteRepo {
	return &FabricanteRepo{pool: pool}
}

const selectFabricante = `
	SELECT f.id, f.nombre, f.licencia, COALESCE(f.contacto, ''),
	       COALESCE(f.usuario_id::text, ''), f.created_at, f.updated_at
	FROM fabricantes f`

// FindByLicencia busca un fabricante por licencia, cargando la cuenta
// vinculada si existe (la estrategia de registro necesita su estado disabled).
func (r *FabricanteRepo) FindByLicencia(ctx context.Context, licencia string) (*entity.Fabricante, error) {
	f, err := r.findOne(ctx, selectFabricante+` WHERE f.licencia = $1`, licencia)
	if err != nil || f == nil {
		return f, err
	}
	if f.UsuarioID != "" {
		var u entity.Usuario
		err := r.pool.QueryRow(ctx, `
			SELECT id, username, disabled FROM usuarios WHERE id = $1`, f.UsuarioID).
			Scan(&u.ID, &u.Username, &u.Disabled)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("usuario de fabricante: %w", err)
		}
		if err == nil {
			f.Usuario = &u
		}
	}
	return f, nil
}

// FindByUsuarioID busca el fabricante vinculado a una cuenta.
func (r *FabricanteRepo) FindByUsuarioID(ctx context.Context, usuarioID string) (*entity.Fabricante, error) {
	return r.findOne(ctx, selectFabricante+` WHERE f.usuario_id = $1`, usuarioID)
}

// VincularUsuario asocia la cuenta creada con el fabricante.
func (r *FabricanteRepo) VincularUsuario(ctx context.Context, fabricanteID, usuarioID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE fabricantes SET usuario_id = $2, updated_at = now() WHERE id = $1`,
		fabricanteID, usuarioID,
	)
	if err != nil {
		return fmt.Errorf("vincular usuario a fabricante: %w", err)
	}
	return nil
}

func (r *FabricanteRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Fabricante, error) {
	var f entity.Fabricante
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&f.ID, &f.Nombre, &f.Licencia, &f.Contacto, &f.UsuarioID, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fabricante: %w", err)
	}
	return &f, nil
}
