package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacunaspa/registro-api/internal/domain"
	"github.com/vacunaspa/registro-api/internal/domain/entity"
	"github.com/vacunaspa/registro-api/internal/domain/repository"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo implementación del puerto UsuarioRepository sobre PostgreSQL.
type UsuarioRepo struct {
	pool *pgxpool.Pool
}

// NewUsuarioRepository construye el adaptador de persistencia para usuarios.
func NewUsuarioRepository(pool *pgxpool.Pool) *UsuarioRepo {
	return &UsuarioRepo{pool: pool}
}

const selectUsuario = `
	SELECT u.id, u.username, u.password_hash,
	       COALESCE(u.persona_id::text, ''), COALESCE(u.fabricante_id::text, ''),
	       u.disabled, u.created_at, u.updated_at, u.last_used
	FROM usuarios u`

// Create persiste una cuenta nueva con sus roles.
func (r *UsuarioRepo) Create(ctx context.Context, usuario *entity.Usuario) (*entity.Usuario, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO usuarios (id, username, password_hash, persona_id, fabricante_id, disabled, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, NULLIF($5, '')::uuid, $6, $7, $8)`
	_, err = tx.Exec(ctx, query,
		usuario.ID, usuario.Username, usuario.PasswordHash,
		usuario.PersonaID, usuario.FabricanteID, usuario.Disabled,
		usuario.CreatedAt, usuario.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUsernameAlreadyExists
		}
		return nil, fmt.Errorf("insert usuario: %w", err)
	}

	for _, rol := range usuario.Roles {
		_, err = tx.Exec(ctx, `
			INSERT INTO usuarios_roles (usuario_id, rol_id)
			SELECT $1, r.id FROM roles r WHERE r.nombre = $2`,
			usuario.ID, rol.Nombre,
		)
		if err != nil {
			return nil, fmt.Errorf("insert usuario rol: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return usuario, nil
}

// Save actualiza los campos mutables de la cuenta.
func (r *UsuarioRepo) Save(ctx context.Context, usuario *entity.Usuario) error {
	var lastUsed *time.Time // NULL = la cuenta nunca se ha usado
	if !usuario.LastUsed.IsZero() {
		lastUsed = &usuario.LastUsed
	}
	query := `
		UPDATE usuarios SET password_hash = $2, disabled = $3, updated_at = $4, last_used = $5
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		usuario.ID, usuario.PasswordHash, usuario.Disabled, usuario.UpdatedAt, lastUsed,
	)
	if err != nil {
		return fmt.Errorf("update usuario: %w", err)
	}
	return nil
}

// FindByID obtiene una cuenta por ID con sus roles.
func (r *UsuarioRepo) FindByID(ctx context.Context, id string) (*entity.Usuario, error) {
	return r.findOne(ctx, selectUsuario+` WHERE u.id = $1`, id)
}

// FindByUsername obtiene una cuenta por nombre de usuario.
func (r *UsuarioRepo) FindByUsername(ctx context.Context, username string) (*entity.Usuario, error) {
	return r.findOne(ctx, selectUsuario+` WHERE u.username = $1`, username)
}

// FindByCredencialesPersona busca por cédula, pasaporte o correo de la persona vinculada.
func (r *UsuarioRepo) FindByCredencialesPersona(ctx context.Context, cedula, pasaporte, correo string) (*entity.Usuario, error) {
	query := selectUsuario + `
		JOIN personas p ON p.id = u.persona_id
		WHERE ($1 <> '' AND p.cedula = $1)
		   OR ($2 <> '' AND p.pasaporte = $2)
		   OR ($3 <> '' AND lower(p.correo) = lower($3))
		LIMIT 1`
	return r.findOne(ctx, query, cedula, pasaporte, correo)
}

// FindByCredencialesFabricante busca por licencia o correo del fabricante vinculado.
func (r *UsuarioRepo) FindByCredencialesFabricante(ctx context.Context, licencia, correo string) (*entity.Usuario, error) {
	query := selectUsuario + `
		JOIN fabricantes f ON f.usuario_id = u.id
		WHERE f.licencia = $1 OR lower(f.contacto) = lower($2)
		LIMIT 1`
	return r.findOne(ctx, query, licencia, correo)
}

func (r *UsuarioRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Usuario, error) {
	var (
		u        entity.Usuario
		lastUsed *time.Time
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.PersonaID, &u.FabricanteID,
		&u.Disabled, &u.CreatedAt, &u.UpdatedAt, &lastUsed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	if lastUsed != nil {
		u.LastUsed = *lastUsed
	}

	roles, err := r.rolesDe(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func (r *UsuarioRepo) rolesDe(ctx context.Context, usuarioID string) ([]entity.Rol, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.nombre, r.priority
		FROM roles r
		JOIN usuarios_roles ur ON ur.rol_id = r.id
		WHERE ur.usuario_id = $1
		ORDER BY r.priority`, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("roles de usuario: %w", err)
	}
	defer rows.Close()

	var roles []entity.Rol
	for rows.Next() {
		var rol entity.Rol
		if err := rows.Scan(&rol.ID, &rol.Nombre, &rol.Priority); err != nil {
			return nil, fmt.Errorf("scan rol: %w", err)
		}
		roles = append(roles, rol)
	}
	return roles, rows.Err()
}
