package repository

import (
	"context"

	"github.com/vacunaspa/registro-api/internal/domain/entity"
)

// UsuarioRepository puerto de persistencia para cuentas de usuario (DIP).
// Los métodos Find* devuelven (nil, nil) cuando no hay coincidencia; el error
// se reserva para fallas de transporte o almacenamiento.
type UsuarioRepository interface {
	Create(ctx context.Context, usuario *entity.Usuario) (*entity.Usuario, error)
	Save(ctx context.Context, usuario *entity.Usuario) error
	FindByID(ctx context.Context, id string) (*entity.Usuario, error)
	FindByUsername(ctx context.Context, username string) (*entity.Usuario, error)
	// FindByCredencialesPersona busca por cédula, pasaporte o correo de la
	// persona vinculada.
	FindByCredencialesPersona(ctx context.Context, cedula, pasaporte, correo string) (*entity.Usuario, error)
	// FindByCredencialesFabricante busca por licencia o correo del fabricante
	// vinculado.
	FindByCredencialesFabricante(ctx context.Context, licencia, correo string) (*entity.Usuario, error)
}
