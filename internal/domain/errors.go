package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUsernameAlreadyExists = errors.New("el nombre de usuario ya está en uso")
)
