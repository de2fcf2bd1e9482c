package entity

import "time"

// Fabricante laboratorio productor de vacunas. Su cuenta de usuario se crea
// con la estrategia de registro por licencia.
type Fabricante struct {
	ID        string
	Nombre    string
	Licencia  string // identificador único emitido por la autoridad sanitaria
	Contacto  string
	UsuarioID string // vacío si aún no tiene cuenta
	Usuario   *Usuario
	CreatedAt time.Time
	UpdatedAt time.Time
}
