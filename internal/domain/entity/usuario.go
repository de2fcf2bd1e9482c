package entity

import "time"

// Usuario cuenta de acceso al sistema. Puede estar vinculada a una Persona
// (pacientes, doctores, personal) o a un Fabricante, nunca a ambos.
type Usuario struct {
	ID           string
	Username     string
	PasswordHash string // hash bcrypt, nunca texto plano después de persistir
	PersonaID    string // opcional, vínculo a persona
	FabricanteID string // opcional, vínculo a fabricante
	Disabled     bool
	Roles        []Rol
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastUsed     time.Time
}

// Rol catálogo de roles con prioridad total. La prioridad ordena la jerarquía:
// mayor prioridad implica mayor autoridad.
type Rol struct {
	ID       int16
	Nombre   string
	Priority int
	Permisos []Permiso
}

// Permiso capacidad puntual asociada a un rol, ej. ADMINISTRATIVO_WRITE.
type Permiso struct {
	ID     int16
	Nombre string
}
