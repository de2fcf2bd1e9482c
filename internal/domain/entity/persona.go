package entity

import "time"

// Persona datos personales compartidos por pacientes, doctores y personal.
type Persona struct {
	ID              string
	Nombre          string
	Apellido        string
	Cedula          string
	Pasaporte       string
	Correo          string
	Telefono        string
	FechaNacimiento time.Time // zero value = desconocida
	Direccion       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Paciente persona registrada en el programa de vacunación.
type Paciente struct {
	ID                     string // comparte ID con la Persona
	Persona                Persona
	IdentificacionTemporal string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
