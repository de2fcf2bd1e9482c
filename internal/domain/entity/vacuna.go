package entity

import "time"

// Vacuna producto biológico aplicable en dosis.
type Vacuna struct {
	ID           string
	Nombre       string
	FabricanteID string
	EdadMinima   int16 // meses
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sede lugar de aplicación (hospital, centro de salud, etc.).
type Sede struct {
	ID          string
	Nombre      string
	Dependencia string
	Direccion   string
	CreatedAt   time.Time
}

// NumeroDosis número de dosis dentro del esquema de vacunación.
type NumeroDosis string

const (
	DosisPrevia   NumeroDosis = "P"
	DosisPrimera  NumeroDosis = "1"
	DosisSegunda  NumeroDosis = "2"
	DosisTercera  NumeroDosis = "3"
	DosisRefuerzo NumeroDosis = "R"
)

// orden dentro del esquema; el refuerzo puede repetirse.
var ordenDosis = map[NumeroDosis]int{
	DosisPrevia:   0,
	DosisPrimera:  1,
	DosisSegunda:  2,
	DosisTercera:  3,
	DosisRefuerzo: 4,
}

// Valida reporta si el número de dosis pertenece al esquema.
func (n NumeroDosis) Valida() bool {
	_, ok := ordenDosis[n]
	return ok
}

// EsSucesoraValida reporta si next puede aplicarse después de la dosis actual.
// Las dosis normales deben avanzar en orden estricto; el refuerzo admite
// repetición (R después de R).
func (n NumeroDosis) EsSucesoraValida(next NumeroDosis) bool {
	cur, ok := ordenDosis[n]
	if !ok {
		return false
	}
	nxt, ok := ordenDosis[next]
	if !ok {
		return false
	}
	if next == DosisRefuerzo && n == DosisRefuerzo {
		return true
	}
	return nxt > cur
}

// Dosis aplicación concreta de una vacuna a un paciente.
type Dosis struct {
	ID              string
	PacienteID      string
	VacunaID        string
	SedeID          string
	DoctorID        string // opcional
	NumeroDosis     NumeroDosis
	Lote            string
	FechaAplicacion time.Time
	CreatedAt       time.Time
}
