package dto

import "time"

// InsertDosisRequest petición para registrar la aplicación de una dosis.
type InsertDosisRequest struct {
	PacienteID      string    `json:"paciente_id" validate:"required,uuid"`
	VacunaID        string    `json:"vacuna_id" validate:"required,uuid"`
	SedeID          string    `json:"sede_id" validate:"required,uuid"`
	DoctorID        string    `json:"doctor_id,omitempty" validate:"omitempty,uuid"`
	NumeroDosis     string    `json:"numero_dosis" validate:"required"`
	Lote            string    `json:"lote,omitempty" validate:"omitempty,max=50"`
	FechaAplicacion time.Time `json:"fecha_aplicacion" validate:"required"`
}

// DosisResponse salida de una dosis aplicada.
type DosisResponse struct {
	ID              string    `json:"id"`
	PacienteID      string    `json:"paciente_id"`
	VacunaID        string    `json:"vacuna_id"`
	SedeID          string    `json:"sede_id"`
	DoctorID        string    `json:"doctor_id,omitempty"`
	NumeroDosis     string    `json:"numero_dosis"`
	Lote            string    `json:"lote,omitempty"`
	FechaAplicacion time.Time `json:"fecha_aplicacion"`
}
