// Package vacunacion registra la aplicación de dosis y consulta el historial
// de vacunación de un paciente.
package vacunacion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vacunaspa/registro-api/internal/application/dto"
	"github.com/vacunaspa/registro-api/internal/domain/entity"
	"github.com/vacunaspa/registro-api/internal/domain/repository"
	"github.com/vacunaspa/registro-api/pkg/logger"
)

// UseCase casos de uso de vacunación.
type UseCase struct {
	vacunaRepo   repository.VacunaRepository
	pacienteRepo repository.PacienteRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(vacunaRepo repository.VacunaRepository, pacienteRepo repository.PacienteRepository, log *logger.Logger) *UseCase {
	return &UseCase{vacunaRepo: vacunaRepo, pacienteRepo: pacienteRepo, log: log}
}

// CreateDosis registra una dosis aplicada. Paciente, vacuna y sede deben
// existir; el doctor ausente solo genera advertencia. El número de dosis debe
// ser sucesor válido de la última dosis del paciente para esa vacuna.
func (uc *UseCase) CreateDosis(ctx context.Context, in dto.InsertDosisRequest) (*dto.ApiResponse, error) {
	response := dto.NewApiResponse()

	paciente, err := uc.pacienteRepo.FindByID(ctx, in.PacienteID)
	if err != nil {
		return nil, err
	}
	if paciente == nil {
		return response.AddError(dto.CodeNotFound, "Paciente no encontrado", "paciente_id"), nil
	}

	vacuna, err := uc.vacunaRepo.FindVacunaByID(ctx, in.VacunaID)
	if err != nil {
		return nil, err
	}
	if vacuna == nil {
		return response.AddError(dto.CodeNotFound, "Vacuna no encontrada", "vacuna_id"), nil
	}

	sede, err := uc.vacunaRepo.FindSedeByID(ctx, in.SedeID)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return response.AddError(dto.CodeNotFound, "Sede no encontrada", "sede_id"), nil
	}

	if in.DoctorID != "" {
		doctor, err := uc.vacunaRepo.FindDoctorByID(ctx, in.DoctorID)
		if err != nil {
			return nil, err
		}
		if doctor == nil {
			response.AddWarning(dto.CodeNotFound, "Doctor no encontrado", "doctor_id")
		}
	}

	numero := entity.NumeroDosis(in.NumeroDosis)
	if !numero.Valida() {
		return response.AddError(dto.CodeValidationFailed,
			fmt.Sprintf("El número de dosis %s no pertenece al esquema", in.NumeroDosis), "numero_dosis"), nil
	}

	ultima, err := uc.vacunaRepo.FindUltimaDosis(ctx, in.PacienteID, in.VacunaID)
	if err != nil {
		return nil, err
	}
	if ultima != nil {
		uc.log.Debug().Str("dosis_id", ultima.ID).Msg("última dosis encontrada")
		if !ultima.NumeroDosis.EsSucesoraValida(numero) {
			return response.AddError(dto.CodeValidationFailed,
				fmt.Sprintf("La dosis %s no es válida. Último número de dosis %s", numero, ultima.NumeroDosis),
				"numero_dosis"), nil
		}
	} else {
		uc.log.Debug().Str("paciente_id", in.PacienteID).Msg("el paciente no tiene dosis previas")
	}

	dosis, err := uc.vacunaRepo.CreateDosis(ctx, &entity.Dosis{
		ID:              uuid.New().String(),
		PacienteID:      in.PacienteID,
		VacunaID:        in.VacunaID,
		SedeID:          in.SedeID,
		DoctorID:        in.DoctorID,
		NumeroDosis:     numero,
		Lote:            in.Lote,
		FechaAplicacion: in.FechaAplicacion,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	response.AddData("dosis", toDosisResponse(dosis))
	return response, nil
}

// GetDosisPaciente devuelve el historial de dosis de un paciente, opcionalmente
// filtrado por vacuna.
func (uc *UseCase) GetDosisPaciente(ctx context.Context, pacienteID, vacunaID string) ([]dto.DosisResponse, error) {
	var (
		dosis []entity.Dosis
		err   error
	)
	if vacunaID != "" {
		dosis, err = uc.vacunaRepo.FindDosisByPacienteAndVacuna(ctx, pacienteID, vacunaID)
	} else {
		dosis, err = uc.vacunaRepo.FindDosisByPaciente(ctx, pacienteID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.DosisResponse, 0, len(dosis))
	for i := range dosis {
		out = append(out, *toDosisResponse(&dosis[i]))
	}
	return out, nil
}

func toDosisResponse(d *entity.Dosis) *dto.DosisResponse {
	if d == nil {
		return nil
	}
	return &dto.DosisResponse{
		ID:              d.ID,
		PacienteID:      d.PacienteID,
		VacunaID:        d.VacunaID,
		SedeID:          d.SedeID,
		DoctorID:        d.DoctorID,
		NumeroDosis:     string(d.NumeroDosis),
		Lote:            d.Lote,
		FechaAplicacion: d.FechaAplicacion,
	}
}
