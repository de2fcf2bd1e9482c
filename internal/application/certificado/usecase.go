// Package certificado genera el certificado de vacunación en PDF de un
// paciente, con todas sus dosis aplicadas.
package certificado

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vacunaspa/registro-api/internal/domain"
	"github.com/vacunaspa/registro-api/internal/domain/entity"
	"github.com/vacunaspa/registro-api/internal/domain/repository"
)

// Generator puerto del generador de PDF. Lo implementa el adaptador maroto.
type Generator interface {
	GenerateCertificadoPDF(ctx context.Context, certificadoID string, paciente *entity.Paciente, dosis []DosisConVacuna) ([]byte, error)
}

// DosisConVacuna dosis enriquecida con el nombre de la vacuna para el PDF.
type DosisConVacuna struct {
	entity.Dosis
	NombreVacuna string
	NombreSede   string
}

// UseCase arma los datos del certificado y delega el render al generador.
type UseCase struct {
	pacienteRepo repository.PacienteRepository
	vacunaRepo   repository.VacunaRepository
	generator    Generator
}

// NewUseCase construye el caso de uso inyectando sus dependencias.
func NewUseCase(pacienteRepo repository.PacienteRepository, vacunaRepo repository.VacunaRepository, generator Generator) *UseCase {
	return &UseCase{pacienteRepo: pacienteRepo, vacunaRepo: vacunaRepo, generator: generator}
}

// GenerarCertificado devuelve los bytes del PDF y el nombre de archivo.
// Retorna domain.ErrNotFound si el paciente no existe.
func (uc *UseCase) GenerarCertificado(ctx context.Context, pacienteID string) (pdfBytes []byte, filename string, err error) {
	paciente, err := uc.pacienteRepo.FindByID(ctx, pacienteID)
	if err != nil {
		return nil, "", fmt.Errorf("certificado: obtener paciente: %w", err)
	}
	if paciente == nil {
		return nil, "", domain.ErrNotFound
	}

	dosis, err := uc.vacunaRepo.FindDosisByPaciente(ctx, pacienteID)
	if err != nil {
		return nil, "", fmt.Errorf("certificado: obtener dosis: %w", err)
	}

	enriched := make([]DosisConVacuna, 0, len(dosis))
	for _, d := range dosis {
		nombreVacuna := "Vacuna " + d.VacunaID // fallback
		if vacuna, vErr := uc.vacunaRepo.FindVacunaByID(ctx, d.VacunaID); vErr == nil && vacuna != nil {
			nombreVacuna = vacuna.Nombre
		}
		nombreSede := ""
		if sede, sErr := uc.vacunaRepo.FindSedeByID(ctx, d.SedeID); sErr == nil && sede != nil {
			nombreSede = sede.Nombre
		}
		enriched = append(enriched, DosisConVacuna{Dosis: d, NombreVacuna: nombreVacuna, NombreSede: nombreSede})
	}

	certificadoID := uuid.New().String()
	pdfBytes, err = uc.generator.GenerateCertificadoPDF(ctx, certificadoID, paciente, enriched)
	if err != nil {
		return nil, "", fmt.Errorf("certificado: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("certificado_%s.pdf", pacienteID)
	return pdfBytes, filename, nil
}
