package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vacunaspa/registro-api/internal/application/certificado"
	"github.com/vacunaspa/registro-api/internal/application/dto"
	"github.com/vacunaspa/registro-api/internal/application/vacunacion"
	"github.com/vacunaspa/registro-api/internal/domain"
)

// VacunaHandler maneja el registro de dosis y el historial de vacunación.
type VacunaHandler struct {
	uc *vacunacion.UseCase
}

// NewVacunaHandler construye el handler de vacunación.
func NewVacunaHandler(uc *vacunacion.UseCase) *VacunaHandler {
	return &VacunaHandler{uc: uc}
}

// CreateDosis registra la aplicación de una dosis.
func (h *VacunaHandler) CreateDosis(c *fiber.Ctx) error {
	var in dto.InsertDosisRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if msg := validateStruct(in); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}

	response, err := h.uc.CreateDosis(c.UserContext(), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo registrar la dosis"})
	}
	status := fiber.StatusCreated
	if response.HasErrors() {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(response)
}

// GetDosisPaciente devuelve el historial de dosis del paciente, con filtro
// opcional ?vacuna_id=.
func (h *VacunaHandler) GetDosisPaciente(c *fiber.Ctx) error {
	pacienteID := c.Params("id")
	dosis, err := h.uc.GetDosisPaciente(c.UserContext(), pacienteID, c.Query("vacuna_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo consultar el historial"})
	}
	response := dto.NewApiResponse().AddData("dosis", dosis)
	return c.JSON(response)
}

// CertificadoHandler sirve el certificado de vacunación en PDF.
type CertificadoHandler struct {
	uc *certificado.UseCase
}

// NewCertificadoHandler construye el handler de certificados.
func NewCertificadoHandler(uc *certificado.UseCase) *CertificadoHandler {
	return &CertificadoHandler{uc: uc}
}

// Descargar genera y descarga el PDF del certificado del paciente.
func (h *CertificadoHandler) Descargar(c *fiber.Ctx) error {
	pacienteID := c.Params("id")
	pdfBytes, filename, err := h.uc.GenerarCertificado(c.UserContext(), pacienteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el paciente no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo generar el certificado"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
