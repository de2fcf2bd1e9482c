// Package pdf implementa la generación del certificado de vacunación en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: República de Panamá │ N° Certificado + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PACIENTE: Nombre + Cédula/Pasaporte + Fecha nacimiento     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Vacuna | Dosis | Lote | Fecha | Sede                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Código QR de verificación + leyenda                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/vacunaspa/registro-api/internal/application/certificado"
	"github.com/vacunaspa/registro-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoCertificadoGenerator implementa certificado.Generator usando Maroto v2.
type MarotoCertificadoGenerator struct{}

// NewMarotoCertificadoGenerator construye el generador.
func NewMarotoCertificadoGenerator() *MarotoCertificadoGenerator { return &MarotoCertificadoGenerator{} }

// GenerateCertificadoPDF genera el PDF y devuelve sus bytes.
func (g *MarotoCertificadoGenerator) GenerateCertificadoPDF(
	_ context.Context,
	certificadoID string,
	paciente *entity.Paciente,
	dosis []certificado.DosisConVacuna,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Certificado de Vacunación", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(certificadoID))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(pacienteRow(paciente))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDosisRows(dosis) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(certificadoID)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del certificado (izq) y número + fecha (der).
func headerRow(certificadoID string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("CERTIFICADO DE VACUNACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("República de Panamá — Ministerio de Salud", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+certificadoID, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 4,
			}),
		),
	)
}

// pacienteRow: datos del paciente certificado.
func pacienteRow(paciente *entity.Paciente) core.Row {
	identificacion := paciente.Persona.Cedula
	if identificacion == "" {
		identificacion = paciente.Persona.Pasaporte
	}
	if identificacion == "" {
		identificacion = paciente.IdentificacionTemporal
	}
	fechaNac := "—"
	if !paciente.Persona.FechaNacimiento.IsZero() {
		fechaNac = paciente.Persona.FechaNacimiento.Format("02/01/2006")
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PACIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(paciente.Persona.Nombre+" "+paciente.Persona.Apellido, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Identificación: %s   |   Fecha de nacimiento: %s",
				identificacion, fechaNac,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de dosis.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Vacuna", 4, align.Left),
		h("Dosis", 1, align.Center),
		h("Lote", 2, align.Center),
		h("Fecha", 2, align.Center),
		h("Sede", 3, align.Left),
	)
}

// tableDosisRows: una fila por dosis aplicada.
func tableDosisRows(dosis []certificado.DosisConVacuna) []core.Row {
	result := make([]core.Row, 0, len(dosis))
	for _, d := range dosis {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				d.NombreVacuna,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				string(d.NumeroDosis),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				d.Lote,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				d.FechaAplicacion.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				d.NombreSede,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
		))
	}
	return result
}

// footerRows: código QR de verificación + leyenda.
func footerRows(certificadoID string) []core.Row {
	return []core.Row{
		row.New(28).Add(
			col.New(3).Add(
				code.NewQr(certificadoID, props.Rect{Percent: 90}),
			),
			col.New(9).Add(
				text.New("Verifique la autenticidad de este certificado escaneando el código QR.", props.Text{
					Size: 8, Top: 8, Color: colorGray,
				}),
				text.New("Documento generado electrónicamente, válido sin firma ni sello.", props.Text{
					Size: 8, Top: 14, Color: colorGray,
				}),
			),
		),
	}
}
