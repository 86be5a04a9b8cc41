// Package pdf implementa la generación del certificado de cobertura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Aseguradora  │  N° Póliza + Estado                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ASEGURADO: Nombre + Documento                               │
//	│  VEHÍCULO: Matrícula / Chasis / Motor / Año                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COBERTURA: nombre + prima + monto asegurado + vigencia      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: hash de notarización blockchain + leyenda           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/1gnale/car-chain-api/internal/application/policy"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 16, Green: 88, Blue: 64}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ policy.CertificadoGenerator = (*MarotoCertificadoGenerator)(nil)

// MarotoCertificadoGenerator implementa policy.CertificadoGenerator usando Maroto v2.
type MarotoCertificadoGenerator struct {
	aseguradora string
}

// NewMarotoCertificadoGenerator construye el generador.
func NewMarotoCertificadoGenerator(aseguradora string) *MarotoCertificadoGenerator {
	return &MarotoCertificadoGenerator{aseguradora: aseguradora}
}

// GenerarCertificado genera el PDF del certificado y devuelve sus bytes.
func (g *MarotoCertificadoGenerator) GenerarCertificado(_ context.Context, datos policy.DatosCertificado) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Certificado de Cobertura", true).
		WithAuthor(g.aseguradora, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(datos.Poliza))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(aseguradoRow(datos.Persona))
	m.AddRows(vehiculoRow(datos.Vehiculo))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(coberturaRow(datos))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(datos.Poliza) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar certificado: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: aseguradora (izq) y N° de póliza + estado (der).
func (g *MarotoCertificadoGenerator) headerRow(p *entity.Poliza) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.aseguradora, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Seguro automotor", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CERTIFICADO DE COBERTURA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Póliza "+p.NumeroPoliza, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Estado: "+string(p.Estado), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// aseguradoRow: titular de la póliza.
func aseguradoRow(persona *entity.Persona) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ASEGURADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(persona.Apellido+", "+persona.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Documento: "+persona.Documento, props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// vehiculoRow: bien asegurado.
func vehiculoRow(v *entity.Vehiculo) core.Row {
	gnc := "No"
	if v.GNC {
		gnc = "Sí"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("VEHÍCULO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Matrícula: %s   |   Chasis: %s   |   Motor: %s   |   Año: %d   |   GNC: %s",
				v.Matricula, nonEmpty(v.Chasis, "—"), nonEmpty(v.NumeroMotor, "—"), v.Anio, gnc,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// coberturaRow: cobertura contratada, prima, monto asegurado y vigencia.
func coberturaRow(datos policy.DatosCertificado) core.Row {
	p := datos.Poliza
	vigencia := "—"
	if p.FechaContratacion != nil && p.FechaVencimiento != nil {
		vigencia = p.FechaContratacion.Format("02/01/2006") + " al " + p.FechaVencimiento.Format("02/01/2006")
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Left, Left: 1})
	}
	return row.New(32).Add(
		col.New(4).Add(
			label("Cobertura:"),
			label("Prima mensual:"),
			label("Monto asegurado:"),
			label("Vigencia:"),
		),
		col.New(8).Add(
			value(datos.Cobertura.Nombre),
			value("$"+formatMoney(datos.Prima.StringFixed(0))),
			value("$"+formatMoney(p.MontoAsegurado.StringFixed(0))),
			value(vigencia),
		),
	)
}

// footerRows: sello blockchain + leyenda.
func footerRows(p *entity.Poliza) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("VERIFICACIÓN BLOCKCHAIN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if p.HashNotarizacion != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Hash de la transacción notarizada:", props.Text{
				Style: fontstyle.Bold, Size: 7, Top: 1,
			}),
		)))
		for _, chunk := range splitEvery(p.HashNotarizacion, 80) {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
			)))
		}
	} else {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Notarización pendiente de confirmación en la cadena.", props.Text{
				Size: 7, Color: colorGray, Top: 1,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Este certificado acredita la cobertura indicada a la fecha de su emisión. "+
				"La vigencia queda sujeta al pago de las cuotas en término.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
