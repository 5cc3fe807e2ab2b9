// Package pdf genera el reporte diario de movimientos en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha y zona horaria                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas (cantidad, movimientos) | Salidas        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Hora | Producto | Dir | Cant | Saldo | Usuario      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: cantidad de movimientos listados                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

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

	"github.com/jhoicas/Bodega-api/internal/application/analytics"
	"github.com/jhoicas/Bodega-api/internal/application/dto"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

var _ analytics.DailyReportRenderer = (*MarotoReportRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorIn      = &props.Color{Red: 0, Green: 120, Blue: 60}
	colorOut     = &props.Color{Red: 170, Green: 40, Blue: 30}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoReportRenderer implementa analytics.DailyReportRenderer usando Maroto v2.
type MarotoReportRenderer struct{}

// NewMarotoReportRenderer construye el generador.
func NewMarotoReportRenderer() *MarotoReportRenderer { return &MarotoReportRenderer{} }

// RenderDaily genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoReportRenderer) RenderDaily(report *dto.DailyReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Movimientos "+report.Date, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(totalsRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	loc := location(report.Timezone)
	for _, r := range tableRows(report.Movements, loc) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%d movimientos listados", len(report.Movements)), props.Text{
			Size: 7, Color: colorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.DailyReportDTO) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DIARIO DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New(report.Date, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(report.Timezone, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func totalsRow(report *dto.DailyReportDTO) core.Row {
	block := func(label string, t dto.DirectionTotalDTO, c *props.Color) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: c, Top: 1}),
			text.New(t.Total.String(), props.Text{Style: fontstyle.Bold, Size: 14, Top: 5}),
			text.New(fmt.Sprintf("%d movimientos", t.Count), props.Text{Size: 8, Color: colorGray, Top: 13}),
		)
	}
	return row.New(20).Add(
		block("ENTRADAS", report.In, colorIn),
		block("SALIDAS", report.Out, colorOut),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Hora", 1, align.Left),
		h("Producto", 5, align.Left),
		h("Dir.", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Saldo", 1, align.Right),
		h("Usuario", 3, align.Left),
	)
}

// tableRows una fila por movimiento; la hora va en la zona del reporte.
func tableRows(movements []dto.MovementDTO, loc *time.Location) []core.Row {
	result := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		dir, c := "ENT", colorIn
		if mv.Direction == entity.DirectionOut {
			dir, c = "SAL", colorOut
		}
		name := mv.ProductName
		if mv.IsUndo {
			name += " (deshacer)"
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(mv.CreatedAt.In(loc).Format("15:04"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(dir, props.Text{Size: 8, Align: align.Center, Top: 1, Color: c})),
			col.New(1).Add(text.New(mv.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(mv.BalanceAfter.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(nonEmpty(mv.EnteredByName, mv.EnteredBy), props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func location(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.UTC
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
