// Package pdf genera los reportes tabulares en PDF.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TÍTULO + subtítulo          │  Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CABECERA: una columna por campo del reporte                 │
//	│  FILAS: zebra gris claro / blanco                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: total de filas                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Inventario-conteo/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorZebra   = &props.Color{Red: 240, Green: 240, Blue: 240}
)

// maxCellRunes trunca celdas largas para que no desborden la columna.
const maxCellRunes = 40

var _ report.PDFRenderer = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.PDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	// Author aparece en los metadatos del documento.
	Author string
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{Author: author}
}

// RenderTable genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderTable(ctx context.Context, t report.Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("pdf: el reporte no tiene columnas")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Una unidad de grilla por columna del reporte.
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(len(t.Columns)).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(t.Title, true).
		WithAuthor(g.Author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(columnsRow(t.Columns))
	m.AddRows(bodyRows(t)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(len(t.Rows), len(t.Columns)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y subtítulo (izq) y fecha de generación (der).
func headerRow(t report.Table) core.Row {
	grid := len(t.Columns)
	right := max(grid/3, 1)
	left := grid - right
	if left == 0 {
		left, right = grid, 0
	}

	title := col.New(left).Add(
		text.New(t.Title, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		}),
		text.New(t.Subtitle, props.Text{
			Size: 8, Top: 9, Color: colorGray,
		}),
	)
	if right == 0 {
		return row.New(16).Add(title)
	}
	return row.New(16).Add(
		title,
		col.New(right).Add(
			text.New("Generado: "+t.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// columnsRow: cabecera con fondo azul.
func columnsRow(columns []string) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(1).Add(text.New(headerLabel(c), props.Text{
			Style: fontstyle.Bold, Size: 7, Align: align.Left,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func bodyRows(t report.Table) []core.Row {
	result := make([]core.Row, 0, len(t.Rows))
	for i, r := range t.Rows {
		cols := make([]core.Col, 0, len(t.Columns))
		for j := range t.Columns {
			value := ""
			if j < len(r) {
				value = truncate(r[j], maxCellRunes)
			}
			cols = append(cols, col.New(1).Add(text.New(value, props.Text{
				Size: 7, Align: align.Left, Top: 1, Left: 1, Right: 1,
			})))
		}
		rr := row.New(6).Add(cols...)
		if i%2 == 1 {
			rr = rr.WithStyle(&props.Cell{BackgroundColor: colorZebra})
		}
		result = append(result, rr)
	}
	return result
}

func footerRow(total, grid int) core.Row {
	return row.New(6).Add(col.New(grid).Add(
		text.New(fmt.Sprintf("Total de filas: %d", total), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// headerLabel "min_quantity" → "Min quantity".
func headerLabel(c string) string {
	s := strings.ReplaceAll(c, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
