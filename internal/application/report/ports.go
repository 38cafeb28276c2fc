package report

import (
	"context"
	"time"
)

// Table proyección tabular de un reporte, común a CSV, JSON y PDF.
type Table struct {
	Title       string
	Subtitle    string
	Columns     []string
	Rows        [][]string
	GeneratedAt time.Time
}

// PDFRenderer genera la representación PDF de un reporte tabular.
type PDFRenderer interface {
	RenderTable(ctx context.Context, t Table) ([]byte, error)
}

// File archivo exportado listo para enviar.
type File struct {
	Filename    string
	ContentType string
	Body        []byte
}
