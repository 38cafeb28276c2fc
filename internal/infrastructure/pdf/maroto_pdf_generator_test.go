package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-conteo/internal/application/report"
)

func TestRenderTable(t *testing.T) {
	g := NewMarotoPDFGenerator("Inventario")
	body, err := g.RenderTable(context.Background(), report.Table{
		Title:       "Ítems con stock bajo",
		Subtitle:    "2 ítems",
		Columns:     []string{"barcode", "name", "quantity", "min_quantity"},
		Rows:        [][]string{{"123", "Tornillo", "5", "10"}, {"456", "Tuerca", "1"}},
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRenderTable_SinColumnas(t *testing.T) {
	_, err := NewMarotoPDFGenerator("").RenderTable(context.Background(), report.Table{Title: "x"})
	assert.Error(t, err)
}

func TestRenderTable_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoPDFGenerator("").RenderTable(ctx, report.Table{Columns: []string{"a"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "Min quantity", headerLabel("min_quantity"))
	assert.Equal(t, "abc…", truncate("abcdefgh", 4))
	assert.Equal(t, "ñandú", truncate("ñandú", 5))
}
