package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/report"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/testing/memrepo"
)

type capturePDF struct{ table report.Table }

func (c *capturePDF) RenderTable(_ context.Context, t report.Table) ([]byte, error) {
	c.table = t
	return []byte("%PDF-1.4"), nil
}

func seed(t *testing.T) (*memrepo.Store, string) {
	t.Helper()
	ctx := context.Background()
	store := memrepo.New()
	now := time.Now()
	require.NoError(t, store.Items().Create(ctx, &entity.Item{ID: "i1", Barcode: "111", Name: "Leche, entera", Quantity: 2, MinQuantity: 5, UnitPrice: decimal.RequireFromString("3.5")}))
	require.NoError(t, store.Items().Create(ctx, &entity.Item{ID: "i2", Barcode: "222", Name: "Pan", Quantity: 20, MinQuantity: 5, UnitPrice: decimal.NewFromInt(1)}))
	require.NoError(t, store.Movements().Create(ctx, &entity.StockMovement{ID: "m1", ItemID: "i1", Type: entity.MovementTypeEntrada, Quantity: 2, CreatedAt: now}))
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: "c1", Name: "C1", Active: true}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", CompanyID: "c1", Code: "W1", Name: "W1", Active: true}))
	require.NoError(t, store.Sessions().Create(ctx, &entity.InventorySession{ID: "s1", Name: "Mensual", CompanyID: "c1", WarehouseID: "w1", Status: entity.SessionStatusOpen, StartedAt: now}))
	require.NoError(t, store.Counts().Upsert(ctx, &entity.InventoryCount{ID: "k1", SessionID: "s1", ItemID: "i2", CountedQuantity: 18, ExpectedQuantity: 20, Difference: -2, CountedAt: now}))
	return store, "s1"
}

func newUseCase(store *memrepo.Store, pdf report.PDFRenderer) *report.UseCase {
	return report.NewUseCase(store.Items(), store.Movements(), store.Sessions(), store.Counts(), pdf)
}

func TestExport_CSVPorDefecto(t *testing.T) {
	store, _ := seed(t)
	f, err := newUseCase(store, nil).Export(context.Background(), dto.ExportRequest{Type: report.TypeItems})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(f.Filename, "items_"))
	assert.True(t, strings.HasSuffix(f.Filename, ".csv"))
	assert.Equal(t, "text/csv; charset=utf-8", f.ContentType)

	body := bytes.TrimPrefix(f.Body, []byte{0xEF, 0xBB, 0xBF})
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "barcode", records[0][0])
	assert.Equal(t, "Leche, entera", records[1][1])
	assert.Equal(t, "3", records[1][5], "faltante hasta el mínimo")
	assert.Equal(t, "3.50", records[1][6])
}

func TestExport_JSONConteos(t *testing.T) {
	store, sid := seed(t)
	f, err := newUseCase(store, nil).Export(context.Background(), dto.ExportRequest{Type: report.TypeCounts, Format: report.FormatJSON, SessionID: sid})
	require.NoError(t, err)
	assert.Equal(t, "application/json", f.ContentType)

	var payload struct {
		Success bool   `json:"success"`
		Type    string `json:"type"`
		Total   int    `json:"total"`
		Rows    []struct {
			Barcode    string `json:"barcode"`
			Difference int    `json:"difference"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(f.Body, &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, "counts", payload.Type)
	assert.Equal(t, 1, payload.Total)
	require.Len(t, payload.Rows, 1)
	assert.Equal(t, "222", payload.Rows[0].Barcode)
	assert.Equal(t, -2, payload.Rows[0].Difference)
}

func TestExport_PDFUsaElRenderer(t *testing.T) {
	store, _ := seed(t)
	pdf := &capturePDF{}
	f, err := newUseCase(store, pdf).Export(context.Background(), dto.ExportRequest{Type: report.TypeLowStock, Format: report.FormatPDF})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, "Ítems con stock bajo", pdf.table.Title)
	require.Len(t, pdf.table.Rows, 1)
	assert.Equal(t, "111", pdf.table.Rows[0][0])
	assert.False(t, pdf.table.GeneratedAt.IsZero())

	_, err = newUseCase(store, nil).Export(context.Background(), dto.ExportRequest{Type: report.TypeItems, Format: report.FormatPDF})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport_Errores(t *testing.T) {
	store, _ := seed(t)
	uc := newUseCase(store, nil)
	ctx := context.Background()

	_, err := uc.Export(ctx, dto.ExportRequest{Type: "ventas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Export(ctx, dto.ExportRequest{Type: report.TypeItems, Format: "xlsx"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Export(ctx, dto.ExportRequest{Type: report.TypeCounts})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Export(ctx, dto.ExportRequest{Type: report.TypeCounts, SessionID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummary(t *testing.T) {
	store, _ := seed(t)
	s, err := newUseCase(store, nil).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalItems)
	assert.Equal(t, 22, s.TotalUnits)
	assert.True(t, decimal.NewFromInt(27).Equal(s.StockValue))
	assert.Equal(t, 1, s.LowStockItems)
	assert.Equal(t, 1, s.OpenSessions)
	assert.Equal(t, 1, s.MovementsLast30)
}

func TestWriteCSV_NeutralizaFormulas(t *testing.T) {
	out, err := report.WriteCSV(report.Table{
		Columns: []string{"name", "notes", "difference"},
		Rows: [][]string{
			{"=HYPERLINK(\"http://x\")", "@SUM(A1)", "-5"},
			{"+cmd", "-rayado", "+3"},
			{"Pan", "", "0"},
		},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"name", "notes", "difference"}, records[0])
	assert.Equal(t, []string{"'=HYPERLINK(\"http://x\")", "'@SUM(A1)", "-5"}, records[1])
	assert.Equal(t, []string{"'+cmd", "'-rayado", "+3"}, records[2])
	assert.Equal(t, []string{"Pan", "", "0"}, records[3])
}
