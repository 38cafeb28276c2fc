package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/domain/inventory"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

// Tipos y formatos de exportación.
const (
	TypeItems     = "items"
	TypeMovements = "movements"
	TypeSessions  = "sessions"
	TypeCounts    = "counts"
	TypeLowStock  = "low_stock"

	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// movementExportLimit tope de filas del reporte de movimientos.
const movementExportLimit = 10000

const timeLayout = "2006-01-02 15:04:05"

// UseCase proyecciones de solo lectura del catálogo, movimientos y sesiones.
type UseCase struct {
	itemRepo     repository.ItemRepository
	movementRepo repository.StockMovementRepository
	sessionRepo  repository.InventorySessionRepository
	countRepo    repository.InventoryCountRepository
	pdf          PDFRenderer
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(
	itemRepo repository.ItemRepository,
	movementRepo repository.StockMovementRepository,
	sessionRepo repository.InventorySessionRepository,
	countRepo repository.InventoryCountRepository,
	pdf PDFRenderer,
) *UseCase {
	return &UseCase{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		sessionRepo:  sessionRepo,
		countRepo:    countRepo,
		pdf:          pdf,
	}
}

// dataset tabla para CSV/PDF y registros tipados para JSON.
type dataset struct {
	table   Table
	records any
}

// Export genera el reporte pedido en csv (por defecto), json o pdf.
func (uc *UseCase) Export(ctx context.Context, in dto.ExportRequest) (*File, error) {
	format := in.Format
	if format == "" {
		format = FormatCSV
	}
	now := time.Now()
	ds, err := uc.build(ctx, in.Type, in.SessionID)
	if err != nil {
		return nil, err
	}
	ds.table.GeneratedAt = now
	base := fmt.Sprintf("%s_%s", in.Type, now.Format("20060102_150405"))

	switch format {
	case FormatCSV:
		body, err := WriteCSV(ds.table)
		if err != nil {
			return nil, fmt.Errorf("exportar csv: %w", err)
		}
		return &File{Filename: base + ".csv", ContentType: "text/csv; charset=utf-8", Body: body}, nil
	case FormatJSON:
		body, err := WriteJSON(in.Type, now, len(ds.table.Rows), ds.records)
		if err != nil {
			return nil, fmt.Errorf("exportar json: %w", err)
		}
		return &File{Filename: base + ".json", ContentType: "application/json", Body: body}, nil
	case FormatPDF:
		if uc.pdf == nil {
			return nil, fmt.Errorf("%w: formato pdf no disponible", domain.ErrInvalidInput)
		}
		body, err := uc.pdf.RenderTable(ctx, ds.table)
		if err != nil {
			return nil, fmt.Errorf("exportar pdf: %w", err)
		}
		return &File{Filename: base + ".pdf", ContentType: "application/pdf", Body: body}, nil
	}
	return nil, fmt.Errorf("%w: formato %q (use csv, json o pdf)", domain.ErrInvalidInput, format)
}

// Summary panel general del inventario.
func (uc *UseCase) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	stats, err := uc.itemRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	open, err := uc.sessionRepo.CountByStatus(ctx, entity.SessionStatusOpen)
	if err != nil {
		return nil, err
	}
	movements, err := uc.movementRepo.CountSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	return &dto.SummaryResponse{
		TotalItems:      stats.Items,
		TotalUnits:      stats.TotalUnits,
		StockValue:      stats.StockValue,
		LowStockItems:   stats.LowStockItems,
		OpenSessions:    open,
		MovementsLast30: movements,
	}, nil
}

func (uc *UseCase) build(ctx context.Context, reportType, sessionID string) (*dataset, error) {
	switch reportType {
	case TypeItems:
		items, _, err := uc.itemRepo.List(ctx, repository.ItemFilter{})
		if err != nil {
			return nil, err
		}
		return itemsDataset("Catálogo de ítems", items), nil
	case TypeLowStock:
		items, err := uc.itemRepo.ListLowStock(ctx)
		if err != nil {
			return nil, err
		}
		inventory.SortShortages(items)
		return itemsDataset("Ítems con stock bajo", items), nil
	case TypeMovements:
		list, err := uc.movementRepo.List(ctx, repository.MovementFilter{Limit: movementExportLimit})
		if err != nil {
			return nil, err
		}
		return movementsDataset(list), nil
	case TypeSessions:
		list, err := uc.sessionRepo.List(ctx, repository.SessionFilter{})
		if err != nil {
			return nil, err
		}
		return sessionsDataset(list), nil
	case TypeCounts:
		if sessionID == "" {
			return nil, fmt.Errorf("%w: session_id es obligatorio para el reporte de conteos", domain.ErrInvalidInput)
		}
		session, err := uc.sessionRepo.GetByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, fmt.Errorf("%w: sesión", domain.ErrNotFound)
		}
		counts, err := uc.countRepo.ListBySession(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		return countsDataset(session, counts), nil
	}
	return nil, fmt.Errorf("%w: tipo de reporte %q", domain.ErrInvalidInput, reportType)
}

type itemRecord struct {
	Barcode     string `json:"barcode"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
	Shortage    int    `json:"shortage"`
	UnitPrice   string `json:"unit_price"`
	Location    string `json:"location"`
	Supplier    string `json:"supplier"`
}

func itemsDataset(title string, items []*entity.Item) *dataset {
	t := Table{
		Title:   title,
		Columns: []string{"barcode", "name", "category", "quantity", "min_quantity", "shortage", "unit_price", "location", "supplier"},
	}
	records := make([]itemRecord, 0, len(items))
	for _, it := range items {
		r := itemRecord{
			Barcode:     it.Barcode,
			Name:        it.Name,
			Category:    it.CategoryName,
			Quantity:    it.Quantity,
			MinQuantity: it.MinQuantity,
			Shortage:    max(it.Shortage(), 0),
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Location:    it.Location,
			Supplier:    it.Supplier,
		}
		records = append(records, r)
		t.Rows = append(t.Rows, []string{
			r.Barcode, r.Name, r.Category, itoa(r.Quantity), itoa(r.MinQuantity),
			itoa(r.Shortage), r.UnitPrice, r.Location, r.Supplier,
		})
	}
	t.Subtitle = fmt.Sprintf("%d ítems", len(items))
	return &dataset{table: t, records: records}
}

type movementRecord struct {
	CreatedAt time.Time `json:"created_at"`
	Barcode   string    `json:"barcode"`
	ItemName  string    `json:"item_name"`
	Type      string    `json:"movement_type"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Username  string    `json:"username"`
}

func movementsDataset(list []*entity.StockMovement) *dataset {
	t := Table{
		Title:   "Movimientos de stock",
		Columns: []string{"created_at", "barcode", "item_name", "movement_type", "quantity", "reason", "username"},
	}
	records := make([]movementRecord, 0, len(list))
	for _, m := range list {
		r := movementRecord{
			CreatedAt: m.CreatedAt,
			Barcode:   m.ItemBarcode,
			ItemName:  m.ItemName,
			Type:      m.Type,
			Quantity:  m.Quantity,
			Reason:    m.Reason,
			Username:  m.Username,
		}
		records = append(records, r)
		t.Rows = append(t.Rows, []string{
			r.CreatedAt.Format(timeLayout), r.Barcode, r.ItemName, r.Type, itoa(r.Quantity), r.Reason, r.Username,
		})
	}
	t.Subtitle = fmt.Sprintf("%d movimientos, más recientes primero", len(list))
	return &dataset{table: t, records: records}
}

type sessionRecord struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Company     string     `json:"company"`
	Warehouse   string     `json:"warehouse"`
	Username    string     `json:"username"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at"`
	TotalCounts int        `json:"total_counts"`
}

func sessionsDataset(list []*entity.InventorySession) *dataset {
	t := Table{
		Title:   "Sesiones de inventario",
		Columns: []string{"id", "name", "company", "warehouse", "username", "status", "started_at", "finished_at", "total_counts"},
	}
	records := make([]sessionRecord, 0, len(list))
	for _, s := range list {
		r := sessionRecord{
			ID:          s.ID,
			Name:        s.Name,
			Company:     s.CompanyName,
			Warehouse:   s.WarehouseName,
			Username:    s.Username,
			Status:      s.Status,
			StartedAt:   s.StartedAt,
			FinishedAt:  s.FinishedAt,
			TotalCounts: s.TotalCounts,
		}
		records = append(records, r)
		finished := ""
		if r.FinishedAt != nil {
			finished = r.FinishedAt.Format(timeLayout)
		}
		t.Rows = append(t.Rows, []string{
			r.ID, r.Name, r.Company, r.Warehouse, r.Username, r.Status,
			r.StartedAt.Format(timeLayout), finished, itoa(r.TotalCounts),
		})
	}
	t.Subtitle = fmt.Sprintf("%d sesiones", len(list))
	return &dataset{table: t, records: records}
}

type countRecord struct {
	Barcode          string    `json:"barcode"`
	ItemName         string    `json:"item_name"`
	Category         string    `json:"category"`
	ExpectedQuantity int       `json:"expected_quantity"`
	CountedQuantity  int       `json:"counted_quantity"`
	Difference       int       `json:"difference"`
	Notes            string    `json:"notes"`
	CountedAt        time.Time `json:"counted_at"`
}

func countsDataset(session *entity.InventorySession, counts []*entity.InventoryCount) *dataset {
	summary := inventory.Summarize(counts)
	t := Table{
		Title: "Conteo: " + session.Name,
		Subtitle: fmt.Sprintf("%s / %s | estado %s | %d conteos, %d discrepancias, diferencia total %d",
			session.CompanyName, session.WarehouseName, session.Status,
			summary.TotalCounts, summary.Discrepancies, summary.TotalDifference),
		Columns: []string{"barcode", "item_name", "category", "expected_quantity", "counted_quantity", "difference", "notes", "counted_at"},
	}
	records := make([]countRecord, 0, len(counts))
	for _, c := range counts {
		r := countRecord{
			Barcode:          c.ItemBarcode,
			ItemName:         c.ItemName,
			Category:         c.CategoryName,
			ExpectedQuantity: c.ExpectedQuantity,
			CountedQuantity:  c.CountedQuantity,
			Difference:       c.Difference,
			Notes:            c.Notes,
			CountedAt:        c.CountedAt,
		}
		records = append(records, r)
		t.Rows = append(t.Rows, []string{
			r.Barcode, r.ItemName, r.Category, itoa(r.ExpectedQuantity), itoa(r.CountedQuantity),
			itoa(r.Difference), r.Notes, r.CountedAt.Format(timeLayout),
		})
	}
	return &dataset{table: t, records: records}
}

func itoa(n int) string { return strconv.Itoa(n) }
