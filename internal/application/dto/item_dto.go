package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem. Una cantidad inicial > 0 genera un movimiento de entrada.
type CreateItemRequest struct {
	Barcode     string          `json:"barcode" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	CategoryID  *string         `json:"category_id" validate:"omitempty,uuid"`
	Quantity    int             `json:"quantity" validate:"min=0,max=2147483647"`
	MinQuantity int             `json:"min_quantity" validate:"min=0,max=2147483647"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Location    string          `json:"location" validate:"omitempty,max=100"`
	Supplier    string          `json:"supplier" validate:"omitempty,max=200"`
}

// UpdateItemRequest entrada para actualizar un ítem (campos opcionales).
// Si Quantity cambia se registra un movimiento derivado con Reason.
type UpdateItemRequest struct {
	Barcode     *string          `json:"barcode" validate:"omitempty,min=1,max=100"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=0,max=2147483647"`
	MinQuantity *int             `json:"min_quantity" validate:"omitempty,min=0,max=2147483647"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Location    *string          `json:"location" validate:"omitempty,max=100"`
	Supplier    *string          `json:"supplier" validate:"omitempty,max=200"`
	Reason      string           `json:"reason" validate:"omitempty,max=255"`
}

// AdjustStockRequest movimiento manual explícito.
type AdjustStockRequest struct {
	Type     string `json:"type" validate:"required,oneof=entrada saida ajuste transferencia"`
	Quantity int    `json:"quantity" validate:"min=0,max=2147483647"`
	Reason   string `json:"reason" validate:"omitempty,max=255"`
}

// AdjustStockResponse resultado de un movimiento manual.
type AdjustStockResponse struct {
	ItemID           string `json:"item_id"`
	MovementID       string `json:"movement_id,omitempty"`
	Type             string `json:"type"`
	Quantity         int    `json:"quantity"`
	PreviousQuantity int    `json:"previous_quantity"`
	NewQuantity      int    `json:"new_quantity"`
}

// ItemFilterRequest filtros de GET /items.
type ItemFilterRequest struct {
	Barcode    string `query:"barcode"`
	Search     string `query:"search"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	Limit      int    `query:"limit" validate:"min=0,max=500"`
	Offset     int    `query:"offset" validate:"min=0"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID           string          `json:"id"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   *string         `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Quantity     int             `json:"quantity"`
	MinQuantity  int             `json:"min_quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Location     string          `json:"location"`
	Supplier     string          `json:"supplier"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LowStockItemResponse ítem en o bajo el mínimo, con su faltante.
type LowStockItemResponse struct {
	ItemResponse
	Shortage int `json:"shortage"`
}

// ImportError fila rechazada de una importación CSV.
type ImportError struct {
	Line    int    `json:"line"`
	Barcode string `json:"barcode,omitempty"`
	Message string `json:"message"`
}

// ImportResult resumen de una importación CSV de ítems.
type ImportResult struct {
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Errors  []ImportError `json:"errors"`
}

// ImportItemRow fila decodificada de un archivo de importación.
type ImportItemRow struct {
	Line        int
	Barcode     string
	Name        string
	Description string
	Category    string
	Quantity    int
	MinQuantity int
	UnitPrice   decimal.Decimal
	Location    string
	Supplier    string
}
