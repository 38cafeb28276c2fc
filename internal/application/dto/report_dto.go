package dto

import "github.com/shopspring/decimal"

// ExportRequest parámetros de GET /reports/export.
type ExportRequest struct {
	Type      string `query:"type" validate:"required,oneof=items movements sessions counts low_stock"`
	Format    string `query:"format" validate:"omitempty,oneof=csv json pdf"`
	SessionID string `query:"session_id" validate:"omitempty,uuid"`
}

// SummaryResponse panel general del inventario.
type SummaryResponse struct {
	TotalItems      int             `json:"total_items"`
	TotalUnits      int             `json:"total_units"`
	StockValue      decimal.Decimal `json:"stock_value"`
	LowStockItems   int             `json:"low_stock_items"`
	OpenSessions    int             `json:"open_sessions"`
	MovementsLast30 int             `json:"movements_last_30_days"`
}
