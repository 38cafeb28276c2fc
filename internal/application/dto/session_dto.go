package dto

import "time"

// CreateSessionRequest entrada para abrir una sesión de inventario.
type CreateSessionRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description"`
	CompanyID   string `json:"company_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
}

// UpdateSessionStatusRequest cambio de estado (aberta, fechada, cancelada).
type UpdateSessionStatusRequest struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status" validate:"required"`
}

// RecordCountRequest conteo escaneado dentro de una sesión.
type RecordCountRequest struct {
	SessionID       string `json:"session_id"`
	Barcode         string `json:"barcode" validate:"required,min=1,max=100"`
	CountedQuantity *int   `json:"counted_quantity" validate:"required,min=0,max=2147483647"`
	Notes           string `json:"notes"`
}

// RecordCountResponse resultado de registrar un conteo.
type RecordCountResponse struct {
	ItemID           string    `json:"item_id"`
	Barcode          string    `json:"barcode"`
	ItemName         string    `json:"item_name"`
	CountedQuantity  int       `json:"counted_quantity"`
	ExpectedQuantity int       `json:"expected_quantity"`
	Difference       int       `json:"difference"`
	CountedAt        time.Time `json:"counted_at"`
}

// SessionResponse salida de una sesión con nombres de empresa, bodega y usuario.
type SessionResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	CompanyID     string     `json:"company_id"`
	CompanyName   string     `json:"company_name"`
	WarehouseID   string     `json:"warehouse_id"`
	WarehouseName string     `json:"warehouse_name"`
	UserID        *string    `json:"user_id"`
	Username      string     `json:"username"`
	Status        string     `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	TotalCounts   int        `json:"total_counts"`
}

// CountResponse fila de conteo enriquecida con datos del ítem.
type CountResponse struct {
	ItemID           string    `json:"item_id"`
	Barcode          string    `json:"barcode"`
	ItemName         string    `json:"item_name"`
	CategoryName     string    `json:"category_name"`
	CurrentQuantity  int       `json:"current_quantity"`
	CountedQuantity  int       `json:"counted_quantity"`
	ExpectedQuantity int       `json:"expected_quantity"`
	Difference       int       `json:"difference"`
	Notes            string    `json:"notes"`
	CountedAt        time.Time `json:"counted_at"`
}

// SessionSummaryResponse agregados calculados en lectura.
type SessionSummaryResponse struct {
	TotalCounts     int     `json:"total_counts"`
	Discrepancies   int     `json:"discrepancies"`
	TotalDifference int     `json:"total_difference"`
	DiscrepancyRate float64 `json:"discrepancy_rate"`
}

// SessionDetailResponse sesión con sus conteos y agregados.
type SessionDetailResponse struct {
	Session SessionResponse        `json:"session"`
	Counts  []CountResponse        `json:"counts"`
	Summary SessionSummaryResponse `json:"summary"`
}

// ApplySessionResponse resultado de aplicar los conteos de una sesión al catálogo.
type ApplySessionResponse struct {
	SessionID string `json:"session_id"`
	Adjusted  int    `json:"adjusted"`
	Unchanged int    `json:"unchanged"`
}
