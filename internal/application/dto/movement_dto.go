package dto

import "time"

// MovementFilterRequest filtros de GET /movements.
type MovementFilterRequest struct {
	ItemID string `query:"item_id" validate:"omitempty,uuid"`
	Type   string `query:"type" validate:"omitempty,oneof=entrada saida ajuste transferencia"`
	Limit  int    `query:"limit" validate:"min=0,max=500"`
	Offset int    `query:"offset" validate:"min=0"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	ItemBarcode string    `json:"item_barcode,omitempty"`
	ItemName    string    `json:"item_name,omitempty"`
	Type        string    `json:"movement_type"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	UserID      *string   `json:"user_id"`
	Username    string    `json:"username,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos (más recientes primero).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
