package entity

import (
	"strings"
	"time"
)

// Estados de una sesión de inventario.
const (
	SessionStatusOpen      = "aberta"
	SessionStatusClosed    = "fechada"
	SessionStatusCancelled = "cancelada"
)

// ParseSessionStatus normaliza un estado recibido del cliente.
// Acepta los valores canónicos y sus equivalentes en inglés.
func ParseSessionStatus(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SessionStatusOpen, "open":
		return SessionStatusOpen, true
	case SessionStatusClosed, "closed":
		return SessionStatusClosed, true
	case SessionStatusCancelled, "cancelled", "canceled":
		return SessionStatusCancelled, true
	}
	return "", false
}

// IsTerminalSessionStatus informa si el estado cierra la sesión (finished_at no nulo).
func IsTerminalSessionStatus(s string) bool {
	return s == SessionStatusClosed || s == SessionStatusCancelled
}

// InventorySession ejercicio de conteo acotado a una empresa y bodega.
// FinishedAt es no nulo si y solo si Status es fechada o cancelada.
type InventorySession struct {
	ID          string
	Name        string
	Description string
	CompanyID   string
	WarehouseID string
	UserID      *string
	Status      string
	StartedAt   time.Time
	FinishedAt  *time.Time

	// Solo lectura (joins)
	CompanyName   string
	WarehouseName string
	Username      string
	TotalCounts   int
}

// ApplyStatus cambia el estado y mantiene el invariante de FinishedAt.
func (s *InventorySession) ApplyStatus(status string, now time.Time) {
	s.Status = status
	if IsTerminalSessionStatus(status) {
		s.FinishedAt = &now
		return
	}
	s.FinishedAt = nil
}
