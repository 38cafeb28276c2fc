package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// IsValidRole informa si r es un rol soportado.
func IsValidRole(r string) bool {
	return r == RoleAdmin || r == RoleOperador
}

// User representa un usuario del sistema. Username y Email son únicos.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         string
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
