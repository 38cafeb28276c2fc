package auth

import (
	"context"
	"time"
)

// Session sesión del lado del servidor referenciada por el jti del token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore almacén de sesiones con expiración (Redis en producción).
// Get devuelve (nil, nil) si la sesión no existe o expiró.
type SessionStore interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
