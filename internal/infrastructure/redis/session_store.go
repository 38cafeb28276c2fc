// Package redis implementa el almacén de sesiones de login sobre Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-conteo/internal/application/auth"
)

const sessionKeyPrefix = "inventario:session:"

var _ auth.SessionStore = (*SessionStore)(nil)

// SessionStore guarda cada sesión como JSON con expiración igual a la del token.
type SessionStore struct {
	client *goredis.Client
}

// NewSessionStore construye el almacén sobre un cliente ya conectado.
func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save guarda (o reemplaza) la sesión con TTL.
func (s *SessionStore) Save(ctx context.Context, session auth.Session, ttl time.Duration) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("serializar sesión: %w", err)
	}
	if err := s.client.Set(ctx, key(session.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get devuelve la sesión o (nil, nil) si no existe o expiró.
func (s *SessionStore) Get(ctx context.Context, id string) (*auth.Session, error) {
	raw, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var session auth.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("sesión corrupta: %w", err)
	}
	return &session, nil
}

// Delete revoca la sesión. Borrar una inexistente no es error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func key(id string) string {
	return sessionKeyPrefix + id
}
