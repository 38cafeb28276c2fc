package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/usecase"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
	"github.com/jhoicas/Inventario-conteo/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TTL duración de la sesión y del token.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpMinutes) * time.Minute
}

// AuthUseCase login/logout con sesión del lado del servidor y token firmado que la referencia.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions SessionStore
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, sessions SessionStore, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, sessions: sessions, jwtCfg: jwtCfg}
}

// Login verifica usuario (o email) y contraseña, abre la sesión y devuelve el token.
// Usuario inexistente y contraseña incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	login := strings.TrimSpace(in.Username)
	if login == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	user, err := uc.findUser(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}

	now := time.Now()
	session := Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, session.ID, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, session, uc.jwtCfg.TTL()); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}
	if err := uc.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(uc.jwtCfg.TTL()),
		User:      *usecase.EntityToUserResponse(user),
	}, nil
}

// Authenticate valida el token, comprueba que su sesión siga viva en el almacén y que el usuario
// exista y esté activo. Rol y nombre se toman del usuario actual, no del momento del login.
// Si el usuario fue eliminado o desactivado la sesión se revoca.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (domain.Actor, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: token inválido o expirado", domain.ErrUnauthorized)
	}
	session, err := uc.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		return domain.Actor{}, err
	}
	if session == nil || session.UserID != claims.UserID {
		return domain.Actor{}, fmt.Errorf("%w: sesión expirada o cerrada", domain.ErrUnauthorized)
	}
	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return domain.Actor{}, err
	}
	if user == nil || !user.Active {
		if err := uc.sessions.Delete(ctx, session.ID); err != nil {
			return domain.Actor{}, fmt.Errorf("revocar sesión: %w", err)
		}
		return domain.Actor{}, fmt.Errorf("%w: usuario inexistente o inactivo", domain.ErrUnauthorized)
	}
	return domain.Actor{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		SessionID: session.ID,
	}, nil
}

// Logout revoca la sesión del actor. Es idempotente.
func (uc *AuthUseCase) Logout(ctx context.Context, actor domain.Actor) error {
	if actor.SessionID == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, actor.SessionID)
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, actor domain.Actor) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario", domain.ErrNotFound)
	}
	return usecase.EntityToUserResponse(user), nil
}

func (uc *AuthUseCase) findUser(ctx context.Context, login string) (*entity.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, login)
	if err != nil || user != nil {
		return user, err
	}
	if strings.Contains(login, "@") {
		return uc.userRepo.GetByEmail(ctx, strings.ToLower(login))
	}
	return nil, nil
}
