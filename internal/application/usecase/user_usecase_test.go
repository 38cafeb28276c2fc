package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/usecase"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/testing/memrepo"
)

func TestUserCreate(t *testing.T) {
	store := memrepo.New()
	uc := usecase.NewUserUseCase(store.Users())
	ctx := context.Background()

	u, err := uc.Create(ctx, dto.CreateUserRequest{
		Username: "maria", Email: " Maria@Example.com ", Password: "secreto123", Role: entity.RoleOperador,
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", u.Email)
	assert.True(t, u.Active)

	stored, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto123")))

	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "maria", Email: "otra@example.com", Password: "secreto123", Role: entity.RoleOperador})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "otra", Email: "maria@example.com", Password: "secreto123", Role: entity.RoleOperador})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "x", Email: "x@example.com", Password: "corta", Role: entity.RoleOperador})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "y", Email: "y@example.com", Password: "secreto123", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUpdate_ProteccionesSobreSiMismo(t *testing.T) {
	store := memrepo.New()
	uc := usecase.NewUserUseCase(store.Users())
	ctx := context.Background()

	me, err := uc.Create(ctx, dto.CreateUserRequest{Username: "root", Email: "root@example.com", Password: "secreto123", Role: entity.RoleAdmin})
	require.NoError(t, err)
	other, err := uc.Create(ctx, dto.CreateUserRequest{Username: "op", Email: "op@example.com", Password: "secreto123", Role: entity.RoleOperador})
	require.NoError(t, err)
	actor := domain.Actor{UserID: me.ID, Username: me.Username, Role: entity.RoleAdmin}

	inactive := false
	_, err = uc.Update(ctx, actor, me.ID, dto.UpdateUserRequest{Active: &inactive})
	assert.ErrorIs(t, err, domain.ErrConflict)

	role := entity.RoleOperador
	_, err = uc.Update(ctx, actor, me.ID, dto.UpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.ErrorIs(t, uc.Delete(ctx, actor, me.ID), domain.ErrConflict)

	updated, err := uc.Update(ctx, actor, other.ID, dto.UpdateUserRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	taken := "root@example.com"
	_, err = uc.Update(ctx, actor, other.ID, dto.UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, uc.Delete(ctx, actor, other.ID))
	_, err = uc.GetByID(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
