package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/usecase"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/testing/memrepo"
)

func TestCompanyYBodega(t *testing.T) {
	store := memrepo.New()
	companies := usecase.NewCompanyUseCase(store.Companies())
	warehouses := usecase.NewWarehouseUseCase(store.Warehouses(), store.Companies())
	ctx := context.Background()

	c, err := companies.Create(ctx, dto.CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)
	assert.True(t, c.Active)
	_, err = companies.Create(ctx, dto.CreateCompanyRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	w, err := warehouses.Create(ctx, dto.CreateWarehouseRequest{CompanyID: c.ID, Code: "CEN", Name: "Central"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, w.CompanyID)

	_, err = warehouses.Create(ctx, dto.CreateWarehouseRequest{CompanyID: c.ID, Code: "CEN", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = warehouses.Create(ctx, dto.CreateWarehouseRequest{CompanyID: "00000000-0000-0000-0000-000000000000", Code: "X", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := warehouses.List(ctx, c.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	assert.ErrorIs(t, companies.Delete(ctx, c.ID), domain.ErrConflict, "tiene bodegas")
	require.NoError(t, warehouses.Delete(ctx, w.ID))
	require.NoError(t, companies.Delete(ctx, c.ID))
	_, err = companies.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategory(t *testing.T) {
	store := memrepo.New()
	uc := usecase.NewCategoryUseCase(store.Categories())
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Bebidas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	resolved, err := uc.Resolve(ctx, " Bebidas ")
	require.NoError(t, err)
	assert.Equal(t, c.ID, resolved.ID)

	none, err := uc.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, none)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
