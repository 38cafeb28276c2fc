package repository

import (
	"context"

	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	// ListByCompany lista bodegas; companyID vacío lista todas.
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error)
	Delete(ctx context.Context, id string) error
}
