// Package memrepo implementa los puertos de repositorio en memoria para tests de casos de uso y HTTP.
// Reproduce las restricciones del esquema (unicidad, claves foráneas, joins de lectura).
package memrepo

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu         sync.Mutex
	companies  map[string]*entity.Company
	warehouses map[string]*entity.Warehouse
	categories map[string]*entity.Category
	items      map[string]*entity.Item
	movements  []*entity.StockMovement
	sessions   map[string]*entity.InventorySession
	counts     map[string]*entity.InventoryCount // clave sessionID|itemID
	users      map[string]*entity.User

	// FailMovementCreate fuerza un error al crear movimientos (tests de rollback).
	FailMovementCreate error
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		companies:  make(map[string]*entity.Company),
		warehouses: make(map[string]*entity.Warehouse),
		categories: make(map[string]*entity.Category),
		items:      make(map[string]*entity.Item),
		sessions:   make(map[string]*entity.InventorySession),
		counts:     make(map[string]*entity.InventoryCount),
		users:      make(map[string]*entity.User),
	}
}

// Repositorios atados al Store.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s} }
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{s: s} }
func (s *Store) Counts() *CountRepo { return &CountRepo{s: s} }
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// MovementsSnapshot copia de los movimientos en orden de inserción.
func (s *Store) MovementsSnapshot() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		out = append(out, *m)
	}
	return out
}

// CountRows cantidad de filas de conteo almacenadas (todas las sesiones).
func (s *Store) CountRows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counts)
}

// Run ejecuta fn con los repositorios del Store (cumple inventory.TxRunner). Si fn falla se restauran ítems y movimientos.
func (s *Store) Run(ctx context.Context, fn func(itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository) error) error {
	s.mu.Lock()
	items := make(map[string]*entity.Item, len(s.items))
	for k, v := range s.items {
		c := *v
		items[k] = &c
	}
	movements := append([]*entity.StockMovement(nil), s.movements...)
	s.mu.Unlock()

	if err := fn(s.Items(), s.Movements()); err != nil {
		s.mu.Lock()
		s.items = items
		s.movements = movements
		s.mu.Unlock()
		return err
	}
	return nil
}
