package memrepo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

var (
	_ repository.CompanyRepository          = (*CompanyRepo)(nil)
	_ repository.WarehouseRepository        = (*WarehouseRepo)(nil)
	_ repository.CategoryRepository         = (*CategoryRepo)(nil)
	_ repository.ItemRepository             = (*ItemRepo)(nil)
	_ repository.StockMovementRepository    = (*MovementRepo)(nil)
	_ repository.InventorySessionRepository = (*SessionRepo)(nil)
	_ repository.InventoryCountRepository   = (*CountRepo)(nil)
	_ repository.UserRepository             = (*UserRepo)(nil)
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ── Company ──────────────────────────────────────────────────────────────────

type CompanyRepo struct{ s *Store }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.companies {
		if o.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CompanyRepo) GetByName(_ context.Context, name string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.companies {
		if o.ID != c.ID && o.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *CompanyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.warehouses {
		if w.CompanyID == id {
			return domain.ErrConflict
		}
	}
	for _, s := range r.s.sessions {
		if s.CompanyID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.companies, id)
	return nil
}

// ── Warehouse ────────────────────────────────────────────────────────────────

type WarehouseRepo struct{ s *Store }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[w.CompanyID]; !ok {
		return domain.ErrConflict
	}
	for _, o := range r.s.warehouses {
		if o.CompanyID == w.CompanyID && o.Code == w.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *w
	r.s.warehouses[w.ID] = &cp
	return nil
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.warehouses[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *WarehouseRepo) GetByCompanyAndCode(_ context.Context, companyID, code string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.warehouses {
		if w.CompanyID == companyID && w.Code == code {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.warehouses {
		if o.ID != w.ID && o.CompanyID == w.CompanyID && o.Code == w.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *w
	r.s.warehouses[w.ID] = &cp
	return nil
}

func (r *WarehouseRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Warehouse, 0)
	for _, w := range r.s.warehouses {
		if companyID == "" || w.CompanyID == companyID {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.sessions {
		if s.WarehouseID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.warehouses, id)
	return nil
}

// ── Category ─────────────────────────────────────────────────────────────────

type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.categories {
		if o.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.categories {
		if o.ID != c.ID && o.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.CategoryID != nil && *it.CategoryID == id {
			it.CategoryID = nil
		}
	}
	delete(r.s.categories, id)
	return nil
}

// ── Item ─────────────────────────────────────────────────────────────────────

type ItemRepo struct{ s *Store }

// item copia del ítem con el nombre de categoría resuelto. Requiere mu tomado.
func (r *ItemRepo) item(it *entity.Item) *entity.Item {
	cp := *it
	cp.CategoryName = ""
	if cp.CategoryID != nil {
		if c, ok := r.s.categories[*cp.CategoryID]; ok {
			cp.CategoryName = c.Name
		}
	}
	return &cp
}

func (r *ItemRepo) checkUnique(it *entity.Item) error {
	for _, o := range r.s.items {
		if o.ID != it.ID && o.Barcode == it.Barcode {
			return domain.ErrDuplicate
		}
	}
	if it.CategoryID != nil {
		if _, ok := r.s.categories[*it.CategoryID]; !ok {
			return domain.ErrConflict
		}
	}
	return nil
}

func (r *ItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(it); err != nil {
		return err
	}
	cp := *it
	r.s.items[it.ID] = &cp
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it, ok := r.s.items[id]; ok {
		return r.item(it), nil
	}
	return nil, nil
}

func (r *ItemRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.Barcode == barcode {
			return r.item(it), nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) Update(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[it.ID]; !ok {
		return nil
	}
	if err := r.checkUnique(it); err != nil {
		return err
	}
	cp := *it
	r.s.items[it.ID] = &cp
	return nil
}

func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	out := make([]*entity.Item, 0)
	for _, it := range r.s.items {
		if f.CategoryID != "" && (it.CategoryID == nil || *it.CategoryID != f.CategoryID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Barcode), search) && !strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		out = append(out, r.item(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *ItemRepo) ListLowStock(_ context.Context) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Item, 0)
	for _, it := range r.s.items {
		if it.IsLowStock() {
			out = append(out, r.item(it))
		}
	}
	return out, nil
}

func (r *ItemRepo) Stats(_ context.Context) (repository.CatalogStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := repository.CatalogStats{StockValue: decimal.Zero}
	for _, it := range r.s.items {
		st.Items++
		st.TotalUnits += it.Quantity
		st.StockValue = st.StockValue.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		if it.IsLowStock() {
			st.LowStockItems++
		}
	}
	return st, nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.counts {
		if c.ItemID == id {
			return domain.ErrConflict
		}
	}
	for _, m := range r.s.movements {
		if m.ItemID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.items, id)
	return nil
}

// ── StockMovement ────────────────────────────────────────────────────────────

type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailMovementCreate != nil {
		return r.s.FailMovementCreate
	}
	if _, ok := r.s.items[m.ItemID]; !ok {
		return domain.ErrConflict
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.StockMovement, 0)
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.Since != nil && m.CreatedAt.Before(*f.Since) {
			continue
		}
		cp := *m
		if it, ok := r.s.items[m.ItemID]; ok {
			cp.ItemBarcode, cp.ItemName = it.Barcode, it.Name
		}
		if m.UserID != nil {
			if u, ok := r.s.users[*m.UserID]; ok {
				cp.Username = u.Username
			}
		}
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *MovementRepo) CountSince(_ context.Context, since time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, m := range r.s.movements {
		if !m.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// ── InventorySession ─────────────────────────────────────────────────────────

type SessionRepo struct{ s *Store }

// session copia con nombres y total de conteos. Requiere mu tomado.
func (r *SessionRepo) session(s *entity.InventorySession) *entity.InventorySession {
	cp := *s
	if c, ok := r.s.companies[s.CompanyID]; ok {
		cp.CompanyName = c.Name
	}
	if w, ok := r.s.warehouses[s.WarehouseID]; ok {
		cp.WarehouseName = w.Name
	}
	cp.Username = ""
	if s.UserID != nil {
		if u, ok := r.s.users[*s.UserID]; ok {
			cp.Username = u.Username
		}
	}
	cp.TotalCounts = 0
	for _, c := range r.s.counts {
		if c.SessionID == s.ID {
			cp.TotalCounts++
		}
	}
	return &cp
}

func (r *SessionRepo) Create(_ context.Context, s *entity.InventorySession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[s.CompanyID]; !ok {
		return domain.ErrConflict
	}
	if _, ok := r.s.warehouses[s.WarehouseID]; !ok {
		return domain.ErrConflict
	}
	cp := *s
	r.s.sessions[s.ID] = &cp
	return nil
}

func (r *SessionRepo) GetByID(_ context.Context, id string) (*entity.InventorySession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if s, ok := r.s.sessions[id]; ok {
		return r.session(s), nil
	}
	return nil, nil
}

func (r *SessionRepo) UpdateStatus(_ context.Context, s *entity.InventorySession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.sessions[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = s.Status
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		stored.FinishedAt = &t
	} else {
		stored.FinishedAt = nil
	}
	return nil
}

func (r *SessionRepo) List(_ context.Context, f repository.SessionFilter) ([]*entity.InventorySession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.InventorySession, 0, len(r.s.sessions))
	for _, s := range r.s.sessions {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.CompanyID != "" && s.CompanyID != f.CompanyID {
			continue
		}
		out = append(out, r.session(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (r *SessionRepo) CountByStatus(_ context.Context, status string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, s := range r.s.sessions {
		if s.Status == status {
			n++
		}
	}
	return n, nil
}

// ── InventoryCount ───────────────────────────────────────────────────────────

type CountRepo struct{ s *Store }

// Upsert conserva el ID de la fila existente como ON CONFLICT DO UPDATE.
func (r *CountRepo) Upsert(_ context.Context, c *entity.InventoryCount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sessions[c.SessionID]; !ok {
		return domain.ErrConflict
	}
	if _, ok := r.s.items[c.ItemID]; !ok {
		return domain.ErrConflict
	}
	key := c.SessionID + "|" + c.ItemID
	cp := *c
	if existing, ok := r.s.counts[key]; ok {
		cp.ID = existing.ID
		c.ID = existing.ID
	}
	r.s.counts[key] = &cp
	return nil
}

func (r *CountRepo) ListBySession(_ context.Context, sessionID string) ([]*entity.InventoryCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.InventoryCount, 0)
	for _, c := range r.s.counts {
		if c.SessionID != sessionID {
			continue
		}
		cp := *c
		if it, ok := r.s.items[c.ItemID]; ok {
			cp.ItemBarcode, cp.ItemName, cp.CurrentQuantity = it.Barcode, it.Name, it.Quantity
			if it.CategoryID != nil {
				if cat, ok := r.s.categories[*it.CategoryID]; ok {
					cp.CategoryName = cat.Name
				}
			}
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountedAt.After(out[j].CountedAt) })
	return out, nil
}

// ── User ─────────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

func (r *UserRepo) checkUnique(u *entity.User) error {
	for _, o := range r.s.users {
		if o.ID != u.ID && (o.Username == u.Username || o.Email == u.Email) {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(u); err != nil {
		return err
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) find(match func(*entity.User) bool) *entity.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(u); err != nil {
		return err
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		t := at
		u.LastLoginAt = &t
	}
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return page(out, limit, offset), nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}
