package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemSelect = `
	SELECT i.id, i.barcode, i.name, i.description, i.category_id, COALESCE(c.name, ''),
	       i.quantity, i.min_quantity, i.unit_price, i.location, i.supplier, i.created_at, i.updated_at
	FROM items i
	LEFT JOIN categories c ON c.id = i.category_id`

// Create persiste un nuevo ítem. Código de barras repetido → ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (id, barcode, name, description, category_id, quantity, min_quantity, unit_price, location, supplier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Barcode, it.Name, it.Description, nullIfEmpty(it.CategoryID),
		it.Quantity, it.MinQuantity, it.UnitPrice, it.Location, it.Supplier, it.CreatedAt, it.UpdatedAt,
	)
	return itemWriteError("insert item", it, err)
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, itemSelect+` WHERE i.id = $1`, id)
}

// GetByIDForUpdate obtiene el ítem y bloquea su fila hasta el fin de la transacción.
func (r *ItemRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, itemSelect+` WHERE i.id = $1 FOR UPDATE OF i`, id)
}

// GetByBarcode búsqueda exacta por código de barras.
func (r *ItemRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	return r.getOne(ctx, itemSelect+` WHERE i.barcode = $1`, barcode)
}

func (r *ItemRepo) getOne(ctx context.Context, query string, arg any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Update persiste todos los campos editables, incluida la cantidad.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET barcode = $2, name = $3, description = $4, category_id = $5, quantity = $6,
		       min_quantity = $7, unit_price = $8, location = $9, supplier = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Barcode, it.Name, it.Description, nullIfEmpty(it.CategoryID), it.Quantity,
		it.MinQuantity, it.UnitPrice, it.Location, it.Supplier, it.UpdatedAt,
	)
	return itemWriteError("update item", it, err)
}

// List lista el catálogo por nombre. Search filtra con ILIKE sobre código de barras y nombre.
// Devuelve además el total sin paginar.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	where := `
	WHERE ($1 = '' OR i.barcode ILIKE '%' || $1 || '%' OR i.name ILIKE '%' || $1 || '%')
	  AND ($2::uuid IS NULL OR i.category_id = $2)`
	category := nullIfEmpty(&f.CategoryID)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM items i`+where, f.Search, category).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}
	rows, err := r.q.Query(ctx, itemSelect+where+` ORDER BY i.name, i.barcode LIMIT $3 OFFSET $4`,
		f.Search, category, limitOrAll(f.Limit), f.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	list, err := collectItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock ítems con quantity <= min_quantity, mayor faltante primero.
func (r *ItemRepo) ListLowStock(ctx context.Context) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, itemSelect+`
		WHERE i.quantity <= i.min_quantity
		ORDER BY (i.min_quantity - i.quantity) DESC, i.name`)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectItems(rows)
}

// Stats totales del catálogo.
func (r *ItemRepo) Stats(ctx context.Context) (repository.CatalogStats, error) {
	var st repository.CatalogStats
	err := r.q.QueryRow(ctx, `
		SELECT count(*),
		       COALESCE(sum(quantity), 0),
		       COALESCE(sum(quantity * unit_price), 0),
		       count(*) FILTER (WHERE quantity <= min_quantity)
		FROM items`).Scan(&st.Items, &st.TotalUnits, &st.StockValue, &st.LowStockItems)
	if err != nil {
		return st, fmt.Errorf("item stats: %w", err)
	}
	return st, nil
}

// Delete elimina un ítem y sus movimientos. Si tiene conteos la FK lo impide (ErrConflict).
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el ítem tiene movimientos o conteos registrados", domain.ErrConflict)
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func itemWriteError(op string, it *entity.Item, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: el código de barras %q ya existe", domain.ErrDuplicate, it.Barcode)
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: categoría inexistente", domain.ErrConflict)
	}
	if isOutOfRange(err) {
		return fmt.Errorf("%w: cantidad o precio fuera de rango", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func collectItems(rows pgx.Rows) ([]*entity.Item, error) {
	defer rows.Close()
	list := make([]*entity.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanItem(row pgxScanner) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.Barcode, &it.Name, &it.Description, &it.CategoryID, &it.CategoryName,
		&it.Quantity, &it.MinQuantity, &it.UnitPrice, &it.Location, &it.Supplier, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
