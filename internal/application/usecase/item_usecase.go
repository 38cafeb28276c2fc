package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/application/inventory"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-conteo/internal/domain/inventory"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

// ItemUseCase casos de uso del catálogo. Todo cambio de cantidad pasa por una transacción
// que persiste el ítem y su movimiento de stock juntos.
type ItemUseCase struct {
	repo       repository.ItemRepository
	categories *CategoryUseCase
	txRunner   inventory.TxRunner
	decoder    ItemRowDecoder
}

// NewItemUseCase construye el caso de uso. decoder puede ser nil si no se expone la importación.
func NewItemUseCase(repo repository.ItemRepository, categories *CategoryUseCase, txRunner inventory.TxRunner, decoder ItemRowDecoder) *ItemUseCase {
	return &ItemUseCase{repo: repo, categories: categories, txRunner: txRunner, decoder: decoder}
}

// Create crea un ítem. Si la cantidad inicial es > 0 registra un movimiento de entrada.
func (uc *ItemUseCase) Create(ctx context.Context, actor domain.Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	barcode := strings.TrimSpace(in.Barcode)
	name := strings.TrimSpace(in.Name)
	if barcode == "" || name == "" {
		return nil, fmt.Errorf("%w: código de barras y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity < 0 || in.MinQuantity < 0 || in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades y precio no pueden ser negativos", domain.ErrInvalidInput)
	}
	if err := checkQuantities(in.Quantity, in.MinQuantity); err != nil {
		return nil, err
	}
	if err := uc.checkBarcode(ctx, barcode, ""); err != nil {
		return nil, err
	}
	category, err := uc.category(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Barcode:     barcode,
		Name:        name,
		Description: in.Description,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		UnitPrice:   in.UnitPrice,
		Location:    in.Location,
		Supplier:    in.Supplier,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	setCategory(item, category)
	if err := uc.create(ctx, actor, item, "", now); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem", domain.ErrNotFound)
	}
	return toItemResponse(item), nil
}

// GetByBarcode búsqueda exacta por código de barras.
func (uc *ItemUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: no existe un ítem con código de barras %q", domain.ErrNotFound, barcode)
	}
	return toItemResponse(item), nil
}

// List lista el catálogo. search hace coincidencia parcial en código de barras o nombre.
func (uc *ItemUseCase) List(ctx context.Context, in dto.ItemFilterRequest) (*dto.ItemListResponse, error) {
	if in.Limit <= 0 {
		in.Limit = 50
	}
	list, total, err := uc.repo.List(ctx, repository.ItemFilter{
		Search:     strings.TrimSpace(in.Search),
		CategoryID: in.CategoryID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// LowStock ítems con cantidad <= mínimo, el mayor faltante primero.
func (uc *ItemUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	domaininv.SortShortages(list)
	out := make([]dto.LowStockItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, dto.LowStockItemResponse{ItemResponse: *toItemResponse(it), Shortage: it.Shortage()})
	}
	return out, nil
}

// Update actualiza los campos enviados. Si cambia la cantidad, la nueva se persiste junto con
// el resto de campos y se registra el movimiento derivado (entrada/saida) en la misma transacción.
func (uc *ItemUseCase) Update(ctx context.Context, actor domain.Actor, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if in.MinQuantity != nil && *in.MinQuantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad mínima no puede ser negativa", domain.ErrInvalidInput)
	}
	if in.Quantity != nil {
		if err := checkQuantities(*in.Quantity); err != nil {
			return nil, err
		}
	}
	if in.MinQuantity != nil {
		if err := checkQuantities(*in.MinQuantity); err != nil {
			return nil, err
		}
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	var category *entity.Category
	if in.CategoryID != nil && *in.CategoryID != "" {
		c, err := uc.category(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		category = c
	}

	var out *entity.Item
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository) error {
		item, err := itemRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: ítem", domain.ErrNotFound)
		}
		if in.Barcode != nil {
			barcode := strings.TrimSpace(*in.Barcode)
			if barcode == "" {
				return fmt.Errorf("%w: el código de barras es obligatorio", domain.ErrInvalidInput)
			}
			if barcode != item.Barcode {
				if err := uc.checkBarcode(ctx, barcode, item.ID); err != nil {
					return err
				}
			}
			item.Barcode = barcode
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
			}
			item.Name = name
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.CategoryID != nil {
			setCategory(item, category)
		}
		if in.MinQuantity != nil {
			item.MinQuantity = *in.MinQuantity
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}
		if in.Location != nil {
			item.Location = *in.Location
		}
		if in.Supplier != nil {
			item.Supplier = *in.Supplier
		}
		newQty := item.Quantity
		if in.Quantity != nil {
			newQty = *in.Quantity
		}
		if _, err := inventory.SetQuantity(ctx, itemRepo, movRepo, actor, item, newQty, in.Reason, time.Now()); err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(out), nil
}

// Delete elimina un ítem sin historial. Con movimientos o conteos la BD lo impide (ErrConflict).
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: ítem", domain.ErrNotFound)
	}
	return uc.repo.Delete(ctx, id)
}

// Import crea o actualiza ítems por código de barras desde un archivo. Cada fila se aplica en su
// propia transacción; las fallidas se informan en Errors sin detener la importación.
func (uc *ItemUseCase) Import(ctx context.Context, actor domain.Actor, r io.Reader) (*dto.ImportResult, error) {
	if uc.decoder == nil {
		return nil, fmt.Errorf("%w: importación no disponible", domain.ErrInvalidInput)
	}
	rows, rowErrs, err := uc.decoder.Decode(r)
	if err != nil {
		return nil, err
	}
	result := &dto.ImportResult{Errors: rowErrs}
	if result.Errors == nil {
		result.Errors = []dto.ImportError{}
	}
	for _, row := range rows {
		created, err := uc.importRow(ctx, actor, row)
		if err != nil {
			if !isClientError(err) {
				return nil, err
			}
			result.Errors = append(result.Errors, dto.ImportError{Line: row.Line, Barcode: row.Barcode, Message: err.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

func (uc *ItemUseCase) importRow(ctx context.Context, actor domain.Actor, row dto.ImportItemRow) (bool, error) {
	if row.Barcode == "" || row.Name == "" {
		return false, fmt.Errorf("%w: código de barras y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if row.Quantity < 0 || row.MinQuantity < 0 || row.UnitPrice.IsNegative() {
		return false, fmt.Errorf("%w: cantidades y precio no pueden ser negativos", domain.ErrInvalidInput)
	}
	if err := checkQuantities(row.Quantity, row.MinQuantity); err != nil {
		return false, err
	}
	category, err := uc.categories.Resolve(ctx, row.Category)
	if err != nil {
		return false, err
	}
	reason := fmt.Sprintf("Importación CSV (línea %d)", row.Line)
	now := time.Now()

	existing, err := uc.repo.GetByBarcode(ctx, row.Barcode)
	if err != nil {
		return false, err
	}
	if existing == nil {
		item := &entity.Item{
			ID:          uuid.New().String(),
			Barcode:     row.Barcode,
			Name:        row.Name,
			Description: row.Description,
			Quantity:    row.Quantity,
			MinQuantity: row.MinQuantity,
			UnitPrice:   row.UnitPrice,
			Location:    row.Location,
			Supplier:    row.Supplier,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		setCategory(item, category)
		return true, uc.create(ctx, actor, item, reason, now)
	}

	return false, uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository) error {
		item, err := itemRepo.GetByIDForUpdate(ctx, existing.ID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: ítem", domain.ErrNotFound)
		}
		item.Name = row.Name
		item.Description = row.Description
		item.MinQuantity = row.MinQuantity
		item.UnitPrice = row.UnitPrice
		item.Location = row.Location
		item.Supplier = row.Supplier
		if category != nil {
			setCategory(item, category)
		}
		_, err = inventory.SetQuantity(ctx, itemRepo, movRepo, actor, item, row.Quantity, reason, now)
		return err
	})
}

func (uc *ItemUseCase) create(ctx context.Context, actor domain.Actor, item *entity.Item, reason string, now time.Time) error {
	return uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		_, err := inventory.RecordInitialStock(ctx, movRepo, actor, item, reason, now)
		return err
	})
}

func (uc *ItemUseCase) checkBarcode(ctx context.Context, barcode, selfID string) error {
	existing, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: el código de barras %q ya existe", domain.ErrDuplicate, barcode)
	}
	return nil
}

func (uc *ItemUseCase) category(ctx context.Context, id *string) (*entity.Category, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	c, err := uc.categories.repo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría", domain.ErrNotFound)
	}
	return c, nil
}

// checkQuantities rechaza cantidades que no caben en las columnas del catálogo.
func checkQuantities(qs ...int) error {
	for _, q := range qs {
		if !domaininv.ValidQuantity(q) {
			return fmt.Errorf("%w: la cantidad %d supera el máximo de %d", domain.ErrInvalidInput, q, domaininv.MaxQuantity)
		}
	}
	return nil
}

func setCategory(item *entity.Item, c *entity.Category) {
	if c == nil {
		item.CategoryID = nil
		item.CategoryName = ""
		return
	}
	id := c.ID
	item.CategoryID = &id
	item.CategoryName = c.Name
}

// isClientError informa si err es un error de negocio que se reporta por fila y no aborta.
func isClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrDuplicate) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict)
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:           i.ID,
		Barcode:      i.Barcode,
		Name:         i.Name,
		Description:  i.Description,
		CategoryID:   i.CategoryID,
		CategoryName: i.CategoryName,
		Quantity:     i.Quantity,
		MinQuantity:  i.MinQuantity,
		UnitPrice:    i.UnitPrice,
		Location:     i.Location,
		Supplier:     i.Supplier,
		LowStock:     i.IsLowStock(),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
