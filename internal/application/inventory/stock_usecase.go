package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/domain/inventory"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

// StockUseCase cambia cantidades del catálogo de forma transaccional con bloqueo de fila
// (SELECT FOR UPDATE) y registra el movimiento correspondiente en la misma transacción.
type StockUseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, movementRepo repository.StockMovementRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, movementRepo: movementRepo}
}

// UpdateQuantity fija la cantidad de un ítem. diff > 0 registra entrada, diff < 0 salida y diff = 0 nada.
func (uc *StockUseCase) UpdateQuantity(ctx context.Context, actor domain.Actor, itemID string, newQty int, reason string) (*dto.AdjustStockResponse, error) {
	if !inventory.ValidQuantity(newQty) {
		return nil, fmt.Errorf("%w: la cantidad debe estar entre 0 y %d", domain.ErrInvalidInput, inventory.MaxQuantity)
	}
	var out *dto.AdjustStockResponse
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository) error {
		item, err := lockItem(ctx, itemRepo, itemID)
		if err != nil {
			return err
		}
		prev := item.Quantity
		mov, err := SetQuantity(ctx, itemRepo, movRepo, actor, item, newQty, reason, time.Now())
		if err != nil {
			return err
		}
		out = adjustResponse(item, prev, mov)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Adjust aplica un movimiento manual explícito: entrada suma, saida y transferencia restan
// (ErrInsufficientStock si el resultado sería negativo) y ajuste fija la cantidad absoluta.
// El movimiento registrado conserva el tipo recibido.
func (uc *StockUseCase) Adjust(ctx context.Context, actor domain.Actor, itemID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if !entity.IsValidMovementType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	if !inventory.ValidQuantity(in.Quantity) {
		return nil, fmt.Errorf("%w: la cantidad debe estar entre 0 y %d", domain.ErrInvalidInput, inventory.MaxQuantity)
	}
	if in.Type != entity.MovementTypeAjuste && in.Quantity == 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	var out *dto.AdjustStockResponse
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository) error {
		item, err := lockItem(ctx, itemRepo, itemID)
		if err != nil {
			return err
		}
		prev := item.Quantity
		mov, err := applyManual(ctx, itemRepo, movRepo, actor, item, in.Type, in.Quantity, in.Reason, time.Now())
		if err != nil {
			return err
		}
		out = adjustResponse(item, prev, mov)
		out.Type = in.Type
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListMovements lista movimientos (más recientes primero) con filtros opcionales.
func (uc *StockUseCase) ListMovements(ctx context.Context, in dto.MovementFilterRequest) (*dto.MovementListResponse, error) {
	if in.Limit <= 0 {
		in.Limit = 50
	}
	list, err := uc.movementRepo.List(ctx, repository.MovementFilter{
		ItemID: in.ItemID,
		Type:   in.Type,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// SetQuantity persiste el ítem con la nueva cantidad (junto al resto de campos ya modificados)
// y registra el movimiento derivado de old→new. Devuelve nil si la cantidad no cambió.
// Debe ejecutarse dentro de TxRunner.Run con el ítem bloqueado.
func SetQuantity(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
	actor domain.Actor,
	item *entity.Item,
	newQty int,
	reason string,
	now time.Time,
) (*entity.StockMovement, error) {
	change, changed := inventory.MovementForChange(item.Quantity, newQty)
	item.Quantity = newQty
	item.UpdatedAt = now
	if err := itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}
	if reason == "" {
		reason = "Actualización de cantidad"
	}
	mov := newMovement(item.ID, change.Type, change.Quantity, reason, actor, now)
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordInitialStock registra la entrada de un ítem recién creado con stock > 0.
func RecordInitialStock(ctx context.Context, movRepo repository.StockMovementRepository, actor domain.Actor, item *entity.Item, reason string, now time.Time) (*entity.StockMovement, error) {
	if item.Quantity <= 0 {
		return nil, nil
	}
	if reason == "" {
		reason = "Stock inicial"
	}
	mov := newMovement(item.ID, entity.MovementTypeEntrada, item.Quantity, reason, actor, now)
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func applyManual(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
	actor domain.Actor,
	item *entity.Item,
	movType string,
	quantity int,
	reason string,
	now time.Time,
) (*entity.StockMovement, error) {
	newQty, magnitude, ok := inventory.ApplyManualMovement(item.Quantity, movType, quantity)
	if !ok {
		return nil, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, item.Quantity, quantity)
	}
	if newQty > inventory.MaxQuantity {
		return nil, fmt.Errorf("%w: la cantidad resultante supera el máximo de %d", domain.ErrInvalidInput, inventory.MaxQuantity)
	}
	item.Quantity = newQty
	item.UpdatedAt = now
	if err := itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	if magnitude == 0 {
		return nil, nil
	}
	if reason == "" {
		reason = "Movimiento manual"
	}
	mov := newMovement(item.ID, movType, magnitude, reason, actor, now)
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func lockItem(ctx context.Context, itemRepo repository.ItemRepository, itemID string) (*entity.Item, error) {
	item, err := itemRepo.GetByIDForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem", domain.ErrNotFound)
	}
	return item, nil
}

func newMovement(itemID, movType string, quantity int, reason string, actor domain.Actor, now time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		Type:      movType,
		Quantity:  quantity,
		Reason:    reason,
		UserID:    actor.UserRef(),
		CreatedAt: now,
	}
}

func adjustResponse(item *entity.Item, prev int, mov *entity.StockMovement) *dto.AdjustStockResponse {
	out := &dto.AdjustStockResponse{
		ItemID:           item.ID,
		PreviousQuantity: prev,
		NewQuantity:      item.Quantity,
	}
	if mov != nil {
		out.MovementID = mov.ID
		out.Type = mov.Type
		out.Quantity = mov.Quantity
	}
	return out
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		ItemBarcode: m.ItemBarcode,
		ItemName:    m.ItemName,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		UserID:      m.UserID,
		Username:    m.Username,
		CreatedAt:   m.CreatedAt,
	}
}
