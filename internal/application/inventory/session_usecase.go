package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jhoicas/Inventario-conteo/internal/application/dto"
	"github.com/jhoicas/Inventario-conteo/internal/domain"
	"github.com/jhoicas/Inventario-conteo/internal/domain/entity"
	"github.com/jhoicas/Inventario-conteo/internal/domain/inventory"
	"github.com/jhoicas/Inventario-conteo/internal/domain/repository"
)

const maxSessionNameLen = 255

// SessionUseCase ciclo de vida de las sesiones de inventario: apertura acotada a empresa+bodega,
// cambios de estado, lectura con agregados y aplicación de los conteos al catálogo.
type SessionUseCase struct {
	sessionRepo   repository.InventorySessionRepository
	countRepo     repository.InventoryCountRepository
	companyRepo   repository.CompanyRepository
	warehouseRepo repository.WarehouseRepository
	itemRepo      repository.ItemRepository
	txRunner      TxRunner
	policy        SessionPolicy
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(
	sessionRepo repository.InventorySessionRepository,
	countRepo repository.InventoryCountRepository,
	companyRepo repository.CompanyRepository,
	warehouseRepo repository.WarehouseRepository,
	itemRepo repository.ItemRepository,
	txRunner TxRunner,
	policy SessionPolicy,
) *SessionUseCase {
	return &SessionUseCase{
		sessionRepo:   sessionRepo,
		countRepo:     countRepo,
		companyRepo:   companyRepo,
		warehouseRepo: warehouseRepo,
		itemRepo:      itemRepo,
		txRunner:      txRunner,
		policy:        policy,
	}
}

// Create abre una sesión. La empresa y la bodega deben existir, estar activas y la bodega
// pertenecer a la empresa; si no, ErrNotFound y no se crea nada.
func (uc *SessionUseCase) Create(ctx context.Context, actor domain.Actor, in dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre de la sesión es obligatorio", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxSessionNameLen {
		return nil, fmt.Errorf("%w: el nombre supera %d caracteres", domain.ErrInvalidInput, maxSessionNameLen)
	}

	company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil || !company.Active {
		return nil, fmt.Errorf("%w: empresa inexistente o inactiva", domain.ErrNotFound)
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || !warehouse.Active || warehouse.CompanyID != company.ID {
		return nil, fmt.Errorf("%w: bodega inexistente, inactiva o de otra empresa", domain.ErrNotFound)
	}

	session := &entity.InventorySession{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   in.Description,
		CompanyID:     company.ID,
		WarehouseID:   warehouse.ID,
		UserID:        actor.UserRef(),
		Status:        entity.SessionStatusOpen,
		StartedAt:     time.Now(),
		CompanyName:   company.Name,
		WarehouseName: warehouse.Name,
		Username:      actor.Username,
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	out := toSessionResponse(session)
	return &out, nil
}

// SetStatus cambia el estado. fechada/cancelada fijan finished_at; aberta lo limpia.
// Con StrictTransitions solo se aceptan aberta→fechada y aberta→cancelada.
func (uc *SessionUseCase) SetStatus(ctx context.Context, sessionID, rawStatus string) (*dto.SessionResponse, error) {
	status, ok := entity.ParseSessionStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("%w: estado %q (use aberta, fechada o cancelada)", domain.ErrInvalidInput, rawStatus)
	}
	session, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if uc.policy.StrictTransitions && (session.Status != entity.SessionStatusOpen || status == entity.SessionStatusOpen) {
		return nil, fmt.Errorf("%w: transición %s → %s no permitida", domain.ErrConflict, session.Status, status)
	}
	session.ApplyStatus(status, time.Now())
	if err := uc.sessionRepo.UpdateStatus(ctx, session); err != nil {
		return nil, err
	}
	out := toSessionResponse(session)
	return &out, nil
}

// Get devuelve la sesión con todos sus conteos y los agregados calculados en lectura.
func (uc *SessionUseCase) Get(ctx context.Context, sessionID string) (*dto.SessionDetailResponse, error) {
	session, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	counts, err := uc.countRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	summary := inventory.Summarize(counts)
	session.TotalCounts = summary.TotalCounts

	rows := make([]dto.CountResponse, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, toCountResponse(c))
	}
	return &dto.SessionDetailResponse{
		Session: toSessionResponse(session),
		Counts:  rows,
		Summary: dto.SessionSummaryResponse{
			TotalCounts:     summary.TotalCounts,
			Discrepancies:   summary.Discrepancies,
			TotalDifference: summary.TotalDifference,
			DiscrepancyRate: summary.DiscrepancyRate,
		},
	}, nil
}

// List devuelve las sesiones por started_at descendente. status vacío lista todas.
func (uc *SessionUseCase) List(ctx context.Context, status, companyID string) ([]dto.SessionResponse, error) {
	if status != "" {
		parsed, ok := entity.ParseSessionStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
		}
		status = parsed
	}
	list, err := uc.sessionRepo.List(ctx, repository.SessionFilter{Status: status, CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSessionResponse(s))
	}
	return out, nil
}

// RecordCount registra el conteo de un ítem (búsqueda exacta por código de barras) dentro de la sesión.
// expected es la cantidad del catálogo en este momento; difference = counted - expected.
// Un segundo conteo del mismo ítem reemplaza al anterior. No modifica la cantidad del ítem.
func (uc *SessionUseCase) RecordCount(ctx context.Context, sessionID string, in dto.RecordCountRequest) (*dto.RecordCountResponse, error) {
	barcode := strings.TrimSpace(in.Barcode)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id es obligatorio", domain.ErrInvalidInput)
	}
	if barcode == "" {
		return nil, fmt.Errorf("%w: el código de barras es obligatorio", domain.ErrInvalidInput)
	}
	if in.CountedQuantity == nil || !inventory.ValidQuantity(*in.CountedQuantity) {
		return nil, fmt.Errorf("%w: counted_quantity debe ser un entero entre 0 y %d", domain.ErrInvalidInput, inventory.MaxQuantity)
	}

	session, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if uc.policy.StrictTransitions && session.Status != entity.SessionStatusOpen {
		return nil, fmt.Errorf("%w: la sesión está %s", domain.ErrConflict, session.Status)
	}

	item, err := uc.itemRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: no existe un ítem con código de barras %q", domain.ErrNotFound, barcode)
	}

	counted := *in.CountedQuantity
	count := &entity.InventoryCount{
		ID:               uuid.New().String(),
		SessionID:        session.ID,
		ItemID:           item.ID,
		CountedQuantity:  counted,
		ExpectedQuantity: item.Quantity,
		Difference:       inventory.Difference(counted, item.Quantity),
		Notes:            in.Notes,
		CountedAt:        time.Now(),
	}
	if err := uc.countRepo.Upsert(ctx, count); err != nil {
		return nil, err
	}
	return &dto.RecordCountResponse{
		ItemID:           item.ID,
		Barcode:          item.Barcode,
		ItemName:         item.Name,
		CountedQuantity:  count.CountedQuantity,
		ExpectedQuantity: count.ExpectedQuantity,
		Difference:       count.Difference,
		CountedAt:        count.CountedAt,
	}, nil
}

// Apply lleva al catálogo las cantidades contadas de una sesión fechada: cada ítem cuya cantidad
// actual difiere de la contada recibe un movimiento de ajuste. Todo ocurre en una transacción.
func (uc *SessionUseCase) Apply(ctx context.Context, actor domain.Actor, sessionID string) (*dto.ApplySessionResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	session, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != entity.SessionStatusClosed {
		return nil, fmt.Errorf("%w: solo se aplican sesiones fechadas (estado actual: %s)", domain.ErrConflict, session.Status)
	}
	counts, err := uc.countRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	out := &dto.ApplySessionResponse{SessionID: session.ID}
	reason := fmt.Sprintf("Conteo de inventario: %s", session.Name)
	now := time.Now()
	err = uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository) error {
		out.Adjusted, out.Unchanged = 0, 0
		for _, c := range counts {
			item, err := lockItem(ctx, itemRepo, c.ItemID)
			if err != nil {
				return err
			}
			if item.Quantity == c.CountedQuantity {
				out.Unchanged++
				continue
			}
			if _, err := applyManual(ctx, itemRepo, movRepo, actor, item, entity.MovementTypeAjuste, c.CountedQuantity, reason, now); err != nil {
				return err
			}
			out.Adjusted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *SessionUseCase) getSession(ctx context.Context, id string) (*entity.InventorySession, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: session_id es obligatorio", domain.ErrInvalidInput)
	}
	session, err := uc.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: sesión", domain.ErrNotFound)
	}
	return session, nil
}

func toSessionResponse(s *entity.InventorySession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		CompanyID:     s.CompanyID,
		CompanyName:   s.CompanyName,
		WarehouseID:   s.WarehouseID,
		WarehouseName: s.WarehouseName,
		UserID:        s.UserID,
		Username:      s.Username,
		Status:        s.Status,
		StartedAt:     s.StartedAt,
		FinishedAt:    s.FinishedAt,
		TotalCounts:   s.TotalCounts,
	}
}

func toCountResponse(c *entity.InventoryCount) dto.CountResponse {
	return dto.CountResponse{
		ItemID:           c.ItemID,
		Barcode:          c.ItemBarcode,
		ItemName:         c.ItemName,
		CategoryName:     c.CategoryName,
		CurrentQuantity:  c.CurrentQuantity,
		CountedQuantity:  c.CountedQuantity,
		ExpectedQuantity: c.ExpectedQuantity,
		Difference:       c.Difference,
		Notes:            c.Notes,
		CountedAt:        c.CountedAt,
	}
}
