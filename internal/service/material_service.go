package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

type CreateMaterialRequest struct {
	ProjectID      uuid.UUID `json:"project_id" binding:"required"`
	Name           string    `json:"name" binding:"required"`
	Unit           string    `json:"unit" binding:"required"`
	RequestMessage string    `json:"request_message"`
}

type CreateMaterialEntryRequest struct {
	Type           string          `json:"type" binding:"required,oneof=IN OUT"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Rate           decimal.Decimal `json:"rate"`
	Date           time.Time       `json:"date" binding:"required"`
	Note           string          `json:"note"`
	RequestMessage string          `json:"request_message"`
}

// MaterialService manages stock items and their movement ledger. Stock levels
// only change when an entry becomes canonical: immediately for un-gated
// actors, on admin approval otherwise.
type MaterialService interface {
	Create(ctx context.Context, actor approval.Actor, req CreateMaterialRequest) (*model.Material, error)
	List(ctx context.Context, actor approval.Actor, projectID uuid.UUID, page, limit int) ([]model.Material, int64, error)
	Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Material, error)
	Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Material, error)
	Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error)

	CreateEntry(ctx context.Context, actor approval.Actor, materialID uuid.UUID, req CreateMaterialEntryRequest) (*model.MaterialLedgerEntry, error)
	ListEntries(ctx context.Context, actor approval.Actor, materialID uuid.UUID, page, limit int) ([]model.MaterialLedgerEntry, int64, error)
	DeleteEntry(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error)
}

type materialService struct {
	db        *gorm.DB
	gate      *approval.Gate[model.Material, *model.Material]
	entryGate *approval.Gate[model.MaterialLedgerEntry, *model.MaterialLedgerEntry]
	projects  ProjectService
}

// NewMaterialService wires the stock side effects into the entry gate:
// CurrentStock is adjusted inside the same transaction that makes an entry
// canonical. Entry quantity/type are frozen after submission (an edited
// quantity would desync the running stock), and CurrentStock itself can never
// be patched directly.
func NewMaterialService(db *gorm.DB, gate *approval.Gate[model.Material, *model.Material], entryGate *approval.Gate[model.MaterialLedgerEntry, *model.MaterialLedgerEntry], projects ProjectService) MaterialService {
	s := &materialService{db: db, gate: gate, entryGate: entryGate, projects: projects}
	gate.ProtectFields("current_stock")
	entryGate.ProtectFields("quantity", "type", "material_id", "project_id")
	entryGate.OnApply(s.applyEntry)
	return s
}

// applyEntry adjusts the parent material's stock when an entry is created or
// removed. Creates apply the movement; deletes reverse it. The row is locked
// for the duration of the transaction on dialects that support it.
func (s *materialService) applyEntry(ctx context.Context, tx *gorm.DB, entry *model.MaterialLedgerEntry, op approval.Operation) error {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var material model.Material
	err := query.First(&material, "id = ? AND organization_id = ?", entry.MaterialID, entry.OrganizationID).Error
	if err != nil {
		return fmt.Errorf("material not found for entry: %w", err)
	}

	delta := entry.Quantity
	if entry.Type == model.MaterialEntryOut {
		delta = delta.Neg()
	}
	if op == approval.OpDelete {
		delta = delta.Neg()
	}

	newStock := material.CurrentStock.Add(delta)
	if newStock.IsNegative() {
		return fmt.Errorf("insufficient stock of %s: have %s, movement %s", material.Name, material.CurrentStock, delta)
	}

	return tx.Model(&model.Material{}).
		Where("id = ?", material.ID).
		Update("current_stock", newStock).Error
}

func (s *materialService) Create(ctx context.Context, actor approval.Actor, req CreateMaterialRequest) (*model.Material, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, req.ProjectID); err != nil {
		return nil, err
	}

	material := &model.Material{
		OrganizationID: actor.OrganizationID,
		ProjectID:      req.ProjectID,
		Name:           req.Name,
		Unit:           req.Unit,
		CurrentStock:   decimal.Zero,
		CreatedBy:      actor.ID,
	}
	if err := s.gate.SubmitCreate(ctx, material, actor, req.RequestMessage); err != nil {
		return nil, err
	}
	material.MarkLockedFor(actor.Role)
	return material, nil
}

func (s *materialService) List(ctx context.Context, actor approval.Actor, projectID uuid.UUID, page, limit int) ([]model.Material, int64, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, projectID); err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Material{}).
		Where("organization_id = ? AND project_id = ?", actor.OrganizationID, projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Material
	err := query.Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].MarkLockedFor(actor.Role)
	}
	return rows, total, nil
}

func (s *materialService) Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Material, error) {
	var material model.Material
	err := s.db.WithContext(ctx).
		First(&material, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}
	if err := requireProjectAccess(ctx, s.projects, actor, material.ProjectID); err != nil {
		return nil, err
	}
	material.MarkLockedFor(actor.Role)
	return &material, nil
}

func (s *materialService) Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Material, error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.gate.SubmitEdit(ctx, existing.ID, actor, patch, message)
	if err != nil {
		return nil, err
	}
	updated.MarkLockedFor(actor.Role)
	return updated, nil
}

func (s *materialService) Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return false, err
	}

	// Refuse to remove a material that still has movements
	var count int64
	s.db.WithContext(ctx).Model(&model.MaterialLedgerEntry{}).
		Where("material_id = ?", existing.ID).Count(&count)
	if count > 0 {
		return false, errors.New("material has ledger entries and cannot be deleted")
	}

	return s.gate.SubmitDelete(ctx, existing.ID, actor, message)
}

func (s *materialService) CreateEntry(ctx context.Context, actor approval.Actor, materialID uuid.UUID, req CreateMaterialEntryRequest) (*model.MaterialLedgerEntry, error) {
	if req.Quantity.IsNegative() || req.Quantity.IsZero() {
		return nil, errors.New("quantity must be greater than zero")
	}
	if req.Rate.IsNegative() {
		return nil, errors.New("rate must not be negative")
	}

	material, err := s.Get(ctx, actor, materialID)
	if err != nil {
		return nil, err
	}
	if material.IsPending() && material.ApprovalStatus == model.StatusPendingCreate {
		return nil, approval.ErrInvalidState
	}

	entry := &model.MaterialLedgerEntry{
		OrganizationID: actor.OrganizationID,
		ProjectID:      material.ProjectID,
		MaterialID:     material.ID,
		Type:           req.Type,
		Quantity:       req.Quantity,
		Rate:           req.Rate,
		Date:           req.Date,
		Note:           req.Note,
		CreatedBy:      actor.ID,
	}
	if err := s.entryGate.SubmitCreate(ctx, entry, actor, req.RequestMessage); err != nil {
		return nil, err
	}
	entry.MarkLockedFor(actor.Role)
	return entry, nil
}

func (s *materialService) ListEntries(ctx context.Context, actor approval.Actor, materialID uuid.UUID, page, limit int) ([]model.MaterialLedgerEntry, int64, error) {
	material, err := s.Get(ctx, actor, materialID)
	if err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.MaterialLedgerEntry{}).
		Where("organization_id = ? AND material_id = ?", actor.OrganizationID, material.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.MaterialLedgerEntry
	err = query.Order("date DESC, created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].MarkLockedFor(actor.Role)
	}
	return rows, total, nil
}

func (s *materialService) DeleteEntry(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error) {
	var entry model.MaterialLedgerEntry
	err := s.db.WithContext(ctx).
		First(&entry, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, approval.ErrNotFound
		}
		return false, err
	}
	if err := requireProjectAccess(ctx, s.projects, actor, entry.ProjectID); err != nil {
		return false, err
	}
	return s.entryGate.SubmitDelete(ctx, entry.ID, actor, message)
}
