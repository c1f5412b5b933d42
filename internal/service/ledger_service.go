package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

type CreateLedgerRequest struct {
	ProjectID      uuid.UUID       `json:"project_id" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	PartyName      string          `json:"party_name"`
	Phone          string          `json:"phone"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	RequestMessage string          `json:"request_message"`
}

type CreateJournalEntryRequest struct {
	Date           time.Time       `json:"date" binding:"required"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Narration      string          `json:"narration"`
	RequestMessage string          `json:"request_message"`
}

// LedgerWithBalance decorates a ledger with its computed running balance.
type LedgerWithBalance struct {
	model.Ledger
	Balance decimal.Decimal `json:"balance"`
}

// LedgerService manages party account books and their journal lines. A
// ledger's balance is always derived: opening balance plus approved credits
// minus approved debits. Pending lines do not count.
type LedgerService interface {
	Create(ctx context.Context, actor approval.Actor, req CreateLedgerRequest) (*model.Ledger, error)
	List(ctx context.Context, actor approval.Actor, projectID uuid.UUID, page, limit int) ([]LedgerWithBalance, int64, error)
	Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*LedgerWithBalance, error)
	Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Ledger, error)
	Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error)

	CreateEntry(ctx context.Context, actor approval.Actor, ledgerID uuid.UUID, req CreateJournalEntryRequest) (*model.JournalEntry, error)
	ListEntries(ctx context.Context, actor approval.Actor, ledgerID uuid.UUID, page, limit int) ([]model.JournalEntry, int64, error)
	UpdateEntry(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.JournalEntry, error)
	DeleteEntry(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error)
}

type ledgerService struct {
	db        *gorm.DB
	gate      *approval.Gate[model.Ledger, *model.Ledger]
	entryGate *approval.Gate[model.JournalEntry, *model.JournalEntry]
	projects  ProjectService
}

// NewLedgerService returns a new instance of LedgerService
func NewLedgerService(db *gorm.DB, gate *approval.Gate[model.Ledger, *model.Ledger], entryGate *approval.Gate[model.JournalEntry, *model.JournalEntry], projects ProjectService) LedgerService {
	s := &ledgerService{db: db, gate: gate, entryGate: entryGate, projects: projects}
	entryGate.ProtectFields("ledger_id", "project_id")
	return s
}

func (s *ledgerService) balance(ctx context.Context, ledger *model.Ledger) (decimal.Decimal, error) {
	type sums struct {
		Debit  decimal.Decimal
		Credit decimal.Decimal
	}
	var row sums
	err := s.db.WithContext(ctx).Model(&model.JournalEntry{}).
		Select("COALESCE(SUM(debit), 0) AS debit, COALESCE(SUM(credit), 0) AS credit").
		Where("ledger_id = ? AND approval_status = ?", ledger.ID, model.StatusApproved).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.OpeningBalance.Add(row.Credit).Sub(row.Debit), nil
}

func (s *ledgerService) Create(ctx context.Context, actor approval.Actor, req CreateLedgerRequest) (*model.Ledger, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, req.ProjectID); err != nil {
		return nil, err
	}

	ledger := &model.Ledger{
		OrganizationID: actor.OrganizationID,
		ProjectID:      req.ProjectID,
		Name:           req.Name,
		PartyName:      req.PartyName,
		Phone:          req.Phone,
		OpeningBalance: req.OpeningBalance,
		CreatedBy:      actor.ID,
	}
	if err := s.gate.SubmitCreate(ctx, ledger, actor, req.RequestMessage); err != nil {
		return nil, err
	}
	ledger.MarkLockedFor(actor.Role)
	return ledger, nil
}

func (s *ledgerService) List(ctx context.Context, actor approval.Actor, projectID uuid.UUID, page, limit int) ([]LedgerWithBalance, int64, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, projectID); err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Ledger{}).
		Where("organization_id = ? AND project_id = ?", actor.OrganizationID, projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Ledger
	err := query.Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]LedgerWithBalance, 0, len(rows))
	for i := range rows {
		bal, err := s.balance(ctx, &rows[i])
		if err != nil {
			return nil, 0, err
		}
		rows[i].MarkLockedFor(actor.Role)
		result = append(result, LedgerWithBalance{Ledger: rows[i], Balance: bal})
	}
	return result, total, nil
}

func (s *ledgerService) get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Ledger, error) {
	var ledger model.Ledger
	err := s.db.WithContext(ctx).
		First(&ledger, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}
	if err := requireProjectAccess(ctx, s.projects, actor, ledger.ProjectID); err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (s *ledgerService) Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*LedgerWithBalance, error) {
	ledger, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	bal, err := s.balance(ctx, ledger)
	if err != nil {
		return nil, err
	}
	ledger.MarkLockedFor(actor.Role)
	return &LedgerWithBalance{Ledger: *ledger, Balance: bal}, nil
}

func (s *ledgerService) Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Ledger, error) {
	existing, err := s.get(ctx, actor, id)
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

func (s *ledgerService) Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error) {
	existing, err := s.get(ctx, actor, id)
	if err != nil {
		return false, err
	}

	var count int64
	s.db.WithContext(ctx).Model(&model.JournalEntry{}).
		Where("ledger_id = ?", existing.ID).Count(&count)
	if count > 0 {
		return false, errors.New("ledger has journal entries and cannot be deleted")
	}

	return s.gate.SubmitDelete(ctx, existing.ID, actor, message)
}

func (s *ledgerService) CreateEntry(ctx context.Context, actor approval.Actor, ledgerID uuid.UUID, req CreateJournalEntryRequest) (*model.JournalEntry, error) {
	if req.Debit.IsNegative() || req.Credit.IsNegative() {
		return nil, errors.New("debit and credit must not be negative")
	}
	if req.Debit.IsZero() == req.Credit.IsZero() {
		return nil, errors.New("exactly one of debit or credit must be set")
	}

	ledger, err := s.get(ctx, actor, ledgerID)
	if err != nil {
		return nil, err
	}
	if ledger.ApprovalStatus == model.StatusPendingCreate {
		return nil, approval.ErrInvalidState
	}

	entry := &model.JournalEntry{
		OrganizationID: actor.OrganizationID,
		ProjectID:      ledger.ProjectID,
		LedgerID:       ledger.ID,
		Date:           req.Date,
		Debit:          req.Debit,
		Credit:         req.Credit,
		Narration:      req.Narration,
		CreatedBy:      actor.ID,
	}
	if err := s.entryGate.SubmitCreate(ctx, entry, actor, req.RequestMessage); err != nil {
		return nil, err
	}
	entry.MarkLockedFor(actor.Role)
	return entry, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, actor approval.Actor, ledgerID uuid.UUID, page, limit int) ([]model.JournalEntry, int64, error) {
	ledger, err := s.get(ctx, actor, ledgerID)
	if err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.JournalEntry{}).
		Where("organization_id = ? AND ledger_id = ?", actor.OrganizationID, ledger.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.JournalEntry
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

func (s *ledgerService) UpdateEntry(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.JournalEntry, error) {
	entry, err := s.findEntry(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.entryGate.SubmitEdit(ctx, entry.ID, actor, patch, message)
	if err != nil {
		return nil, err
	}
	updated.MarkLockedFor(actor.Role)
	return updated, nil
}

func (s *ledgerService) DeleteEntry(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error) {
	entry, err := s.findEntry(ctx, actor, id)
	if err != nil {
		return false, err
	}
	return s.entryGate.SubmitDelete(ctx, entry.ID, actor, message)
}

func (s *ledgerService) findEntry(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.JournalEntry, error) {
	var entry model.JournalEntry
	err := s.db.WithContext(ctx).
		First(&entry, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}
	if err := requireProjectAccess(ctx, s.projects, actor, entry.ProjectID); err != nil {
		return nil, err
	}
	return &entry, nil
}
