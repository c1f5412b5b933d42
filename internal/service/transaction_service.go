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

type CreateTransactionRequest struct {
	ProjectID      uuid.UUID       `json:"project_id" binding:"required"`
	Type           string          `json:"type" binding:"required,oneof=IN OUT"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Category       string          `json:"category"`
	PartyName      string          `json:"party_name"`
	Description    string          `json:"description"`
	Date           time.Time       `json:"date" binding:"required"`
	RequestMessage string          `json:"request_message"`
}

type TransactionFilter struct {
	ProjectID uuid.UUID
	Type      string
	Category  string
	From      *time.Time
	To        *time.Time
}

// TransactionService manages cash movements on a project. All mutations are
// routed through the approval gate.
type TransactionService interface {
	Create(ctx context.Context, actor approval.Actor, req CreateTransactionRequest) (*model.Transaction, error)
	List(ctx context.Context, actor approval.Actor, filter TransactionFilter, page, limit int) ([]model.Transaction, int64, error)
	Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Transaction, error)
	Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Transaction, error)
	Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error)
}

type transactionService struct {
	db       *gorm.DB
	gate     *approval.Gate[model.Transaction, *model.Transaction]
	projects ProjectService
}

// NewTransactionService returns a new instance of TransactionService
func NewTransactionService(db *gorm.DB, gate *approval.Gate[model.Transaction, *model.Transaction], projects ProjectService) TransactionService {
	return &transactionService{db: db, gate: gate, projects: projects}
}

func (s *transactionService) Create(ctx context.Context, actor approval.Actor, req CreateTransactionRequest) (*model.Transaction, error) {
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, errors.New("amount must be greater than zero")
	}
	if err := requireProjectAccess(ctx, s.projects, actor, req.ProjectID); err != nil {
		return nil, err
	}

	tx := &model.Transaction{
		OrganizationID: actor.OrganizationID,
		ProjectID:      req.ProjectID,
		Type:           req.Type,
		Amount:         req.Amount,
		Category:       req.Category,
		PartyName:      req.PartyName,
		Description:    req.Description,
		Date:           req.Date,
		CreatedBy:      actor.ID,
	}
	if err := s.gate.SubmitCreate(ctx, tx, actor, req.RequestMessage); err != nil {
		return nil, err
	}
	tx.MarkLockedFor(actor.Role)
	return tx, nil
}

func (s *transactionService) List(ctx context.Context, actor approval.Actor, filter TransactionFilter, page, limit int) ([]model.Transaction, int64, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, filter.ProjectID); err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("organization_id = ? AND project_id = ?", actor.OrganizationID, filter.ProjectID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Transaction
	err := query.Order("date DESC, created_at DESC").
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

func (s *transactionService) Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Transaction, error) {
	var tx model.Transaction
	err := s.db.WithContext(ctx).
		First(&tx, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}
	if err := requireProjectAccess(ctx, s.projects, actor, tx.ProjectID); err != nil {
		return nil, err
	}
	tx.MarkLockedFor(actor.Role)
	return &tx, nil
}

func (s *transactionService) Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Transaction, error) {
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

func (s *transactionService) Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return false, err
	}
	return s.gate.SubmitDelete(ctx, existing.ID, actor, message)
}
