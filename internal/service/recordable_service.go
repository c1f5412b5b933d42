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

type CreateRecordableRequest struct {
	ProjectID      uuid.UUID       `json:"project_id" binding:"required"`
	Kind           string          `json:"kind" binding:"required,oneof=RECEIVABLE PAYABLE"`
	PartyName      string          `json:"party_name" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	DueDate        *time.Time      `json:"due_date"`
	Description    string          `json:"description"`
	RequestMessage string          `json:"request_message"`
}

type RecordableFilter struct {
	ProjectID uuid.UUID
	Kind      string
	Settled   *bool
}

// RecordableService manages outstanding receivables/payables on a project.
type RecordableService interface {
	Create(ctx context.Context, actor approval.Actor, req CreateRecordableRequest) (*model.Recordable, error)
	List(ctx context.Context, actor approval.Actor, filter RecordableFilter, page, limit int) ([]model.Recordable, int64, error)
	Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Recordable, error)
	Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Recordable, error)
	Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error)
}

type recordableService struct {
	db       *gorm.DB
	gate     *approval.Gate[model.Recordable, *model.Recordable]
	projects ProjectService
}

// NewRecordableService returns a new instance of RecordableService
func NewRecordableService(db *gorm.DB, gate *approval.Gate[model.Recordable, *model.Recordable], projects ProjectService) RecordableService {
	return &recordableService{db: db, gate: gate, projects: projects}
}

func (s *recordableService) Create(ctx context.Context, actor approval.Actor, req CreateRecordableRequest) (*model.Recordable, error) {
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, errors.New("amount must be greater than zero")
	}
	if err := requireProjectAccess(ctx, s.projects, actor, req.ProjectID); err != nil {
		return nil, err
	}

	rec := &model.Recordable{
		OrganizationID: actor.OrganizationID,
		ProjectID:      req.ProjectID,
		Kind:           req.Kind,
		PartyName:      req.PartyName,
		Amount:         req.Amount,
		DueDate:        req.DueDate,
		Description:    req.Description,
		CreatedBy:      actor.ID,
	}
	if err := s.gate.SubmitCreate(ctx, rec, actor, req.RequestMessage); err != nil {
		return nil, err
	}
	rec.MarkLockedFor(actor.Role)
	return rec, nil
}

func (s *recordableService) List(ctx context.Context, actor approval.Actor, filter RecordableFilter, page, limit int) ([]model.Recordable, int64, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, filter.ProjectID); err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Recordable{}).
		Where("organization_id = ? AND project_id = ?", actor.OrganizationID, filter.ProjectID)
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Settled != nil {
		query = query.Where("settled = ?", *filter.Settled)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Recordable
	err := query.Order("created_at DESC").
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

func (s *recordableService) Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Recordable, error) {
	var rec model.Recordable
	err := s.db.WithContext(ctx).
		First(&rec, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}
	if err := requireProjectAccess(ctx, s.projects, actor, rec.ProjectID); err != nil {
		return nil, err
	}
	rec.MarkLockedFor(actor.Role)
	return &rec, nil
}

func (s *recordableService) Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Recordable, error) {
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

func (s *recordableService) Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return false, err
	}
	return s.gate.SubmitDelete(ctx, existing.ID, actor, message)
}
