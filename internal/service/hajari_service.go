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

type CreateHajariRequest struct {
	ProjectID      uuid.UUID       `json:"project_id" binding:"required"`
	LabourName     string          `json:"labour_name" binding:"required"`
	Date           time.Time       `json:"date" binding:"required"`
	Units          decimal.Decimal `json:"units"`
	Wage           decimal.Decimal `json:"wage"`
	Note           string          `json:"note"`
	RequestMessage string          `json:"request_message"`
}

type HajariFilter struct {
	ProjectID  uuid.UUID
	LabourName string
	From       *time.Time
	To         *time.Time
}

// HajariService manages daily labor-attendance records on a project.
type HajariService interface {
	Create(ctx context.Context, actor approval.Actor, req CreateHajariRequest) (*model.Hajari, error)
	List(ctx context.Context, actor approval.Actor, filter HajariFilter, page, limit int) ([]model.Hajari, int64, error)
	Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Hajari, error)
	Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Hajari, error)
	Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error)
}

type hajariService struct {
	db       *gorm.DB
	gate     *approval.Gate[model.Hajari, *model.Hajari]
	projects ProjectService
}

// NewHajariService returns a new instance of HajariService
func NewHajariService(db *gorm.DB, gate *approval.Gate[model.Hajari, *model.Hajari], projects ProjectService) HajariService {
	return &hajariService{db: db, gate: gate, projects: projects}
}

func (s *hajariService) Create(ctx context.Context, actor approval.Actor, req CreateHajariRequest) (*model.Hajari, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, req.ProjectID); err != nil {
		return nil, err
	}

	units := req.Units
	if units.IsZero() {
		units = decimal.NewFromInt(1) // full day by default
	}
	if units.IsNegative() {
		return nil, errors.New("units must not be negative")
	}
	if req.Wage.IsNegative() {
		return nil, errors.New("wage must not be negative")
	}

	record := &model.Hajari{
		OrganizationID: actor.OrganizationID,
		ProjectID:      req.ProjectID,
		LabourName:     req.LabourName,
		Date:           req.Date,
		Units:          units,
		Wage:           req.Wage,
		Note:           req.Note,
		CreatedBy:      actor.ID,
	}
	if err := s.gate.SubmitCreate(ctx, record, actor, req.RequestMessage); err != nil {
		return nil, err
	}
	record.MarkLockedFor(actor.Role)
	return record, nil
}

func (s *hajariService) List(ctx context.Context, actor approval.Actor, filter HajariFilter, page, limit int) ([]model.Hajari, int64, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, filter.ProjectID); err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Hajari{}).
		Where("organization_id = ? AND project_id = ?", actor.OrganizationID, filter.ProjectID)
	if filter.LabourName != "" {
		query = query.Where("labour_name = ?", filter.LabourName)
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

	var rows []model.Hajari
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

func (s *hajariService) Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Hajari, error) {
	var record model.Hajari
	err := s.db.WithContext(ctx).
		First(&record, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}
	if err := requireProjectAccess(ctx, s.projects, actor, record.ProjectID); err != nil {
		return nil, err
	}
	record.MarkLockedFor(actor.Role)
	return &record, nil
}

func (s *hajariService) Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Hajari, error) {
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

func (s *hajariService) Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return false, err
	}
	return s.gate.SubmitDelete(ctx, existing.ID, actor, message)
}
