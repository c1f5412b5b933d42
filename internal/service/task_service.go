package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

type CreateTaskRequest struct {
	ProjectID      uuid.UUID  `json:"project_id" binding:"required"`
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	DueDate        *time.Time `json:"due_date"`
	AssignedTo     *uuid.UUID `json:"assigned_to"`
	RequestMessage string     `json:"request_message"`
}

type TaskFilter struct {
	ProjectID  uuid.UUID
	Status     string
	AssignedTo *uuid.UUID
}

// TaskService manages work items on a project.
type TaskService interface {
	Create(ctx context.Context, actor approval.Actor, req CreateTaskRequest) (*model.Task, error)
	List(ctx context.Context, actor approval.Actor, filter TaskFilter, page, limit int) ([]model.Task, int64, error)
	Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Task, error)
	Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error)
}

type taskService struct {
	db       *gorm.DB
	gate     *approval.Gate[model.Task, *model.Task]
	projects ProjectService
}

// NewTaskService returns a new instance of TaskService
func NewTaskService(db *gorm.DB, gate *approval.Gate[model.Task, *model.Task], projects ProjectService) TaskService {
	return &taskService{db: db, gate: gate, projects: projects}
}

func (s *taskService) Create(ctx context.Context, actor approval.Actor, req CreateTaskRequest) (*model.Task, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, req.ProjectID); err != nil {
		return nil, err
	}

	task := &model.Task{
		OrganizationID: actor.OrganizationID,
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         model.TaskOpen,
		DueDate:        req.DueDate,
		AssignedTo:     req.AssignedTo,
		CreatedBy:      actor.ID,
	}
	if err := s.gate.SubmitCreate(ctx, task, actor, req.RequestMessage); err != nil {
		return nil, err
	}
	task.MarkLockedFor(actor.Role)
	return task, nil
}

func (s *taskService) List(ctx context.Context, actor approval.Actor, filter TaskFilter, page, limit int) ([]model.Task, int64, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, filter.ProjectID); err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Task{}).
		Where("organization_id = ? AND project_id = ?", actor.OrganizationID, filter.ProjectID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Task
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

func (s *taskService) Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).
		First(&task, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}
	if err := requireProjectAccess(ctx, s.projects, actor, task.ProjectID); err != nil {
		return nil, err
	}
	task.MarkLockedFor(actor.Role)
	return &task, nil
}

func (s *taskService) Update(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Task, error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// Reject invalid status values before they reach the overlay
	var probe struct {
		Status *string `json:"status"`
	}
	if err := json.Unmarshal(patch, &probe); err == nil && probe.Status != nil {
		switch *probe.Status {
		case model.TaskOpen, model.TaskInProgress, model.TaskDone:
		default:
			return nil, errors.New("invalid status: must be OPEN, IN_PROGRESS or DONE")
		}
	}

	updated, err := s.gate.SubmitEdit(ctx, existing.ID, actor, patch, message)
	if err != nil {
		return nil, err
	}
	updated.MarkLockedFor(actor.Role)
	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return false, err
	}
	return s.gate.SubmitDelete(ctx, existing.ID, actor, message)
}
