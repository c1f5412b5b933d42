package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/repository"
)

type CreateProjectRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

type UpdateProjectRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// ProjectService owns project CRUD and membership. Projects are not routed
// through the approval gate: only admins may mutate them.
type ProjectService interface {
	Create(ctx context.Context, actor approval.Actor, req CreateProjectRequest) (*model.Project, error)
	List(ctx context.Context, actor approval.Actor, page, limit int) ([]model.Project, int64, error)
	Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, actor approval.Actor, id uuid.UUID, req UpdateProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, actor approval.Actor, id uuid.UUID) error

	AddMember(ctx context.Context, actor approval.Actor, projectID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, actor approval.Actor, projectID, userID uuid.UUID) error

	// CanAccess reports whether the actor may see the given project: admins
	// see every project in their organization, users need a membership row.
	CanAccess(ctx context.Context, actor approval.Actor, projectID uuid.UUID) (bool, error)
}

type projectService struct {
	db     *gorm.DB
	users  repository.UserRepository
	audits repository.AuditRepository
}

// NewProjectService returns a new instance of ProjectService
func NewProjectService(db *gorm.DB, users repository.UserRepository, audits repository.AuditRepository) ProjectService {
	return &projectService{db: db, users: users, audits: audits}
}

func (s *projectService) Create(ctx context.Context, actor approval.Actor, req CreateProjectRequest) (*model.Project, error) {
	if actor.Role != model.RoleAdmin {
		return nil, approval.ErrForbidden
	}

	project := &model.Project{
		OrganizationID: actor.OrganizationID,
		Name:           req.Name,
		Address:        req.Address,
		Status:         model.ProjectActive,
		CreatedBy:      actor.ID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		// The creator is always a member
		member := &model.ProjectMember{ProjectID: project.ID, UserID: actor.ID}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}

	_ = s.audits.Log(ctx, &model.AuditLog{
		OrganizationID: actor.OrganizationID,
		UserID:         &actor.ID,
		Action:         model.ActionCreateProject,
		EntityKind:     "project",
		EntityID:       project.ID.String(),
		Details:        fmt.Sprintf(`{"name":%q}`, project.Name),
	})

	return project, nil
}

func (s *projectService) List(ctx context.Context, actor approval.Actor, page, limit int) ([]model.Project, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Project{}).
		Where("organization_id = ?", actor.OrganizationID)

	// Non-admins only see projects they are a member of
	if actor.Role != model.RoleAdmin {
		query = query.Where("id IN (?)", s.db.Model(&model.ProjectMember{}).
			Select("project_id").Where("user_id = ?", actor.ID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []model.Project
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (s *projectService) Get(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Project, error) {
	ok, err := s.CanAccess(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, approval.ErrForbidden
	}

	var project model.Project
	err = s.db.WithContext(ctx).
		Preload("Members.User").
		First(&project, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (s *projectService) Update(ctx context.Context, actor approval.Actor, id uuid.UUID, req UpdateProjectRequest) (*model.Project, error) {
	if actor.Role != model.RoleAdmin {
		return nil, approval.ErrForbidden
	}

	var project model.Project
	err := s.db.WithContext(ctx).
		First(&project, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Address != "" {
		project.Address = req.Address
	}
	if req.Status != "" {
		switch req.Status {
		case model.ProjectActive, model.ProjectCompleted, model.ProjectOnHold:
			project.Status = req.Status
		default:
			return nil, errors.New("invalid status: must be ACTIVE, COMPLETED or ON_HOLD")
		}
	}

	if err := s.db.WithContext(ctx).Save(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *projectService) Delete(ctx context.Context, actor approval.Actor, id uuid.UUID) error {
	if actor.Role != model.RoleAdmin {
		return approval.ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return approval.ErrNotFound
			}
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}

func (s *projectService) AddMember(ctx context.Context, actor approval.Actor, projectID, userID uuid.UUID) error {
	if actor.Role != model.RoleAdmin {
		return approval.ErrForbidden
	}

	var project model.Project
	err := s.db.WithContext(ctx).
		First(&project, "id = ? AND organization_id = ?", projectID, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return approval.ErrNotFound
		}
		return err
	}

	// The user must belong to the same organization
	if _, err := s.users.GetByID(ctx, actor.OrganizationID, userID); err != nil {
		return errors.New("user not found in organization")
	}

	var count int64
	s.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).Count(&count)
	if count > 0 {
		return errors.New("user is already a member of this project")
	}

	member := &model.ProjectMember{ProjectID: projectID, UserID: userID}
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return err
	}

	_ = s.audits.Log(ctx, &model.AuditLog{
		OrganizationID: actor.OrganizationID,
		UserID:         &actor.ID,
		Action:         model.ActionAddMember,
		EntityKind:     "project",
		EntityID:       projectID.String(),
		Details:        fmt.Sprintf(`{"user_id":%q}`, userID.String()),
	})
	return nil
}

func (s *projectService) RemoveMember(ctx context.Context, actor approval.Actor, projectID, userID uuid.UUID) error {
	if actor.Role != model.RoleAdmin {
		return approval.ErrForbidden
	}

	var project model.Project
	err := s.db.WithContext(ctx).
		First(&project, "id = ? AND organization_id = ?", projectID, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return approval.ErrNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user is not a member of this project")
	}
	return nil
}

func (s *projectService) CanAccess(ctx context.Context, actor approval.Actor, projectID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ? AND organization_id = ?", projectID, actor.OrganizationID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	if actor.Role == model.RoleAdmin {
		return true, nil
	}

	err = s.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, actor.ID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
