package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

// InvitationRepository persists onboarding invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByToken(ctx context.Context, token string) (*model.Invitation, error)
	GetByID(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*model.Invitation, error)
	List(ctx context.Context, orgID uuid.UUID, page, limit int) ([]model.Invitation, int64, error)
	Update(ctx context.Context, inv *model.Invitation) error
}

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	return GetDB(ctx, r.db).Create(inv).Error
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var inv model.Invitation
	if err := GetDB(ctx, r.db).First(&inv, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) GetByID(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*model.Invitation, error) {
	var inv model.Invitation
	if err := GetDB(ctx, r.db).First(&inv, "id = ? AND organization_id = ?", id, orgID).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) List(ctx context.Context, orgID uuid.UUID, page, limit int) ([]model.Invitation, int64, error) {
	var invs []model.Invitation
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Invitation{}).Where("organization_id = ?", orgID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("organization_id = ?", orgID).Order("created_at desc").
		Offset(offset).Limit(limit).Find(&invs).Error; err != nil {
		return nil, 0, err
	}

	return invs, total, nil
}

func (r *invitationRepository) Update(ctx context.Context, inv *model.Invitation) error {
	return GetDB(ctx, r.db).Save(inv).Error
}
