package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, orgID uuid.UUID, page, limit int) ([]model.AuditLog, int64, error)

	// LogAction satisfies the approval gate's audit sink.
	LogAction(ctx context.Context, entry approval.AuditEntry) error
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) LogAction(ctx context.Context, entry approval.AuditEntry) error {
	details := ""
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err == nil {
			details = string(raw)
		}
	}

	userID := entry.UserID
	return r.Log(ctx, &model.AuditLog{
		OrganizationID: entry.OrganizationID,
		UserID:         &userID,
		Action:         entry.Action,
		EntityKind:     entry.EntityKind,
		EntityID:       entry.EntityID.String(),
		Details:        details,
	})
}

func (r *auditRepository) List(ctx context.Context, orgID uuid.UUID, page, limit int) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AuditLog{}).Where("organization_id = ?", orgID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("User").Where("organization_id = ?", orgID).
		Order("created_at desc").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
