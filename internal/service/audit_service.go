package service

import (
	"context"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/repository"
)

// AuditService exposes the organization's audit trail to admins.
type AuditService interface {
	List(ctx context.Context, actor approval.Actor, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	audits repository.AuditRepository
}

// NewAuditService returns a new instance of AuditService
func NewAuditService(audits repository.AuditRepository) AuditService {
	return &auditService{audits: audits}
}

func (s *auditService) List(ctx context.Context, actor approval.Actor, page, limit int) ([]model.AuditLog, int64, error) {
	if actor.Role != model.RoleAdmin {
		return nil, 0, approval.ErrForbidden
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.audits.List(ctx, actor.OrganizationID, page, limit)
}
