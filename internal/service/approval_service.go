package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

// ErrUnknownKind is returned when a decision targets an entity kind no gate
// is registered for.
var ErrUnknownKind = errors.New("unknown entity kind")

type DecisionRequest struct {
	Remarks string `json:"remarks"`
}

// ApprovalService is the admin inbox: list pending submissions across every
// entity kind and apply approve/reject decisions by kind + id.
type ApprovalService interface {
	ListPending(ctx context.Context, actor approval.Actor, kind string, page, limit int) ([]approval.PendingItem, int64, error)
	Decide(ctx context.Context, actor approval.Actor, kind string, id uuid.UUID, decision approval.Decision, remarks string) (*approval.PendingItem, bool, error)
	PendingCounts(ctx context.Context, actor approval.Actor) (map[string]int64, error)
}

type approvalService struct {
	registry approval.Registry
}

// NewApprovalService returns a new instance of ApprovalService
func NewApprovalService(registry approval.Registry) ApprovalService {
	return &approvalService{registry: registry}
}

// ListPending returns the pending queue. With a kind it pages that kind's
// table directly; without one it merges a window from every registered kind,
// which is adequate for an inbox view.
func (s *approvalService) ListPending(ctx context.Context, actor approval.Actor, kind string, page, limit int) ([]approval.PendingItem, int64, error) {
	if actor.Role != model.RoleAdmin {
		return nil, 0, approval.ErrForbidden
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	if kind != "" {
		resolver, ok := s.registry.Get(kind)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
		}
		return resolver.PendingItems(ctx, actor.OrganizationID, offset, limit)
	}

	var merged []approval.PendingItem
	var total int64
	for _, k := range model.AllKinds {
		resolver, ok := s.registry.Get(k)
		if !ok {
			continue
		}
		items, count, err := resolver.PendingItems(ctx, actor.OrganizationID, 0, offset+limit)
		if err != nil {
			return nil, 0, err
		}
		merged = append(merged, items...)
		total += count
	}

	if offset >= len(merged) {
		return []approval.PendingItem{}, total, nil
	}
	end := offset + limit
	if end > len(merged) {
		end = len(merged)
	}
	return merged[offset:end], total, nil
}

func (s *approvalService) Decide(ctx context.Context, actor approval.Actor, kind string, id uuid.UUID, decision approval.Decision, remarks string) (*approval.PendingItem, bool, error) {
	resolver, ok := s.registry.Get(kind)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return resolver.ResolveByID(ctx, id, actor, decision, remarks)
}

// PendingCounts returns the number of pending submissions per kind, for
// inbox badges.
func (s *approvalService) PendingCounts(ctx context.Context, actor approval.Actor) (map[string]int64, error) {
	if actor.Role != model.RoleAdmin {
		return nil, approval.ErrForbidden
	}

	counts := make(map[string]int64, len(model.AllKinds))
	for _, k := range model.AllKinds {
		resolver, ok := s.registry.Get(k)
		if !ok {
			continue
		}
		_, total, err := resolver.PendingItems(ctx, actor.OrganizationID, 0, 1)
		if err != nil {
			return nil, err
		}
		counts[k] = total
	}
	return counts, nil
}
