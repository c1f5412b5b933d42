package approval

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// PendingItem is the kind-agnostic view of a pending entity for the admin
// inbox and decision endpoints.
type PendingItem struct {
	Kind           string          `json:"kind"`
	ID             uuid.UUID       `json:"id"`
	ApprovalStatus string          `json:"approval_status"`
	SubmittedBy    *uuid.UUID      `json:"submitted_by,omitempty"`
	RequestMessage string          `json:"request_message,omitempty"`
	RejectionCount int             `json:"rejection_count"`
	PendingData    json.RawMessage `json:"pending_data,omitempty"`
	Entity         interface{}     `json:"entity,omitempty"`
}

// Resolver is the non-generic surface a Gate exposes so the decision API
// can dispatch on an entity-kind string.
type Resolver interface {
	Kind() string
	ResolveByID(ctx context.Context, id uuid.UUID, actor Actor, decision Decision, remarks string) (*PendingItem, bool, error)
	PendingItems(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]PendingItem, int64, error)
}

// Registry maps entity kinds to their gates.
type Registry map[string]Resolver

func (r Registry) Add(res Resolver) {
	r[res.Kind()] = res
}

func (r Registry) Get(kind string) (Resolver, bool) {
	res, ok := r[kind]
	return res, ok
}

// ResolveByID adapts Gate.Resolve to the kind-agnostic Resolver surface.
func (g *Gate[T, PT]) ResolveByID(ctx context.Context, id uuid.UUID, actor Actor, decision Decision, remarks string) (*PendingItem, bool, error) {
	entity, deleted, err := g.Resolve(ctx, id, actor, decision, remarks)
	if err != nil {
		return nil, false, err
	}
	if deleted {
		return nil, true, nil
	}
	item := itemFrom(entity)
	return &item, false, nil
}

// PendingItems adapts Gate.ListPending to the kind-agnostic Resolver surface.
func (g *Gate[T, PT]) PendingItems(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]PendingItem, int64, error) {
	entities, total, err := g.ListPending(ctx, orgID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]PendingItem, 0, len(entities))
	for _, e := range entities {
		items = append(items, itemFrom(e))
	}
	return items, total, nil
}

func itemFrom(e Entity) PendingItem {
	state := e.ApprovalState()
	var overlay json.RawMessage
	if state.PendingData != "" {
		overlay = json.RawMessage(state.PendingData)
	}
	return PendingItem{
		Kind:           e.EntityKind(),
		ID:             e.GetID(),
		ApprovalStatus: state.ApprovalStatus,
		SubmittedBy:    state.SubmittedBy,
		RequestMessage: state.RequestMessage,
		RejectionCount: state.RejectionCount,
		PendingData:    overlay,
		Entity:         e,
	}
}
