package approval

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

// Entity is the shape every approvable model exposes to the gate.
type Entity interface {
	GetID() uuid.UUID
	GetOrganizationID() uuid.UUID
	ApprovalState() *model.ApprovalFields
	EntityKind() string
}

// ptrTo constrains PT to "pointer to T that is an Entity".
type ptrTo[T any] interface {
	Entity
	*T
}

// AuditEntry is handed to the audit sink after a gate write commits.
type AuditEntry struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Action         string
	EntityKind     string
	EntityID       uuid.UUID
	Details        map[string]interface{}
}

// Auditor records gate actions. Logging is best-effort: a failure never
// rolls back the entity write.
type Auditor interface {
	LogAction(ctx context.Context, entry AuditEntry) error
}

// Event is pushed to connected clients when approval state changes. The
// organization id scopes fan-out: an event must never reach another tenant.
type Event struct {
	Type           string    `json:"type"`
	Kind           string    `json:"kind"`
	EntityID       uuid.UUID `json:"entity_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Status         string    `json:"approval_status"`
	ActorID        uuid.UUID `json:"actor_id"`
}

const (
	EventSubmitted = "approval.submitted"
	EventResolved  = "approval.resolved"

	// StatusDeleted is published when an approved pending-delete removed the
	// row. Events only; rows never carry it.
	StatusDeleted = "DELETED"
)

// Notifier publishes approval events. Fire-and-forget.
type Notifier interface {
	Publish(event Event)
}

// ApplyFunc runs inside the entity transaction whenever a create or delete
// becomes canonical — on the direct (un-gated) path and on admin approval.
// Entity services use it for side effects such as stock adjustments.
type ApplyFunc[PT Entity] func(ctx context.Context, tx *gorm.DB, entity PT, op Operation) error

// Gate is the approval/moderation state machine, implemented once and
// instantiated per entity kind. It routes client-submitted mutations either
// straight to the store or into a pending overlay, and lets admins resolve
// pending items by merging or discarding the overlay.
type Gate[T any, PT ptrTo[T]] struct {
	db        *gorm.DB
	policy    Policy
	auditor   Auditor
	notifier  Notifier
	onApply   ApplyFunc[PT]
	protected map[string]struct{}
}

// NewGate builds a gate for one entity kind. auditor and notifier may be nil.
func NewGate[T any, PT ptrTo[T]](db *gorm.DB, policy Policy, auditor Auditor, notifier Notifier) *Gate[T, PT] {
	return &Gate[T, PT]{
		db:        db,
		policy:    policy,
		auditor:   auditor,
		notifier:  notifier,
		protected: map[string]struct{}{},
	}
}

// OnApply registers the side-effect hook for canonical creates/deletes.
func (g *Gate[T, PT]) OnApply(fn ApplyFunc[PT]) *Gate[T, PT] {
	g.onApply = fn
	return g
}

// ProtectFields marks additional JSON keys a patch may never touch
// (derived columns owned by apply hooks).
func (g *Gate[T, PT]) ProtectFields(keys ...string) *Gate[T, PT] {
	for _, k := range keys {
		g.protected[k] = struct{}{}
	}
	return g
}

// Kind returns the entity kind this gate manages.
func (g *Gate[T, PT]) Kind() string {
	var row T
	return PT(&row).EntityKind()
}

// SubmitCreate routes a creation. The entity arrives with its canonical
// fields, tenancy and creator already set; the gate owns the approval state.
func (g *Gate[T, PT]) SubmitCreate(ctx context.Context, entity PT, actor Actor, message string) error {
	state := entity.ApprovalState()
	gated := g.policy.RequiresApproval(entity.EntityKind(), OpCreate, actor.Role)
	if gated {
		state.ApprovalStatus = model.StatusPendingCreate
		submitter := actor.ID
		state.SubmittedBy = &submitter
		state.RequestMessage = message
	} else {
		state.ApprovalStatus = model.StatusApproved
		state.PendingData = ""
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		if !gated && g.onApply != nil {
			return g.onApply(ctx, tx, entity, OpCreate)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if gated {
		g.audit(ctx, actor, model.ActionSubmitCreate, entity, map[string]interface{}{"request_message": message})
		g.notify(Event{Type: EventSubmitted, Kind: entity.EntityKind(), EntityID: entity.GetID(), OrganizationID: entity.GetOrganizationID(), Status: model.StatusPendingCreate, ActorID: actor.ID})
	} else {
		g.audit(ctx, actor, model.ActionApplyCreate, entity, nil)
	}
	return nil
}

// SubmitEdit routes a partial update expressed as a JSON object. Direct path
// merges into the canonical fields immediately; deferred path stores the
// sanitized patch as the pending overlay, leaving canonical data untouched.
func (g *Gate[T, PT]) SubmitEdit(ctx context.Context, id uuid.UUID, actor Actor, patch json.RawMessage, message string) (PT, error) {
	overlay, err := sanitizePatch(patch, g.protected)
	if err != nil {
		return nil, err
	}

	var entity PT
	gated := false
	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity, err = g.find(tx, id, actor.OrganizationID)
		if err != nil {
			return err
		}
		if Locked(entity, actor.Role) {
			return ErrLocked
		}

		state := entity.ApprovalState()
		gated = g.policy.RequiresApproval(entity.EntityKind(), OpEdit, actor.Role)
		if gated {
			raw, marshalErr := json.Marshal(overlay)
			if marshalErr != nil {
				return marshalErr
			}
			state.ApprovalStatus = model.StatusPendingEdit
			state.PendingData = string(raw)
			submitter := actor.ID
			state.SubmittedBy = &submitter
			state.RequestMessage = message
		} else {
			if mergeErr := applyOverlay((*T)(entity), overlay); mergeErr != nil {
				return mergeErr
			}
			state.ApprovalStatus = model.StatusApproved
			state.PendingData = ""
			state.SubmittedBy = nil
			state.RequestMessage = ""
		}
		return tx.Save(entity).Error
	})
	if err != nil {
		return nil, err
	}

	if gated {
		g.audit(ctx, actor, model.ActionSubmitEdit, entity, map[string]interface{}{"request_message": message, "pending_data": entity.ApprovalState().PendingData})
		g.notify(Event{Type: EventSubmitted, Kind: entity.EntityKind(), EntityID: entity.GetID(), OrganizationID: entity.GetOrganizationID(), Status: model.StatusPendingEdit, ActorID: actor.ID})
	} else {
		g.audit(ctx, actor, model.ActionApplyEdit, entity, nil)
	}
	return entity, nil
}

// SubmitDelete routes a deletion. The deferred path keeps the row alive
// flagged PENDING_DELETE; no overlay payload is stored.
func (g *Gate[T, PT]) SubmitDelete(ctx context.Context, id uuid.UUID, actor Actor, message string) (bool, error) {
	var entity PT
	gated := false
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entity, err = g.find(tx, id, actor.OrganizationID)
		if err != nil {
			return err
		}
		if Locked(entity, actor.Role) {
			return ErrLocked
		}

		gated = g.policy.RequiresApproval(entity.EntityKind(), OpDelete, actor.Role)
		if gated {
			state := entity.ApprovalState()
			state.ApprovalStatus = model.StatusPendingDelete
			state.PendingData = ""
			submitter := actor.ID
			state.SubmittedBy = &submitter
			state.RequestMessage = message
			return tx.Save(entity).Error
		}

		if g.onApply != nil {
			if err := g.onApply(ctx, tx, entity, OpDelete); err != nil {
				return err
			}
		}
		return tx.Delete(entity).Error
	})
	if err != nil {
		return false, err
	}

	if gated {
		g.audit(ctx, actor, model.ActionSubmitDelete, entity, map[string]interface{}{"request_message": message})
		g.notify(Event{Type: EventSubmitted, Kind: entity.EntityKind(), EntityID: entity.GetID(), OrganizationID: entity.GetOrganizationID(), Status: model.StatusPendingDelete, ActorID: actor.ID})
		return false, nil
	}
	g.audit(ctx, actor, model.ActionApplyDelete, entity, nil)
	return true, nil
}

// Resolve applies an admin decision to a pending entity. Approving a
// pending edit merges the overlay into the canonical fields; approving a
// pending delete removes the row; rejecting discards the overlay, records
// remarks and increments the rejection count. Returns the entity (nil when
// deleted) and whether the row was removed.
func (g *Gate[T, PT]) Resolve(ctx context.Context, id uuid.UUID, actor Actor, decision Decision, remarks string) (PT, bool, error) {
	if actor.Role != model.RoleAdmin {
		return nil, false, ErrForbidden
	}

	var entity PT
	deleted := false
	priorStatus := ""
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entity, err = g.find(tx, id, actor.OrganizationID)
		if err != nil {
			return err
		}
		state := entity.ApprovalState()
		if !state.IsPending() {
			return ErrInvalidState
		}
		priorStatus = state.ApprovalStatus

		if decision == DecisionReject {
			state.PendingData = ""
			state.ApprovalStatus = model.StatusRejected
			state.Remarks = remarks
			state.RejectionCount++
			return tx.Save(entity).Error
		}

		switch priorStatus {
		case model.StatusPendingCreate:
			// Canonical fields were stored at submission; only flip status.
			state.ApprovalStatus = model.StatusApproved
			state.PendingData = ""
			if g.onApply != nil {
				if err := g.onApply(ctx, tx, entity, OpCreate); err != nil {
					return err
				}
			}
			return tx.Save(entity).Error
		case model.StatusPendingEdit:
			overlay, mergeErr := sanitizePatch([]byte(state.PendingData), g.protected)
			if mergeErr != nil {
				return mergeErr
			}
			if mergeErr = applyOverlay((*T)(entity), overlay); mergeErr != nil {
				return mergeErr
			}
			state.ApprovalStatus = model.StatusApproved
			state.PendingData = ""
			return tx.Save(entity).Error
		case model.StatusPendingDelete:
			if g.onApply != nil {
				if err := g.onApply(ctx, tx, entity, OpDelete); err != nil {
					return err
				}
			}
			deleted = true
			return tx.Delete(entity).Error
		}
		return ErrInvalidState
	})
	if err != nil {
		return nil, false, err
	}

	action := model.ActionApprove
	if decision == DecisionReject {
		action = model.ActionReject
	}
	g.audit(ctx, actor, action, entity, map[string]interface{}{"prior_status": priorStatus, "remarks": remarks})

	// An approved delete leaves the in-memory entity flagged PENDING_DELETE;
	// subscribers need to know the row is gone.
	resolvedStatus := entity.ApprovalState().ApprovalStatus
	if deleted {
		resolvedStatus = StatusDeleted
	}
	g.notify(Event{Type: EventResolved, Kind: entity.EntityKind(), EntityID: entity.GetID(), OrganizationID: entity.GetOrganizationID(), Status: resolvedStatus, ActorID: actor.ID})

	if deleted {
		return nil, true, nil
	}
	return entity, false, nil
}

// ListPending returns this kind's rows awaiting a decision, newest first.
func (g *Gate[T, PT]) ListPending(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]PT, int64, error) {
	pending := []string{model.StatusPendingCreate, model.StatusPendingEdit, model.StatusPendingDelete}

	var total int64
	var row T
	query := g.db.WithContext(ctx).Model(PT(&row)).
		Where("organization_id = ? AND approval_status IN ?", orgID, pending)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []T
	if err := g.db.WithContext(ctx).
		Where("organization_id = ? AND approval_status IN ?", orgID, pending).
		Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	result := make([]PT, 0, len(rows))
	for i := range rows {
		result = append(result, PT(&rows[i]))
	}
	return result, total, nil
}

func (g *Gate[T, PT]) find(tx *gorm.DB, id, orgID uuid.UUID) (PT, error) {
	var row T
	entity := PT(&row)
	err := tx.Where("id = ? AND organization_id = ?", id, orgID).First(entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (g *Gate[T, PT]) audit(ctx context.Context, actor Actor, action string, entity PT, details map[string]interface{}) {
	if g.auditor == nil {
		return
	}
	entry := AuditEntry{
		OrganizationID: actor.OrganizationID,
		UserID:         actor.ID,
		Action:         action,
		EntityKind:     entity.EntityKind(),
		EntityID:       entity.GetID(),
		Details:        details,
	}
	if err := g.auditor.LogAction(ctx, entry); err != nil {
		log.Printf("audit log write failed (%s %s): %v", action, entity.EntityKind(), err)
	}
}

func (g *Gate[T, PT]) notify(event Event) {
	if g.notifier == nil {
		return
	}
	g.notifier.Publish(event)
}
