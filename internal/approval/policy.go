package approval

import (
	"github.com/google/uuid"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

// Operation enum constants
type Operation string

const (
	OpCreate Operation = "create"
	OpEdit   Operation = "edit"
	OpDelete Operation = "delete"
)

// Decision enum constants
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Role           string
}

// Policy decides whether an operation must be deferred into the pending
// branch. Pure function of its three inputs.
type Policy interface {
	RequiresApproval(kind string, op Operation, role string) bool
}

// Table is a policy as data: entity kind × operation × role → gated.
// Missing entries mean "not gated". Admins are never gated regardless of
// table contents, so a misconfigured row cannot stall an admin.
type Table map[string]map[Operation]map[string]bool

func (t Table) RequiresApproval(kind string, op Operation, role string) bool {
	if role == model.RoleAdmin {
		return false
	}
	return t[kind][op][role]
}

// DefaultPolicy gates every operation on every entity kind for role "user".
// The table shape leaves room for a trusted non-admin tier later without
// touching gate logic.
func DefaultPolicy() Table {
	t := make(Table, len(model.AllKinds))
	for _, kind := range model.AllKinds {
		t[kind] = map[Operation]map[string]bool{
			OpCreate: {model.RoleUser: true},
			OpEdit:   {model.RoleUser: true},
			OpDelete: {model.RoleUser: true},
		}
	}
	return t
}
