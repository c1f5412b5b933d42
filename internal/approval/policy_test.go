package approval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

func TestDefaultPolicy_AdminNeverGated(t *testing.T) {
	policy := approval.DefaultPolicy()
	ops := []approval.Operation{approval.OpCreate, approval.OpEdit, approval.OpDelete}

	for _, kind := range model.AllKinds {
		for _, op := range ops {
			assert.False(t, policy.RequiresApproval(kind, op, model.RoleAdmin),
				"admin must not be gated for %s/%s", kind, op)
		}
	}
}

func TestDefaultPolicy_UserAlwaysGated(t *testing.T) {
	policy := approval.DefaultPolicy()
	ops := []approval.Operation{approval.OpCreate, approval.OpEdit, approval.OpDelete}

	for _, kind := range model.AllKinds {
		for _, op := range ops {
			assert.True(t, policy.RequiresApproval(kind, op, model.RoleUser),
				"user must be gated for %s/%s", kind, op)
		}
	}
}

func TestPolicyTable_SupportsTrustedTier(t *testing.T) {
	// The table shape allows ungating a single kind/op without code changes.
	policy := approval.DefaultPolicy()
	policy[model.KindPhoto][approval.OpCreate][model.RoleUser] = false

	assert.False(t, policy.RequiresApproval(model.KindPhoto, approval.OpCreate, model.RoleUser))
	assert.True(t, policy.RequiresApproval(model.KindPhoto, approval.OpEdit, model.RoleUser))
	assert.True(t, policy.RequiresApproval(model.KindTransaction, approval.OpCreate, model.RoleUser))
}

func TestPolicyTable_AdminShortCircuit(t *testing.T) {
	// Even a misconfigured table row cannot gate an admin.
	policy := approval.Table{
		model.KindTask: {approval.OpEdit: {model.RoleAdmin: true}},
	}
	assert.False(t, policy.RequiresApproval(model.KindTask, approval.OpEdit, model.RoleAdmin))
}

func TestPolicyTable_UnknownKindNotGated(t *testing.T) {
	policy := approval.Table{}
	assert.False(t, policy.RequiresApproval("unknown", approval.OpCreate, model.RoleUser))
}
