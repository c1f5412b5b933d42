package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
)

type inboxFixture struct {
	*fixture
	transactions service.TransactionService
	tasks        service.TaskService
	approvals    service.ApprovalService
}

func newInboxFixture(t *testing.T) *inboxFixture {
	f := newFixture(t)
	policy := approval.DefaultPolicy()
	txGate := approval.NewGate[model.Transaction, *model.Transaction](f.db, policy, nil, nil)
	taskGate := approval.NewGate[model.Task, *model.Task](f.db, policy, nil, nil)

	registry := approval.Registry{}
	registry.Add(txGate)
	registry.Add(taskGate)

	return &inboxFixture{
		fixture:      f,
		transactions: service.NewTransactionService(f.db, txGate, f.projects),
		tasks:        service.NewTaskService(f.db, taskGate, f.projects),
		approvals:    service.NewApprovalService(registry),
	}
}

func (f *inboxFixture) submitPendingTx(t *testing.T) *model.Transaction {
	txn, err := f.transactions.Create(ctx(), f.member, service.CreateTransactionRequest{
		ProjectID: f.project.ID,
		Type:      model.TxTypeOut,
		Amount:    decimal.NewFromInt(1200),
		Date:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusPendingCreate, txn.ApprovalStatus)
	return txn
}

func TestApprovals_InboxMergesKinds(t *testing.T) {
	f := newInboxFixture(t)

	f.submitPendingTx(t)
	_, err := f.tasks.Create(ctx(), f.member, service.CreateTaskRequest{
		ProjectID: f.project.ID,
		Title:     "Pour slab on block C",
	})
	require.NoError(t, err)

	items, total, err := f.approvals.ListPending(ctx(), f.admin, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	kinds := map[string]bool{}
	for _, item := range items {
		kinds[item.Kind] = true
	}
	assert.True(t, kinds[model.KindTransaction])
	assert.True(t, kinds[model.KindTask])

	// Kind filter narrows the queue
	items, total, err = f.approvals.ListPending(ctx(), f.admin, model.KindTask, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, model.KindTask, items[0].Kind)
}

func TestApprovals_DecideByKind(t *testing.T) {
	f := newInboxFixture(t)
	txn := f.submitPendingTx(t)

	item, deleted, err := f.approvals.Decide(ctx(), f.admin, model.KindTransaction, txn.ID, approval.DecisionApprove, "")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, model.StatusApproved, item.ApprovalStatus)
}

func TestApprovals_UnknownKind(t *testing.T) {
	f := newInboxFixture(t)

	_, _, err := f.approvals.Decide(ctx(), f.admin, "widgets", uuid.New(), approval.DecisionApprove, "")
	assert.ErrorIs(t, err, service.ErrUnknownKind)
}

func TestApprovals_InboxIsAdminOnly(t *testing.T) {
	f := newInboxFixture(t)

	_, _, err := f.approvals.ListPending(ctx(), f.member, "", 1, 20)
	assert.ErrorIs(t, err, approval.ErrForbidden)

	txn := f.submitPendingTx(t)
	_, _, err = f.approvals.Decide(ctx(), f.member, model.KindTransaction, txn.ID, approval.DecisionApprove, "")
	assert.ErrorIs(t, err, approval.ErrForbidden)
}

func TestApprovals_PendingCounts(t *testing.T) {
	f := newInboxFixture(t)

	f.submitPendingTx(t)
	f.submitPendingTx(t)

	counts, err := f.approvals.PendingCounts(ctx(), f.admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[model.KindTransaction])
	assert.EqualValues(t, 0, counts[model.KindTask])
}
