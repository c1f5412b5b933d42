package approval_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

func setupGateDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Transaction{},
		&model.Document{},
		&model.Material{},
		&model.MaterialLedgerEntry{},
		&model.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

var testOrg = uuid.New()

func adminActor() approval.Actor {
	return approval.Actor{ID: uuid.New(), OrganizationID: testOrg, Role: model.RoleAdmin}
}

func userActor() approval.Actor {
	return approval.Actor{ID: uuid.New(), OrganizationID: testOrg, Role: model.RoleUser}
}

func newTxGate(db *gorm.DB) *approval.Gate[model.Transaction, *model.Transaction] {
	return approval.NewGate[model.Transaction, *model.Transaction](db, approval.DefaultPolicy(), nil, nil)
}

func newTransaction(createdBy uuid.UUID) *model.Transaction {
	return &model.Transaction{
		OrganizationID: testOrg,
		ProjectID:      uuid.New(),
		Type:           model.TxTypeOut,
		Amount:         decimal.NewFromInt(2500),
		Category:       "cement",
		PartyName:      "Shree Suppliers",
		Description:    "50 bags OPC",
		Date:           time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CreatedBy:      createdBy,
	}
}

// Scenario A: non-admin create goes pending, admin approval makes it canonical.
func TestGate_UserCreateGoesPending(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	user := userActor()

	txn := newTransaction(user.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, user, "site purchase"))

	assert.Equal(t, model.StatusPendingCreate, txn.ApprovalStatus)
	assert.Empty(t, txn.PendingData, "create carries no overlay")
	require.NotNil(t, txn.SubmittedBy)
	assert.Equal(t, user.ID, *txn.SubmittedBy)
	assert.Equal(t, "site purchase", txn.RequestMessage)

	resolved, deleted, err := gate.Resolve(context.Background(), txn.ID, adminActor(), approval.DecisionApprove, "")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, model.StatusApproved, resolved.ApprovalStatus)
	assert.Empty(t, resolved.PendingData)
}

// Scenario B: admin mutations are applied immediately, never pending.
func TestGate_AdminEditAppliesDirectly(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()

	txn := newTransaction(admin.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, admin, ""))
	assert.Equal(t, model.StatusApproved, txn.ApprovalStatus)

	patch := json.RawMessage(`{"description":"60 bags OPC","amount":"3000"}`)
	updated, err := gate.SubmitEdit(context.Background(), txn.ID, admin, patch, "")
	require.NoError(t, err)

	assert.Equal(t, model.StatusApproved, updated.ApprovalStatus)
	assert.Empty(t, updated.PendingData)
	assert.Equal(t, "60 bags OPC", updated.Description)
	assert.True(t, decimal.NewFromInt(3000).Equal(updated.Amount))
}

// Scenario C: non-admin edit stores an overlay; rejection discards it and
// bumps the rejection count, canonical fields untouched throughout.
func TestGate_UserEditPendingThenRejected(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()
	user := userActor()

	txn := newTransaction(admin.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, admin, ""))

	patch := json.RawMessage(`{"description":"new text"}`)
	updated, err := gate.SubmitEdit(context.Background(), txn.ID, user, patch, "fixing description")
	require.NoError(t, err)

	assert.Equal(t, model.StatusPendingEdit, updated.ApprovalStatus)
	assert.JSONEq(t, `{"description":"new text"}`, updated.PendingData)
	assert.Equal(t, "50 bags OPC", updated.Description, "canonical field must stay untouched")

	resolved, deleted, err := gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionReject, "not descriptive enough")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, model.StatusRejected, resolved.ApprovalStatus)
	assert.Empty(t, resolved.PendingData)
	assert.Equal(t, "not descriptive enough", resolved.Remarks)
	assert.Equal(t, 1, resolved.RejectionCount)
	assert.Equal(t, "50 bags OPC", resolved.Description)
}

// Merge law: approving a pending edit yields {...old, ...pending}; keys
// absent from the overlay keep their canonical values.
func TestGate_ApproveEditMergesOverlay(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()
	user := userActor()

	txn := newTransaction(admin.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, admin, ""))

	patch := json.RawMessage(`{"amount":"4200.5","party_name":"New Suppliers"}`)
	_, err := gate.SubmitEdit(context.Background(), txn.ID, user, patch, "")
	require.NoError(t, err)

	resolved, _, err := gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionApprove, "")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("4200.5").Equal(resolved.Amount))
	assert.Equal(t, "New Suppliers", resolved.PartyName)
	assert.Equal(t, "50 bags OPC", resolved.Description, "untouched key keeps canonical value")
	assert.Equal(t, "cement", resolved.Category)
	assert.Equal(t, model.StatusApproved, resolved.ApprovalStatus)
	assert.Empty(t, resolved.PendingData)
}

func TestGate_PatchCannotTouchProtectedFields(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()
	user := userActor()

	txn := newTransaction(admin.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, admin, ""))

	patch := json.RawMessage(`{"rejection_count":99,"organization_id":"` + uuid.NewString() + `","description":"ok"}`)
	updated, err := gate.SubmitEdit(context.Background(), txn.ID, user, patch, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"ok"}`, updated.PendingData)

	resolved, _, err := gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, 0, resolved.RejectionCount)
	assert.Equal(t, testOrg, resolved.OrganizationID)
	assert.Equal(t, "ok", resolved.Description)
}

func TestGate_PendingDelete(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()
	user := userActor()

	txn := newTransaction(admin.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, admin, ""))

	deleted, err := gate.SubmitDelete(context.Background(), txn.ID, user, "duplicate entry")
	require.NoError(t, err)
	assert.False(t, deleted, "non-admin delete must defer")

	var stored model.Transaction
	require.NoError(t, db.First(&stored, "id = ?", txn.ID).Error)
	assert.Equal(t, model.StatusPendingDelete, stored.ApprovalStatus)
	assert.Empty(t, stored.PendingData, "pending delete has no overlay payload")

	_, removed, err := gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionApprove, "")
	require.NoError(t, err)
	assert.True(t, removed)

	err = db.First(&model.Transaction{}, "id = ?", txn.ID).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGate_RejectDeleteKeepsRow(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()
	user := userActor()

	txn := newTransaction(admin.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, admin, ""))
	_, err := gate.SubmitDelete(context.Background(), txn.ID, user, "")
	require.NoError(t, err)

	resolved, deleted, err := gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionReject, "still needed")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, model.StatusRejected, resolved.ApprovalStatus)
	assert.Equal(t, 1, resolved.RejectionCount)
	assert.Equal(t, "50 bags OPC", resolved.Description)
}

// Rejecting a pending create keeps the row, flagged REJECTED. Pinned
// behavior awaiting product review.
func TestGate_RejectCreateKeepsRow(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	user := userActor()

	txn := newTransaction(user.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, user, ""))

	resolved, deleted, err := gate.Resolve(context.Background(), txn.ID, adminActor(), approval.DecisionReject, "wrong project")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, model.StatusRejected, resolved.ApprovalStatus)
	assert.Equal(t, 1, resolved.RejectionCount)

	var stored model.Transaction
	require.NoError(t, db.First(&stored, "id = ?", txn.ID).Error)
	assert.Equal(t, model.StatusRejected, stored.ApprovalStatus)
}

// Reject with empty remarks is a valid "no reason given" state.
func TestGate_RejectWithoutRemarks(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	user := userActor()

	txn := newTransaction(user.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, user, ""))

	resolved, _, err := gate.Resolve(context.Background(), txn.ID, adminActor(), approval.DecisionReject, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, resolved.ApprovalStatus)
	assert.Empty(t, resolved.Remarks)
}

// Idempotence: a second decision on an already-resolved entity fails.
func TestGate_DoubleResolveFails(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()
	user := userActor()

	txn := newTransaction(user.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, user, ""))

	_, _, err := gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionApprove, "")
	require.NoError(t, err)

	_, _, err = gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionApprove, "")
	assert.True(t, errors.Is(err, approval.ErrInvalidState))

	_, _, err = gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionReject, "")
	assert.True(t, errors.Is(err, approval.ErrInvalidState))
}

func TestGate_ResolveRequiresAdmin(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	user := userActor()

	txn := newTransaction(user.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, user, ""))

	_, _, err := gate.Resolve(context.Background(), txn.ID, user, approval.DecisionApprove, "")
	assert.True(t, errors.Is(err, approval.ErrForbidden))
}

// A rejected entity can be resubmitted; rejection counts accumulate one per
// reject across independent submissions.
func TestGate_ResubmitAfterReject(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()
	user := userActor()

	txn := newTransaction(admin.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, admin, ""))

	for i := 1; i <= 2; i++ {
		_, err := gate.SubmitEdit(context.Background(), txn.ID, user, json.RawMessage(`{"description":"attempt"}`), "")
		require.NoError(t, err)
		resolved, _, err := gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionReject, "no")
		require.NoError(t, err)
		assert.Equal(t, i, resolved.RejectionCount)
	}

	// Still below the threshold: resubmission allowed.
	updated, err := gate.SubmitEdit(context.Background(), txn.ID, user, json.RawMessage(`{"description":"third attempt"}`), "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingEdit, updated.ApprovalStatus)
}

// Scenario D, strengthened variant: the gate re-checks the lock itself.
func TestGate_LockedEntityRejectsSubmission(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()
	user := userActor()

	txn := newTransaction(admin.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, admin, ""))

	for i := 0; i < model.RejectionLockThreshold; i++ {
		_, err := gate.SubmitEdit(context.Background(), txn.ID, user, json.RawMessage(`{"description":"x"}`), "")
		require.NoError(t, err)
		_, _, err = gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionReject, "no")
		require.NoError(t, err)
	}

	_, err := gate.SubmitEdit(context.Background(), txn.ID, user, json.RawMessage(`{"description":"y"}`), "")
	assert.True(t, errors.Is(err, approval.ErrLocked))

	_, err = gate.SubmitDelete(context.Background(), txn.ID, user, "")
	assert.True(t, errors.Is(err, approval.ErrLocked))

	// Admins are unaffected by the lock.
	updated, err := gate.SubmitEdit(context.Background(), txn.ID, admin, json.RawMessage(`{"description":"admin override"}`), "")
	require.NoError(t, err)
	assert.Equal(t, "admin override", updated.Description)
}

func TestLocked_Threshold(t *testing.T) {
	txn := &model.Transaction{}

	txn.RejectionCount = 2
	assert.False(t, approval.Locked(txn, model.RoleUser))

	txn.RejectionCount = 3
	assert.True(t, approval.Locked(txn, model.RoleUser))
	assert.False(t, approval.Locked(txn, model.RoleAdmin))

	txn.RejectionCount = 7
	assert.True(t, approval.Locked(txn, model.RoleUser))
	assert.False(t, approval.Locked(txn, model.RoleAdmin))
}

// The gate never loads rows outside the actor's organization.
func TestGate_OrganizationIsolation(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()

	txn := newTransaction(admin.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, admin, ""))

	outsider := approval.Actor{ID: uuid.New(), OrganizationID: uuid.New(), Role: model.RoleAdmin}

	_, err := gate.SubmitEdit(context.Background(), txn.ID, outsider, json.RawMessage(`{"description":"x"}`), "")
	assert.True(t, errors.Is(err, approval.ErrNotFound))

	_, _, err = gate.Resolve(context.Background(), txn.ID, outsider, approval.DecisionApprove, "")
	assert.True(t, errors.Is(err, approval.ErrNotFound))
}

func TestGate_ListPending(t *testing.T) {
	db := setupGateDB(t)
	gate := newTxGate(db)
	admin := adminActor()
	user := userActor()

	require.NoError(t, gate.SubmitCreate(context.Background(), newTransaction(admin.ID), admin, ""))
	for i := 0; i < 3; i++ {
		require.NoError(t, gate.SubmitCreate(context.Background(), newTransaction(user.ID), user, ""))
	}

	items, total, err := gate.ListPending(context.Background(), testOrg, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, model.StatusPendingCreate, item.ApprovalStatus)
	}
}

type failingAuditor struct{}

func (failingAuditor) LogAction(context.Context, approval.AuditEntry) error {
	return errors.New("audit sink down")
}

// Audit logging is best-effort; a failing sink never fails the mutation.
func TestGate_AuditFailureDoesNotBlockWrite(t *testing.T) {
	db := setupGateDB(t)
	gate := approval.NewGate[model.Transaction, *model.Transaction](db, approval.DefaultPolicy(), failingAuditor{}, nil)
	user := userActor()

	txn := newTransaction(user.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, user, ""))

	var stored model.Transaction
	require.NoError(t, db.First(&stored, "id = ?", txn.ID).Error)
	assert.Equal(t, model.StatusPendingCreate, stored.ApprovalStatus)
}

type recordingNotifier struct {
	events []approval.Event
}

func (n *recordingNotifier) Publish(event approval.Event) {
	n.events = append(n.events, event)
}

func TestGate_PublishesEvents(t *testing.T) {
	db := setupGateDB(t)
	notifier := &recordingNotifier{}
	gate := approval.NewGate[model.Transaction, *model.Transaction](db, approval.DefaultPolicy(), nil, notifier)
	admin := adminActor()
	user := userActor()

	txn := newTransaction(user.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, user, ""))
	_, _, err := gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionApprove, "")
	require.NoError(t, err)

	require.Len(t, notifier.events, 2)
	assert.Equal(t, approval.EventSubmitted, notifier.events[0].Type)
	assert.Equal(t, model.StatusPendingCreate, notifier.events[0].Status)
	assert.Equal(t, testOrg, notifier.events[0].OrganizationID)
	assert.Equal(t, approval.EventResolved, notifier.events[1].Type)
	assert.Equal(t, model.StatusApproved, notifier.events[1].Status)
	assert.Equal(t, testOrg, notifier.events[1].OrganizationID)
}

// An approved pending-delete removes the row; the resolved event must say so
// instead of echoing the stale PENDING_DELETE state.
func TestGate_ApprovedDeletePublishesDeletedStatus(t *testing.T) {
	db := setupGateDB(t)
	notifier := &recordingNotifier{}
	gate := approval.NewGate[model.Transaction, *model.Transaction](db, approval.DefaultPolicy(), nil, notifier)
	admin := adminActor()
	user := userActor()

	txn := newTransaction(admin.ID)
	require.NoError(t, gate.SubmitCreate(context.Background(), txn, admin, ""))

	removed, err := gate.SubmitDelete(context.Background(), txn.ID, user, "duplicate entry")
	require.NoError(t, err)
	assert.False(t, removed)

	_, deleted, err := gate.Resolve(context.Background(), txn.ID, admin, approval.DecisionApprove, "")
	require.NoError(t, err)
	require.True(t, deleted)

	last := notifier.events[len(notifier.events)-1]
	assert.Equal(t, approval.EventResolved, last.Type)
	assert.Equal(t, approval.StatusDeleted, last.Status)
	assert.Equal(t, txn.ID, last.EntityID)
}

func TestGate_ProtectFields(t *testing.T) {
	db := setupGateDB(t)
	gate := approval.NewGate[model.Material, *model.Material](db, approval.DefaultPolicy(), nil, nil).
		ProtectFields("current_stock")
	admin := adminActor()
	user := userActor()

	mat := &model.Material{
		OrganizationID: testOrg,
		ProjectID:      uuid.New(),
		Name:           "Cement",
		Unit:           "bag",
		CurrentStock:   decimal.NewFromInt(10),
		CreatedBy:      admin.ID,
	}
	require.NoError(t, gate.SubmitCreate(context.Background(), mat, admin, ""))

	patch := json.RawMessage(`{"current_stock":"999","name":"OPC Cement"}`)
	updated, err := gate.SubmitEdit(context.Background(), mat.ID, user, patch, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"OPC Cement"}`, updated.PendingData)
}
