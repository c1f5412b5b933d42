package service_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
)

func newTransactionService(f *fixture) service.TransactionService {
	gate := approval.NewGate[model.Transaction, *model.Transaction](f.db, approval.DefaultPolicy(), nil, nil)
	return service.NewTransactionService(f.db, gate, f.projects)
}

func TestTransaction_LockedFlagPerRole(t *testing.T) {
	f := newFixture(t)
	svc := newTransactionService(f)

	txn, err := svc.Create(ctx(), f.admin, service.CreateTransactionRequest{
		ProjectID: f.project.ID,
		Type:      model.TxTypeOut,
		Amount:    decimal.NewFromInt(500),
		Date:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.False(t, txn.Locked, "fresh entity is never locked")

	// Below the threshold the flag stays down for everyone
	require.NoError(t, f.db.Model(&model.Transaction{}).
		Where("id = ?", txn.ID).
		Update("rejection_count", model.RejectionLockThreshold-1).Error)

	got, err := svc.Get(ctx(), f.member, txn.ID)
	require.NoError(t, err)
	assert.False(t, got.Locked)

	// At the threshold it flips for role user, never for admins
	require.NoError(t, f.db.Model(&model.Transaction{}).
		Where("id = ?", txn.ID).
		Update("rejection_count", model.RejectionLockThreshold).Error)

	got, err = svc.Get(ctx(), f.member, txn.ID)
	require.NoError(t, err)
	assert.True(t, got.Locked)

	payload, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"locked":true`)

	got, err = svc.Get(ctx(), f.admin, txn.ID)
	require.NoError(t, err)
	assert.False(t, got.Locked)
}

func TestTransaction_ListCarriesLockedFlag(t *testing.T) {
	f := newFixture(t)
	svc := newTransactionService(f)

	txn, err := svc.Create(ctx(), f.admin, service.CreateTransactionRequest{
		ProjectID: f.project.ID,
		Type:      model.TxTypeIn,
		Amount:    decimal.NewFromInt(1200),
		Date:      time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&model.Transaction{}).
		Where("id = ?", txn.ID).
		Update("rejection_count", model.RejectionLockThreshold).Error)

	rows, _, err := svc.List(ctx(), f.member, service.TransactionFilter{ProjectID: f.project.ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Locked)

	rows, _, err = svc.List(ctx(), f.admin, service.TransactionFilter{ProjectID: f.project.ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Locked)
}
