package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
)

func newMaterialService(f *fixture) (service.MaterialService, *approval.Gate[model.MaterialLedgerEntry, *model.MaterialLedgerEntry]) {
	policy := approval.DefaultPolicy()
	gate := approval.NewGate[model.Material, *model.Material](f.db, policy, nil, nil)
	entryGate := approval.NewGate[model.MaterialLedgerEntry, *model.MaterialLedgerEntry](f.db, policy, nil, nil)
	return service.NewMaterialService(f.db, gate, entryGate, f.projects), entryGate
}

func entryRequest(kind string, qty int64) service.CreateMaterialEntryRequest {
	return service.CreateMaterialEntryRequest{
		Type:     kind,
		Quantity: decimal.NewFromInt(qty),
		Rate:     decimal.NewFromInt(350),
		Date:     time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestMaterial_AdminEntryMovesStockImmediately(t *testing.T) {
	f := newFixture(t)
	svc, _ := newMaterialService(f)

	material, err := svc.Create(ctx(), f.admin, service.CreateMaterialRequest{
		ProjectID: f.project.ID, Name: "Cement", Unit: "bag",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, material.ApprovalStatus)

	_, err = svc.CreateEntry(ctx(), f.admin, material.ID, entryRequest(model.MaterialEntryIn, 100))
	require.NoError(t, err)

	reloaded, err := svc.Get(ctx(), f.admin, material.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(reloaded.CurrentStock))
}

func TestMaterial_MemberEntryWaitsForApproval(t *testing.T) {
	f := newFixture(t)
	svc, entryGate := newMaterialService(f)

	material, err := svc.Create(ctx(), f.admin, service.CreateMaterialRequest{
		ProjectID: f.project.ID, Name: "Steel", Unit: "kg",
	})
	require.NoError(t, err)

	entry, err := svc.CreateEntry(ctx(), f.member, material.ID, entryRequest(model.MaterialEntryIn, 500))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingCreate, entry.ApprovalStatus)

	// Stock untouched while the entry is pending
	reloaded, err := svc.Get(ctx(), f.admin, material.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentStock.IsZero())

	_, _, err = entryGate.Resolve(ctx(), entry.ID, f.admin, approval.DecisionApprove, "")
	require.NoError(t, err)

	reloaded, err = svc.Get(ctx(), f.admin, material.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(reloaded.CurrentStock), "approval applies the movement")
}

func TestMaterial_InsufficientStockRejected(t *testing.T) {
	f := newFixture(t)
	svc, _ := newMaterialService(f)

	material, err := svc.Create(ctx(), f.admin, service.CreateMaterialRequest{
		ProjectID: f.project.ID, Name: "Sand", Unit: "ton",
	})
	require.NoError(t, err)

	_, err = svc.CreateEntry(ctx(), f.admin, material.ID, entryRequest(model.MaterialEntryIn, 10))
	require.NoError(t, err)

	_, err = svc.CreateEntry(ctx(), f.admin, material.ID, entryRequest(model.MaterialEntryOut, 25))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")

	// Failed movement rolled back entirely: stock intact, no entry row
	reloaded, err := svc.Get(ctx(), f.admin, material.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(reloaded.CurrentStock))

	var count int64
	f.db.Model(&model.MaterialLedgerEntry{}).Where("material_id = ?", material.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestMaterial_DeleteEntryReversesStock(t *testing.T) {
	f := newFixture(t)
	svc, _ := newMaterialService(f)

	material, err := svc.Create(ctx(), f.admin, service.CreateMaterialRequest{
		ProjectID: f.project.ID, Name: "Bricks", Unit: "pc",
	})
	require.NoError(t, err)

	entry, err := svc.CreateEntry(ctx(), f.admin, material.ID, entryRequest(model.MaterialEntryIn, 1000))
	require.NoError(t, err)

	deleted, err := svc.DeleteEntry(ctx(), f.admin, entry.ID, "")
	require.NoError(t, err)
	assert.True(t, deleted)

	reloaded, err := svc.Get(ctx(), f.admin, material.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentStock.IsZero())
}

func TestMaterial_CurrentStockCannotBePatched(t *testing.T) {
	f := newFixture(t)
	svc, _ := newMaterialService(f)

	material, err := svc.Create(ctx(), f.admin, service.CreateMaterialRequest{
		ProjectID: f.project.ID, Name: "Paint", Unit: "ltr",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx(), f.admin, material.ID, []byte(`{"name":"Emulsion Paint","current_stock":"9999"}`), "")
	require.NoError(t, err)
	assert.Equal(t, "Emulsion Paint", updated.Name)
	assert.True(t, updated.CurrentStock.IsZero(), "derived column ignores patches")
}

func TestMaterial_DeleteBlockedWhileEntriesExist(t *testing.T) {
	f := newFixture(t)
	svc, _ := newMaterialService(f)

	material, err := svc.Create(ctx(), f.admin, service.CreateMaterialRequest{
		ProjectID: f.project.ID, Name: "Gravel", Unit: "ton",
	})
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx(), f.admin, material.ID, entryRequest(model.MaterialEntryIn, 5))
	require.NoError(t, err)

	_, err = svc.Delete(ctx(), f.admin, material.ID, "")
	require.Error(t, err)
}

func TestMaterial_OutsiderDenied(t *testing.T) {
	f := newFixture(t)
	svc, _ := newMaterialService(f)

	material, err := svc.Create(ctx(), f.admin, service.CreateMaterialRequest{
		ProjectID: f.project.ID, Name: "Cement", Unit: "bag",
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx(), f.outsider(), material.ID)
	assert.ErrorIs(t, err, approval.ErrForbidden)
}
