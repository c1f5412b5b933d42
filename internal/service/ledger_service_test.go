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

func newLedgerService(f *fixture) service.LedgerService {
	policy := approval.DefaultPolicy()
	gate := approval.NewGate[model.Ledger, *model.Ledger](f.db, policy, nil, nil)
	entryGate := approval.NewGate[model.JournalEntry, *model.JournalEntry](f.db, policy, nil, nil)
	return service.NewLedgerService(f.db, gate, entryGate, f.projects)
}

func TestLedger_BalanceCountsApprovedLinesOnly(t *testing.T) {
	f := newFixture(t)
	svc := newLedgerService(f)
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	ledger, err := svc.Create(ctx(), f.admin, service.CreateLedgerRequest{
		ProjectID:      f.project.ID,
		Name:           "Mehta Cement Supply",
		OpeningBalance: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	// Admin lines are canonical immediately
	_, err = svc.CreateEntry(ctx(), f.admin, ledger.ID, service.CreateJournalEntryRequest{
		Date: day, Credit: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx(), f.admin, ledger.ID, service.CreateJournalEntryRequest{
		Date: day, Debit: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	// Member line stays pending and must not move the balance
	pending, err := svc.CreateEntry(ctx(), f.member, ledger.ID, service.CreateJournalEntryRequest{
		Date: day, Credit: decimal.NewFromInt(9999),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingCreate, pending.ApprovalStatus)

	got, err := svc.Get(ctx(), f.admin, ledger.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1300).Equal(got.Balance), "1000 + 500 - 200, pending ignored")
}

func TestLedger_EntryRequiresExactlyOneSide(t *testing.T) {
	f := newFixture(t)
	svc := newLedgerService(f)
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	ledger, err := svc.Create(ctx(), f.admin, service.CreateLedgerRequest{
		ProjectID: f.project.ID, Name: "Labour Contractor",
	})
	require.NoError(t, err)

	_, err = svc.CreateEntry(ctx(), f.admin, ledger.ID, service.CreateJournalEntryRequest{Date: day})
	require.Error(t, err, "neither side set")

	_, err = svc.CreateEntry(ctx(), f.admin, ledger.ID, service.CreateJournalEntryRequest{
		Date: day, Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(10),
	})
	require.Error(t, err, "both sides set")
}

func TestLedger_DeleteBlockedWhileLinesExist(t *testing.T) {
	f := newFixture(t)
	svc := newLedgerService(f)

	ledger, err := svc.Create(ctx(), f.admin, service.CreateLedgerRequest{
		ProjectID: f.project.ID, Name: "Hardware Store",
	})
	require.NoError(t, err)

	_, err = svc.CreateEntry(ctx(), f.admin, ledger.ID, service.CreateJournalEntryRequest{
		Date: time.Now(), Debit: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	_, err = svc.Delete(ctx(), f.admin, ledger.ID, "")
	require.Error(t, err)
}
