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

func TestDashboard_ApprovedRowsOnly(t *testing.T) {
	f := newFixture(t)
	policy := approval.DefaultPolicy()
	txGate := approval.NewGate[model.Transaction, *model.Transaction](f.db, policy, nil, nil)
	transactions := service.NewTransactionService(f.db, txGate, f.projects)
	dashboard := service.NewDashboardService(f.db, f.projects)
	day := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	// Canonical: 5000 in, 1800 out
	_, err := transactions.Create(ctx(), f.admin, service.CreateTransactionRequest{
		ProjectID: f.project.ID, Type: model.TxTypeIn, Amount: decimal.NewFromInt(5000), Date: day,
	})
	require.NoError(t, err)
	_, err = transactions.Create(ctx(), f.admin, service.CreateTransactionRequest{
		ProjectID: f.project.ID, Type: model.TxTypeOut, Amount: decimal.NewFromInt(1800), Date: day,
	})
	require.NoError(t, err)

	// Pending: must not count toward totals, must count as pending
	_, err = transactions.Create(ctx(), f.member, service.CreateTransactionRequest{
		ProjectID: f.project.ID, Type: model.TxTypeOut, Amount: decimal.NewFromInt(700), Date: day,
	})
	require.NoError(t, err)

	dash, err := dashboard.ProjectDashboard(ctx(), f.admin, f.project.ID)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(5000).Equal(dash.TotalIn))
	assert.True(t, decimal.NewFromInt(1800).Equal(dash.TotalOut))
	assert.True(t, decimal.NewFromInt(3200).Equal(dash.NetCashflow))
	assert.EqualValues(t, 1, dash.PendingApprovals)
	assert.EqualValues(t, 1, dash.PendingApprovalsByKind[model.KindTransaction])
}

func TestDashboard_LabourAndOutstanding(t *testing.T) {
	f := newFixture(t)
	policy := approval.DefaultPolicy()
	recGate := approval.NewGate[model.Recordable, *model.Recordable](f.db, policy, nil, nil)
	hajariGate := approval.NewGate[model.Hajari, *model.Hajari](f.db, policy, nil, nil)
	recordables := service.NewRecordableService(f.db, recGate, f.projects)
	hajari := service.NewHajariService(f.db, hajariGate, f.projects)
	dashboard := service.NewDashboardService(f.db, f.projects)
	day := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)

	_, err := recordables.Create(ctx(), f.admin, service.CreateRecordableRequest{
		ProjectID: f.project.ID, Kind: model.RecordableReceivable, PartyName: "Client A", Amount: decimal.NewFromInt(40000),
	})
	require.NoError(t, err)
	_, err = recordables.Create(ctx(), f.admin, service.CreateRecordableRequest{
		ProjectID: f.project.ID, Kind: model.RecordablePayable, PartyName: "Supplier B", Amount: decimal.NewFromInt(15000),
	})
	require.NoError(t, err)

	// Two labourers, one full day at 800 and one half day at 600
	_, err = hajari.Create(ctx(), f.admin, service.CreateHajariRequest{
		ProjectID: f.project.ID, LabourName: "Ram", Date: day,
		Units: decimal.NewFromInt(1), Wage: decimal.NewFromInt(800),
	})
	require.NoError(t, err)
	_, err = hajari.Create(ctx(), f.admin, service.CreateHajariRequest{
		ProjectID: f.project.ID, LabourName: "Shyam", Date: day,
		Units: decimal.NewFromFloat(0.5), Wage: decimal.NewFromInt(600),
	})
	require.NoError(t, err)

	dash, err := dashboard.ProjectDashboard(ctx(), f.admin, f.project.ID)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(40000).Equal(dash.OutstandingReceivable))
	assert.True(t, decimal.NewFromInt(15000).Equal(dash.OutstandingPayable))
	assert.True(t, decimal.NewFromFloat(1.5).Equal(dash.LabourUnits))
	assert.True(t, decimal.NewFromInt(1100).Equal(dash.LabourWages), "1*800 + 0.5*600")
}

func TestDashboard_RequiresProjectAccess(t *testing.T) {
	f := newFixture(t)
	dashboard := service.NewDashboardService(f.db, f.projects)

	_, err := dashboard.ProjectDashboard(ctx(), f.outsider(), f.project.ID)
	assert.ErrorIs(t, err, approval.ErrForbidden)
}
