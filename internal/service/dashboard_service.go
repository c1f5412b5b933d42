package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

// DashboardResponse aggregates a project's financial and operational state.
// Every figure counts approved (canonical) rows only.
type DashboardResponse struct {
	TotalIn                decimal.Decimal `json:"total_in"`
	TotalOut               decimal.Decimal `json:"total_out"`
	NetCashflow            decimal.Decimal `json:"net_cashflow"`
	OutstandingReceivable  decimal.Decimal `json:"outstanding_receivable"`
	OutstandingPayable     decimal.Decimal `json:"outstanding_payable"`
	OpenTasks              int64           `json:"open_tasks"`
	LabourUnits            decimal.Decimal `json:"labour_units"`
	LabourWages            decimal.Decimal `json:"labour_wages"`
	StockValue             decimal.Decimal `json:"stock_value"`
	PendingApprovals       int64           `json:"pending_approvals"`
	PendingApprovalsByKind map[string]int64 `json:"pending_approvals_by_kind"`
}

// DashboardService computes per-project aggregates for the overview screen.
type DashboardService interface {
	ProjectDashboard(ctx context.Context, actor approval.Actor, projectID uuid.UUID) (*DashboardResponse, error)
}

type dashboardService struct {
	db       *gorm.DB
	projects ProjectService
}

// NewDashboardService returns a new instance of DashboardService
func NewDashboardService(db *gorm.DB, projects ProjectService) DashboardService {
	return &dashboardService{db: db, projects: projects}
}

var pendingStatuses = []string{model.StatusPendingCreate, model.StatusPendingEdit, model.StatusPendingDelete}

func (s *dashboardService) ProjectDashboard(ctx context.Context, actor approval.Actor, projectID uuid.UUID) (*DashboardResponse, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, projectID); err != nil {
		return nil, err
	}

	resp := &DashboardResponse{PendingApprovalsByKind: map[string]int64{}}
	db := s.db.WithContext(ctx)

	var amount struct{ Total decimal.Decimal }

	err := db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("project_id = ? AND type = ? AND approval_status = ?", projectID, model.TxTypeIn, model.StatusApproved).
		Scan(&amount).Error
	if err != nil {
		return nil, err
	}
	resp.TotalIn = amount.Total

	err = db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("project_id = ? AND type = ? AND approval_status = ?", projectID, model.TxTypeOut, model.StatusApproved).
		Scan(&amount).Error
	if err != nil {
		return nil, err
	}
	resp.TotalOut = amount.Total
	resp.NetCashflow = resp.TotalIn.Sub(resp.TotalOut)

	err = db.Model(&model.Recordable{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("project_id = ? AND kind = ? AND settled = ? AND approval_status = ?",
			projectID, model.RecordableReceivable, false, model.StatusApproved).
		Scan(&amount).Error
	if err != nil {
		return nil, err
	}
	resp.OutstandingReceivable = amount.Total

	err = db.Model(&model.Recordable{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("project_id = ? AND kind = ? AND settled = ? AND approval_status = ?",
			projectID, model.RecordablePayable, false, model.StatusApproved).
		Scan(&amount).Error
	if err != nil {
		return nil, err
	}
	resp.OutstandingPayable = amount.Total

	err = db.Model(&model.Task{}).
		Where("project_id = ? AND status <> ? AND approval_status = ?", projectID, model.TaskDone, model.StatusApproved).
		Count(&resp.OpenTasks).Error
	if err != nil {
		return nil, err
	}

	var labour struct {
		Units decimal.Decimal
		Wages decimal.Decimal
	}
	err = db.Model(&model.Hajari{}).
		Select("COALESCE(SUM(units), 0) AS units, COALESCE(SUM(units * wage), 0) AS wages").
		Where("project_id = ? AND approval_status = ?", projectID, model.StatusApproved).
		Scan(&labour).Error
	if err != nil {
		return nil, err
	}
	resp.LabourUnits = labour.Units
	resp.LabourWages = labour.Wages

	// Inventory at cost: approved IN movements minus approved OUT movements
	var stock struct {
		StockIn  decimal.Decimal
		StockOut decimal.Decimal
	}
	err = db.Model(&model.MaterialLedgerEntry{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN quantity * rate ELSE 0 END), 0) AS stock_in, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN quantity * rate ELSE 0 END), 0) AS stock_out",
			model.MaterialEntryIn, model.MaterialEntryOut).
		Where("project_id = ? AND approval_status = ?", projectID, model.StatusApproved).
		Scan(&stock).Error
	if err != nil {
		return nil, err
	}
	resp.StockValue = stock.StockIn.Sub(stock.StockOut)

	pendingCounts := []struct {
		kind  string
		table interface{}
	}{
		{model.KindTransaction, &model.Transaction{}},
		{model.KindRecordable, &model.Recordable{}},
		{model.KindTask, &model.Task{}},
		{model.KindDocument, &model.Document{}},
		{model.KindPhoto, &model.Photo{}},
		{model.KindHajari, &model.Hajari{}},
		{model.KindMaterial, &model.Material{}},
		{model.KindMaterialEntry, &model.MaterialLedgerEntry{}},
		{model.KindLedger, &model.Ledger{}},
		{model.KindJournalEntry, &model.JournalEntry{}},
	}
	for _, pc := range pendingCounts {
		var count int64
		err = db.Model(pc.table).
			Where("project_id = ? AND approval_status IN ?", projectID, pendingStatuses).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count > 0 {
			resp.PendingApprovalsByKind[pc.kind] = count
		}
		resp.PendingApprovals += count
	}

	return resp, nil
}
