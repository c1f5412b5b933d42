package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/middleware"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/pagination"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/response"
)

type ApprovalHandler struct {
	approvals service.ApprovalService
}

func NewApprovalHandler(approvals service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

func (h *ApprovalHandler) RegisterRoutes(r *gin.RouterGroup) {
	approvals := r.Group("/approvals", middleware.RequireRole(model.RoleAdmin))
	{
		approvals.GET("", h.ListPending)
		approvals.GET("/counts", h.PendingCounts)
		approvals.PUT("/:kind/:id/approve", h.Approve)
		approvals.PUT("/:kind/:id/reject", h.Reject)
	}
}

// ListPending godoc
// @Summary      List pending submissions
// @Description  Without a kind the inbox merges every entity kind
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        kind   query  string  false  "Entity kind filter"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Page size"
// @Success      200  {object}  response.ListResponse
// @Router       /api/approvals [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	p := pagination.Parse(c)
	items, total, err := h.approvals.ListPending(c.Request.Context(), act, c.Query("kind"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, items, total, p.Page, p.Limit))
}

// PendingCounts godoc
// @Summary      Pending submission counts per kind
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/approvals/counts [get]
func (h *ApprovalHandler) PendingCounts(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	counts, err := h.approvals.PendingCounts(c.Request.Context(), act)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, counts))
}

// Approve godoc
// @Summary      Approve a pending submission
// @Description  Creates become visible, edit overlays are merged, deletes are executed
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind     path  string                   true   "Entity kind"
// @Param        id       path  string                   true   "Entity ID"
// @Param        request  body  service.DecisionRequest  false  "Optional remarks"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/approvals/{kind}/{id}/approve [put]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.decide(c, approval.DecisionApprove)
}

// Reject godoc
// @Summary      Reject a pending submission
// @Description  Discards the pending payload, records remarks and bumps the rejection count
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind     path  string                   true   "Entity kind"
// @Param        id       path  string                   true   "Entity ID"
// @Param        request  body  service.DecisionRequest  false  "Remarks for the submitter"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/approvals/{kind}/{id}/reject [put]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	h.decide(c, approval.DecisionReject)
}

func (h *ApprovalHandler) decide(c *gin.Context, decision approval.Decision) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.DecisionRequest
	_ = c.ShouldBindJSON(&req)

	item, deleted, err := h.approvals.Decide(c.Request.Context(), act, c.Param("kind"), id, decision, req.Remarks)
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "entity deleted"}))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}
