package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/middleware"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/pagination"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/response"
)

type AuditHandler struct {
	audits service.AuditService
}

func NewAuditHandler(audits service.AuditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

func (h *AuditHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit-logs", middleware.RequireRole(model.RoleAdmin), h.List)
}

// List godoc
// @Summary      List the organization's audit trail
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  response.ListResponse
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	p := pagination.Parse(c)
	logs, total, err := h.audits.List(c.Request.Context(), act, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, total, p.Page, p.Limit))
}
