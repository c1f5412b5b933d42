package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/pagination"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/response"
)

type RecordableHandler struct {
	recordables service.RecordableService
}

func NewRecordableHandler(recordables service.RecordableService) *RecordableHandler {
	return &RecordableHandler{recordables: recordables}
}

func (h *RecordableHandler) RegisterRoutes(r *gin.RouterGroup) {
	rec := r.Group("/recordables")
	{
		rec.POST("", h.Create)
		rec.GET("", h.List)
		rec.GET("/:id", h.Get)
		rec.PUT("/:id", h.Update)
		rec.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary      Record a receivable or payable
// @Tags         recordables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  service.CreateRecordableRequest  true  "Recordable payload"
// @Success      201  {object}  response.Response
// @Router       /api/recordables [post]
func (h *RecordableHandler) Create(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	var req service.CreateRecordableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	rec, err := h.recordables.Create(c.Request.Context(), act, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rec))
}

// List godoc
// @Summary      List recordables of a project
// @Tags         recordables
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query  string  true   "Project ID"
// @Param        kind        query  string  false  "RECEIVABLE or PAYABLE"
// @Param        settled     query  bool    false  "Settlement filter"
// @Success      200  {object}  response.ListResponse
// @Router       /api/recordables [get]
func (h *RecordableHandler) List(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "project_id query parameter is required"))
		return
	}

	filter := service.RecordableFilter{
		ProjectID: projectID,
		Kind:      c.Query("kind"),
	}
	if raw := c.Query("settled"); raw != "" {
		if settled, err := strconv.ParseBool(raw); err == nil {
			filter.Settled = &settled
		}
	}

	p := pagination.Parse(c)
	rows, total, err := h.recordables.List(c.Request.Context(), act, filter, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, total, p.Page, p.Limit))
}

// Get godoc
// @Summary      Get a recordable
// @Tags         recordables
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Recordable ID"
// @Success      200  {object}  response.Response
// @Router       /api/recordables/{id} [get]
func (h *RecordableHandler) Get(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	rec, err := h.recordables.Get(c.Request.Context(), act, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

// Update godoc
// @Summary      Edit a recordable (including settling it)
// @Tags         recordables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Recordable ID"
// @Success      200  {object}  response.Response
// @Router       /api/recordables/{id} [put]
func (h *RecordableHandler) Update(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	patch, message, ok := editPayload(c)
	if !ok {
		return
	}

	rec, err := h.recordables.Update(c.Request.Context(), act, id, patch, message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

// Delete godoc
// @Summary      Delete a recordable
// @Tags         recordables
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Recordable ID"
// @Success      200  {object}  response.Response
// @Router       /api/recordables/{id} [delete]
func (h *RecordableHandler) Delete(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.recordables.Delete(c.Request.Context(), act, id, deleteMessage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "recordable deleted"}))
		return
	}
	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, gin.H{"message": "deletion submitted for approval"}))
}
