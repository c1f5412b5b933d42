package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/pagination"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/response"
)

type HajariHandler struct {
	hajari service.HajariService
}

func NewHajariHandler(hajari service.HajariService) *HajariHandler {
	return &HajariHandler{hajari: hajari}
}

func (h *HajariHandler) RegisterRoutes(r *gin.RouterGroup) {
	hajari := r.Group("/hajari")
	{
		hajari.POST("", h.Create)
		hajari.GET("", h.List)
		hajari.GET("/:id", h.Get)
		hajari.PUT("/:id", h.Update)
		hajari.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary      Record labour attendance
// @Tags         hajari
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  service.CreateHajariRequest  true  "Attendance payload"
// @Success      201  {object}  response.Response
// @Router       /api/hajari [post]
func (h *HajariHandler) Create(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	var req service.CreateHajariRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	record, err := h.hajari.Create(c.Request.Context(), act, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// List godoc
// @Summary      List attendance records of a project
// @Tags         hajari
// @Produce      json
// @Security     BearerAuth
// @Param        project_id   query  string  true   "Project ID"
// @Param        labour_name  query  string  false  "Labourer filter"
// @Param        from         query  string  false  "Start date (RFC3339)"
// @Param        to           query  string  false  "End date (RFC3339)"
// @Success      200  {object}  response.ListResponse
// @Router       /api/hajari [get]
func (h *HajariHandler) List(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "project_id query parameter is required"))
		return
	}

	filter := service.HajariFilter{
		ProjectID:  projectID,
		LabourName: c.Query("labour_name"),
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &t
		}
	}

	p := pagination.Parse(c)
	rows, total, err := h.hajari.List(c.Request.Context(), act, filter, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, total, p.Page, p.Limit))
}

// Get godoc
// @Summary      Get an attendance record
// @Tags         hajari
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Hajari ID"
// @Success      200  {object}  response.Response
// @Router       /api/hajari/{id} [get]
func (h *HajariHandler) Get(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	record, err := h.hajari.Get(c.Request.Context(), act, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// Update godoc
// @Summary      Edit an attendance record
// @Tags         hajari
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Hajari ID"
// @Success      200  {object}  response.Response
// @Router       /api/hajari/{id} [put]
func (h *HajariHandler) Update(c *gin.Context) {
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

	record, err := h.hajari.Update(c.Request.Context(), act, id, patch, message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// Delete godoc
// @Summary      Delete an attendance record
// @Tags         hajari
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Hajari ID"
// @Success      200  {object}  response.Response
// @Router       /api/hajari/{id} [delete]
func (h *HajariHandler) Delete(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.hajari.Delete(c.Request.Context(), act, id, deleteMessage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "record deleted"}))
		return
	}
	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, gin.H{"message": "deletion submitted for approval"}))
}
