package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/pagination"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/response"
)

type MaterialHandler struct {
	materials service.MaterialService
}

func NewMaterialHandler(materials service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materials: materials}
}

func (h *MaterialHandler) RegisterRoutes(r *gin.RouterGroup) {
	materials := r.Group("/materials")
	{
		materials.POST("", h.Create)
		materials.GET("", h.List)
		materials.GET("/:id", h.Get)
		materials.PUT("/:id", h.Update)
		materials.DELETE("/:id", h.Delete)

		materials.POST("/:id/entries", h.CreateEntry)
		materials.GET("/:id/entries", h.ListEntries)
	}
	r.DELETE("/material-entries/:id", h.DeleteEntry)
}

// Create godoc
// @Summary      Register a stock item
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  service.CreateMaterialRequest  true  "Material payload"
// @Success      201  {object}  response.Response
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	material, err := h.materials.Create(c.Request.Context(), act, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, material))
}

// List godoc
// @Summary      List materials of a project
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query  string  true  "Project ID"
// @Success      200  {object}  response.ListResponse
// @Router       /api/materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "project_id query parameter is required"))
		return
	}

	p := pagination.Parse(c)
	rows, total, err := h.materials.List(c.Request.Context(), act, projectID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, total, p.Page, p.Limit))
}

// Get godoc
// @Summary      Get a material
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Material ID"
// @Success      200  {object}  response.Response
// @Router       /api/materials/{id} [get]
func (h *MaterialHandler) Get(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	material, err := h.materials.Get(c.Request.Context(), act, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, material))
}

// Update godoc
// @Summary      Edit a material's name or unit
// @Description  current_stock cannot be patched; it only moves through ledger entries
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Material ID"
// @Success      200  {object}  response.Response
// @Router       /api/materials/{id} [put]
func (h *MaterialHandler) Update(c *gin.Context) {
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

	material, err := h.materials.Update(c.Request.Context(), act, id, patch, message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, material))
}

// Delete godoc
// @Summary      Delete a material without movements
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Material ID"
// @Success      200  {object}  response.Response
// @Router       /api/materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.materials.Delete(c.Request.Context(), act, id, deleteMessage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "material deleted"}))
		return
	}
	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, gin.H{"message": "deletion submitted for approval"}))
}

// CreateEntry godoc
// @Summary      Record a stock movement
// @Description  Stock is adjusted when the entry becomes canonical: immediately for admins, on approval for gated roles
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                              true  "Material ID"
// @Param        request  body  service.CreateMaterialEntryRequest  true  "Movement payload"
// @Success      201  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/materials/{id}/entries [post]
func (h *MaterialHandler) CreateEntry(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	materialID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateMaterialEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	entry, err := h.materials.CreateEntry(c.Request.Context(), act, materialID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// ListEntries godoc
// @Summary      List stock movements of a material
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Material ID"
// @Success      200  {object}  response.ListResponse
// @Router       /api/materials/{id}/entries [get]
func (h *MaterialHandler) ListEntries(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	materialID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	p := pagination.Parse(c)
	rows, total, err := h.materials.ListEntries(c.Request.Context(), act, materialID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, total, p.Page, p.Limit))
}

// DeleteEntry godoc
// @Summary      Delete a stock movement (reverses the stock change on approval)
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Entry ID"
// @Success      200  {object}  response.Response
// @Router       /api/material-entries/{id} [delete]
func (h *MaterialHandler) DeleteEntry(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.materials.DeleteEntry(c.Request.Context(), act, id, deleteMessage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "entry deleted"}))
		return
	}
	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, gin.H{"message": "deletion submitted for approval"}))
}
