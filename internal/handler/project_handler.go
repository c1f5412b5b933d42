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

type ProjectHandler struct {
	projects  service.ProjectService
	dashboard service.DashboardService
}

func NewProjectHandler(projects service.ProjectService, dashboard service.DashboardService) *ProjectHandler {
	return &ProjectHandler{projects: projects, dashboard: dashboard}
}

func (h *ProjectHandler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.GET("", h.List)
		projects.GET("/:id", h.Get)
		projects.GET("/:id/dashboard", h.Dashboard)

		admin := projects.Group("", middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
			admin.POST("/:id/members", h.AddMember)
			admin.DELETE("/:id/members/:userId", h.RemoveMember)
		}
	}
}

// Create godoc
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  service.CreateProjectRequest  true  "Project payload"
// @Success      201  {object}  response.Response
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	project, err := h.projects.Create(c.Request.Context(), act, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, project))
}

// List godoc
// @Summary      List projects visible to the caller
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  response.ListResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	projects, total, err := h.projects.List(c.Request.Context(), act, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, projects, total, p.Page, p.Limit))
}

// Get godoc
// @Summary      Get a project with its members
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), act, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// Update godoc
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                        true  "Project ID"
// @Param        request  body  service.UpdateProjectRequest  true  "Fields to update"
// @Success      200  {object}  response.Response
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	project, err := h.projects.Update(c.Request.Context(), act, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// Delete godoc
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Project ID"
// @Success      200  {object}  response.Response
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), act, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "project deleted"}))
}

// AddMember godoc
// @Summary      Add a member to a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                    true  "Project ID"
// @Param        request  body  service.AddMemberRequest  true  "Member payload"
// @Success      201  {object}  response.Response
// @Router       /api/projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	if err := h.projects.AddMember(c.Request.Context(), act, id, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"message": "member added"}))
}

// RemoveMember godoc
// @Summary      Remove a member from a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string  true  "Project ID"
// @Param        userId  path  string  true  "User ID"
// @Success      200  {object}  response.Response
// @Router       /api/projects/{id}/members/{userId} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	if err := h.projects.RemoveMember(c.Request.Context(), act, id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "member removed"}))
}

// Dashboard godoc
// @Summary      Project dashboard aggregates
// @Description  Cash totals, outstandings, open tasks, labour and stock figures over approved data only
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Project ID"
// @Success      200  {object}  response.Response
// @Router       /api/projects/{id}/dashboard [get]
func (h *ProjectHandler) Dashboard(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	dash, err := h.dashboard.ProjectDashboard(c.Request.Context(), act, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dash))
}
