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

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterPublicRoutes wires the unauthenticated auth endpoints.
func (h *UserHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/refresh", h.Refresh)
	r.POST("/logout", h.Logout)
	r.POST("/accept-invitation", h.AcceptInvitation)
}

// RegisterRoutes wires the authenticated user-management endpoints.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)

	users := r.Group("/users", middleware.RequireRole(model.RoleAdmin))
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	invitations := r.Group("/invitations", middleware.RequireRole(model.RoleAdmin))
	{
		invitations.POST("", h.InviteUser)
		invitations.GET("", h.ListInvitations)
		invitations.DELETE("/:id", h.RevokeInvitation)
	}
}

// Signup godoc
// @Summary      Register a new organization
// @Description  Creates the organization and its first admin account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  service.SignupRequest  true  "Signup payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	user, err := h.users.Signup(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Issues a JWT access token and a rotating refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  service.LoginRequest  true  "Credentials"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	tokens, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookies(c, tokens.Token, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Refresh godoc
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var req service.RefreshTokenRequest
	// Body is optional: the cookie is the usual carrier
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie("refresh_token")
	}

	tokens, err := h.users.RefreshToken(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookies(c, tokens.Token, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Logout godoc
// @Summary      Log out
// @Description  Clears the auth cookies
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "logged out"}))
}

// Me godoc
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), act.OrganizationID, act.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// ListUsers godoc
// @Summary      List organization users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  response.ListResponse
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	users, total, err := h.users.ListUsers(c.Request.Context(), act.OrganizationID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, users, total, p.Page, p.Limit))
}

// GetUser godoc
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), act.OrganizationID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// UpdateUser godoc
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                     true  "User ID"
// @Param        request  body  service.UpdateUserRequest  true  "Fields to update"
// @Success      200  {object}  response.Response
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), act.OrganizationID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  response.Response
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if id == act.ID {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "cannot delete your own account"))
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), act.OrganizationID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "user deleted"}))
}

// InviteUser godoc
// @Summary      Invite a user into the organization
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  service.InviteUserRequest  true  "Invitation payload"
// @Success      201  {object}  response.Response
// @Router       /api/invitations [post]
func (h *UserHandler) InviteUser(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	var req service.InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	inv, err := h.users.InviteUser(c.Request.Context(), act.OrganizationID, act.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, inv))
}

// ListInvitations godoc
// @Summary      List invitations
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.ListResponse
// @Router       /api/invitations [get]
func (h *UserHandler) ListInvitations(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)

	invs, total, err := h.users.ListInvitations(c.Request.Context(), act.OrganizationID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, invs, total, p.Page, p.Limit))
}

// RevokeInvitation godoc
// @Summary      Revoke a pending invitation
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Invitation ID"
// @Success      200  {object}  response.Response
// @Router       /api/invitations/{id} [delete]
func (h *UserHandler) RevokeInvitation(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.users.RevokeInvitation(c.Request.Context(), act.OrganizationID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "invitation revoked"}))
}

// AcceptInvitation godoc
// @Summary      Accept an invitation
// @Description  Registers the invitee into the inviting organization
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        request  body  service.AcceptInvitationRequest  true  "Acceptance payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /accept-invitation [post]
func (h *UserHandler) AcceptInvitation(c *gin.Context) {
	var req service.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	user, err := h.users.AcceptInvitation(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}
