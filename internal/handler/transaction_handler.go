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

type TransactionHandler struct {
	transactions service.TransactionService
}

func NewTransactionHandler(transactions service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

func (h *TransactionHandler) RegisterRoutes(r *gin.RouterGroup) {
	tx := r.Group("/transactions")
	{
		tx.POST("", h.Create)
		tx.GET("", h.List)
		tx.GET("/:id", h.Get)
		tx.PUT("/:id", h.Update)
		tx.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary      Record a cash transaction
// @Description  Applies immediately for admins; enters the approval queue otherwise
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  service.CreateTransactionRequest  true  "Transaction payload"
// @Success      201  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	tx, err := h.transactions.Create(c.Request.Context(), act, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tx))
}

// List godoc
// @Summary      List transactions of a project
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query  string  true   "Project ID"
// @Param        type        query  string  false  "IN or OUT"
// @Param        category    query  string  false  "Category filter"
// @Param        from        query  string  false  "Start date (RFC3339)"
// @Param        to          query  string  false  "End date (RFC3339)"
// @Param        page        query  int     false  "Page number"
// @Param        limit       query  int     false  "Page size"
// @Success      200  {object}  response.ListResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "project_id query parameter is required"))
		return
	}

	filter := service.TransactionFilter{
		ProjectID: projectID,
		Type:      c.Query("type"),
		Category:  c.Query("category"),
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
	rows, total, err := h.transactions.List(c.Request.Context(), act, filter, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, total, p.Page, p.Limit))
}

// Get godoc
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Transaction ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	tx, err := h.transactions.Get(c.Request.Context(), act, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}

// Update godoc
// @Summary      Edit a transaction
// @Description  Body is a partial JSON object of the fields to change. For gated roles the patch is parked as a pending overlay until an admin decides.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Transaction ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
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

	tx, err := h.transactions.Update(c.Request.Context(), act, id, patch, message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}

// Delete godoc
// @Summary      Delete a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Transaction ID"
// @Success      200  {object}  response.Response
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.transactions.Delete(c.Request.Context(), act, id, deleteMessage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "transaction deleted"}))
		return
	}
	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, gin.H{"message": "deletion submitted for approval"}))
}
