package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/pagination"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/response"
)

type LedgerHandler struct {
	ledgers service.LedgerService
}

func NewLedgerHandler(ledgers service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgers: ledgers}
}

func (h *LedgerHandler) RegisterRoutes(r *gin.RouterGroup) {
	ledgers := r.Group("/ledgers")
	{
		ledgers.POST("", h.Create)
		ledgers.GET("", h.List)
		ledgers.GET("/:id", h.Get)
		ledgers.PUT("/:id", h.Update)
		ledgers.DELETE("/:id", h.Delete)

		ledgers.POST("/:id/journal-entries", h.CreateEntry)
		ledgers.GET("/:id/journal-entries", h.ListEntries)
	}
	r.PUT("/journal-entries/:id", h.UpdateEntry)
	r.DELETE("/journal-entries/:id", h.DeleteEntry)
}

// Create godoc
// @Summary      Open a party ledger
// @Tags         ledgers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  service.CreateLedgerRequest  true  "Ledger payload"
// @Success      201  {object}  response.Response
// @Router       /api/ledgers [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	var req service.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	ledger, err := h.ledgers.Create(c.Request.Context(), act, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, ledger))
}

// List godoc
// @Summary      List ledgers of a project with balances
// @Tags         ledgers
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query  string  true  "Project ID"
// @Success      200  {object}  response.ListResponse
// @Router       /api/ledgers [get]
func (h *LedgerHandler) List(c *gin.Context) {
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
	rows, total, err := h.ledgers.List(c.Request.Context(), act, projectID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, total, p.Page, p.Limit))
}

// Get godoc
// @Summary      Get a ledger with its balance
// @Tags         ledgers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Ledger ID"
// @Success      200  {object}  response.Response
// @Router       /api/ledgers/{id} [get]
func (h *LedgerHandler) Get(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ledger, err := h.ledgers.Get(c.Request.Context(), act, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ledger))
}

// Update godoc
// @Summary      Edit a ledger
// @Tags         ledgers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Ledger ID"
// @Success      200  {object}  response.Response
// @Router       /api/ledgers/{id} [put]
func (h *LedgerHandler) Update(c *gin.Context) {
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

	ledger, err := h.ledgers.Update(c.Request.Context(), act, id, patch, message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, ledger))
}

// Delete godoc
// @Summary      Delete an empty ledger
// @Tags         ledgers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Ledger ID"
// @Success      200  {object}  response.Response
// @Router       /api/ledgers/{id} [delete]
func (h *LedgerHandler) Delete(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.ledgers.Delete(c.Request.Context(), act, id, deleteMessage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "ledger deleted"}))
		return
	}
	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, gin.H{"message": "deletion submitted for approval"}))
}

// CreateEntry godoc
// @Summary      Post a journal line to a ledger
// @Description  Exactly one of debit or credit must be non-zero
// @Tags         ledgers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                             true  "Ledger ID"
// @Param        request  body  service.CreateJournalEntryRequest  true  "Journal line payload"
// @Success      201  {object}  response.Response
// @Router       /api/ledgers/{id}/journal-entries [post]
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	ledgerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req service.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	entry, err := h.ledgers.CreateEntry(c.Request.Context(), act, ledgerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// ListEntries godoc
// @Summary      List journal lines of a ledger
// @Tags         ledgers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Ledger ID"
// @Success      200  {object}  response.ListResponse
// @Router       /api/ledgers/{id}/journal-entries [get]
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	ledgerID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	p := pagination.Parse(c)
	rows, total, err := h.ledgers.ListEntries(c.Request.Context(), act, ledgerID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, total, p.Page, p.Limit))
}

// UpdateEntry godoc
// @Summary      Edit a journal line
// @Tags         ledgers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Entry ID"
// @Success      200  {object}  response.Response
// @Router       /api/journal-entries/{id} [put]
func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
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

	entry, err := h.ledgers.UpdateEntry(c.Request.Context(), act, id, patch, message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// DeleteEntry godoc
// @Summary      Delete a journal line
// @Tags         ledgers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Entry ID"
// @Success      200  {object}  response.Response
// @Router       /api/journal-entries/{id} [delete]
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.ledgers.DeleteEntry(c.Request.Context(), act, id, deleteMessage(c))
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
