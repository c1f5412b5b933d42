package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/pagination"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/response"
)

type DocumentHandler struct {
	documents service.DocumentService
}

func NewDocumentHandler(documents service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

func (h *DocumentHandler) RegisterRoutes(r *gin.RouterGroup) {
	docs := r.Group("/documents")
	{
		docs.POST("", h.CreateDocument)
		docs.GET("", h.ListDocuments)
		docs.GET("/:id", h.GetDocument)
		docs.PUT("/:id", h.UpdateDocument)
		docs.DELETE("/:id", h.DeleteDocument)
	}

	photos := r.Group("/photos")
	{
		photos.POST("", h.CreatePhoto)
		photos.GET("", h.ListPhotos)
		photos.GET("/:id", h.GetPhoto)
		photos.PUT("/:id", h.UpdatePhoto)
		photos.DELETE("/:id", h.DeletePhoto)
	}
}

func (h *DocumentHandler) projectIDQuery(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "project_id query parameter is required"))
		return uuid.Nil, false
	}
	return projectID, true
}

// CreateDocument godoc
// @Summary      Attach a document to a project
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  service.CreateDocumentRequest  true  "Document payload"
// @Success      201  {object}  response.Response
// @Router       /api/documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	var req service.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	doc, err := h.documents.CreateDocument(c.Request.Context(), act, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

// ListDocuments godoc
// @Summary      List documents of a project
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query  string  true  "Project ID"
// @Success      200  {object}  response.ListResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	projectID, ok := h.projectIDQuery(c)
	if !ok {
		return
	}

	p := pagination.Parse(c)
	rows, total, err := h.documents.ListDocuments(c.Request.Context(), act, projectID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, total, p.Page, p.Limit))
}

// GetDocument godoc
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documents.GetDocument(c.Request.Context(), act, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

// UpdateDocument godoc
// @Summary      Edit a document's metadata
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Router       /api/documents/{id} [put]
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
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

	doc, err := h.documents.UpdateDocument(c.Request.Context(), act, id, patch, message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

// DeleteDocument godoc
// @Summary      Delete a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.documents.DeleteDocument(c.Request.Context(), act, id, deleteMessage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "document deleted"}))
		return
	}
	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, gin.H{"message": "deletion submitted for approval"}))
}

// CreatePhoto godoc
// @Summary      Attach a site photo to a project
// @Tags         photos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  service.CreatePhotoRequest  true  "Photo payload"
// @Success      201  {object}  response.Response
// @Router       /api/photos [post]
func (h *DocumentHandler) CreatePhoto(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	var req service.CreatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	photo, err := h.documents.CreatePhoto(c.Request.Context(), act, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, photo))
}

// ListPhotos godoc
// @Summary      List photos of a project
// @Tags         photos
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query  string  true  "Project ID"
// @Success      200  {object}  response.ListResponse
// @Router       /api/photos [get]
func (h *DocumentHandler) ListPhotos(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	projectID, ok := h.projectIDQuery(c)
	if !ok {
		return
	}

	p := pagination.Parse(c)
	rows, total, err := h.documents.ListPhotos(c.Request.Context(), act, projectID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, rows, total, p.Page, p.Limit))
}

// GetPhoto godoc
// @Summary      Get a photo
// @Tags         photos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Photo ID"
// @Success      200  {object}  response.Response
// @Router       /api/photos/{id} [get]
func (h *DocumentHandler) GetPhoto(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	photo, err := h.documents.GetPhoto(c.Request.Context(), act, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, photo))
}

// UpdatePhoto godoc
// @Summary      Edit a photo's caption or metadata
// @Tags         photos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Photo ID"
// @Success      200  {object}  response.Response
// @Router       /api/photos/{id} [put]
func (h *DocumentHandler) UpdatePhoto(c *gin.Context) {
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

	photo, err := h.documents.UpdatePhoto(c.Request.Context(), act, id, patch, message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, photo))
}

// DeletePhoto godoc
// @Summary      Delete a photo
// @Tags         photos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Photo ID"
// @Success      200  {object}  response.Response
// @Router       /api/photos/{id} [delete]
func (h *DocumentHandler) DeletePhoto(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.documents.DeletePhoto(c.Request.Context(), act, id, deleteMessage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "photo deleted"}))
		return
	}
	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, gin.H{"message": "deletion submitted for approval"}))
}
