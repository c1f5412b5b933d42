package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
)

type CreateDocumentRequest struct {
	ProjectID      uuid.UUID `json:"project_id" binding:"required"`
	Title          string    `json:"title" binding:"required"`
	Description    string    `json:"description"`
	FileURL        string    `json:"file_url" binding:"required,url"`
	MimeType       string    `json:"mime_type"`
	RequestMessage string    `json:"request_message"`
}

type CreatePhotoRequest struct {
	ProjectID      uuid.UUID  `json:"project_id" binding:"required"`
	Caption        string     `json:"caption"`
	FileURL        string     `json:"file_url" binding:"required,url"`
	TakenAt        *time.Time `json:"taken_at"`
	RequestMessage string     `json:"request_message"`
}

// DocumentService manages file metadata (documents and site photos) on a
// project. Binary content lives in external storage; only URLs are kept.
type DocumentService interface {
	CreateDocument(ctx context.Context, actor approval.Actor, req CreateDocumentRequest) (*model.Document, error)
	ListDocuments(ctx context.Context, actor approval.Actor, projectID uuid.UUID, page, limit int) ([]model.Document, int64, error)
	GetDocument(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Document, error)
	UpdateDocument(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Document, error)
	DeleteDocument(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error)

	CreatePhoto(ctx context.Context, actor approval.Actor, req CreatePhotoRequest) (*model.Photo, error)
	ListPhotos(ctx context.Context, actor approval.Actor, projectID uuid.UUID, page, limit int) ([]model.Photo, int64, error)
	GetPhoto(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Photo, error)
	UpdatePhoto(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Photo, error)
	DeletePhoto(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error)
}

type documentService struct {
	db        *gorm.DB
	docGate   *approval.Gate[model.Document, *model.Document]
	photoGate *approval.Gate[model.Photo, *model.Photo]
	projects  ProjectService
}

// NewDocumentService returns a new instance of DocumentService
func NewDocumentService(db *gorm.DB, docGate *approval.Gate[model.Document, *model.Document], photoGate *approval.Gate[model.Photo, *model.Photo], projects ProjectService) DocumentService {
	return &documentService{db: db, docGate: docGate, photoGate: photoGate, projects: projects}
}

func (s *documentService) CreateDocument(ctx context.Context, actor approval.Actor, req CreateDocumentRequest) (*model.Document, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, req.ProjectID); err != nil {
		return nil, err
	}

	doc := &model.Document{
		OrganizationID: actor.OrganizationID,
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		FileURL:        req.FileURL,
		MimeType:       req.MimeType,
		CreatedBy:      actor.ID,
	}
	if err := s.docGate.SubmitCreate(ctx, doc, actor, req.RequestMessage); err != nil {
		return nil, err
	}
	doc.MarkLockedFor(actor.Role)
	return doc, nil
}

func (s *documentService) ListDocuments(ctx context.Context, actor approval.Actor, projectID uuid.UUID, page, limit int) ([]model.Document, int64, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, projectID); err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Document{}).
		Where("organization_id = ? AND project_id = ?", actor.OrganizationID, projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Document
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].MarkLockedFor(actor.Role)
	}
	return rows, total, nil
}

func (s *documentService) GetDocument(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	err := s.db.WithContext(ctx).
		First(&doc, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}
	if err := requireProjectAccess(ctx, s.projects, actor, doc.ProjectID); err != nil {
		return nil, err
	}
	doc.MarkLockedFor(actor.Role)
	return &doc, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Document, error) {
	existing, err := s.GetDocument(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.docGate.SubmitEdit(ctx, existing.ID, actor, patch, message)
	if err != nil {
		return nil, err
	}
	updated.MarkLockedFor(actor.Role)
	return updated, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error) {
	existing, err := s.GetDocument(ctx, actor, id)
	if err != nil {
		return false, err
	}
	return s.docGate.SubmitDelete(ctx, existing.ID, actor, message)
}

func (s *documentService) CreatePhoto(ctx context.Context, actor approval.Actor, req CreatePhotoRequest) (*model.Photo, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, req.ProjectID); err != nil {
		return nil, err
	}

	photo := &model.Photo{
		OrganizationID: actor.OrganizationID,
		ProjectID:      req.ProjectID,
		Caption:        req.Caption,
		FileURL:        req.FileURL,
		TakenAt:        req.TakenAt,
		CreatedBy:      actor.ID,
	}
	if err := s.photoGate.SubmitCreate(ctx, photo, actor, req.RequestMessage); err != nil {
		return nil, err
	}
	photo.MarkLockedFor(actor.Role)
	return photo, nil
}

func (s *documentService) ListPhotos(ctx context.Context, actor approval.Actor, projectID uuid.UUID, page, limit int) ([]model.Photo, int64, error) {
	if err := requireProjectAccess(ctx, s.projects, actor, projectID); err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&model.Photo{}).
		Where("organization_id = ? AND project_id = ?", actor.OrganizationID, projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Photo
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		rows[i].MarkLockedFor(actor.Role)
	}
	return rows, total, nil
}

func (s *documentService) GetPhoto(ctx context.Context, actor approval.Actor, id uuid.UUID) (*model.Photo, error) {
	var photo model.Photo
	err := s.db.WithContext(ctx).
		First(&photo, "id = ? AND organization_id = ?", id, actor.OrganizationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}
	if err := requireProjectAccess(ctx, s.projects, actor, photo.ProjectID); err != nil {
		return nil, err
	}
	photo.MarkLockedFor(actor.Role)
	return &photo, nil
}

func (s *documentService) UpdatePhoto(ctx context.Context, actor approval.Actor, id uuid.UUID, patch json.RawMessage, message string) (*model.Photo, error) {
	existing, err := s.GetPhoto(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.photoGate.SubmitEdit(ctx, existing.ID, actor, patch, message)
	if err != nil {
		return nil, err
	}
	updated.MarkLockedFor(actor.Role)
	return updated, nil
}

func (s *documentService) DeletePhoto(ctx context.Context, actor approval.Actor, id uuid.UUID, message string) (bool, error) {
	existing, err := s.GetPhoto(ctx, actor, id)
	if err != nil {
		return false, err
	}
	return s.photoGate.SubmitDelete(ctx, existing.ID, actor, message)
}
