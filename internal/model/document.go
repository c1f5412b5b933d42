package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is file metadata attached to a project. The file itself lives in
// external storage; only the URL is kept here.
type Document struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProjectID      uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Title          string    `gorm:"type:varchar(255);not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	FileURL        string    `gorm:"type:text;not null" json:"file_url"`
	MimeType       string    `gorm:"type:varchar(100)" json:"mime_type"`
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	ApprovalFields `gorm:"embedded"`
}

func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d *Document) GetID() uuid.UUID               { return d.ID }
func (d *Document) GetOrganizationID() uuid.UUID   { return d.OrganizationID }
func (d *Document) ApprovalState() *ApprovalFields { return &d.ApprovalFields }
func (d *Document) EntityKind() string             { return KindDocument }

// Photo is a site photo on a project, URL-only like Document.
type Photo struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Caption        string     `gorm:"type:varchar(255)" json:"caption"`
	FileURL        string     `gorm:"type:text;not null" json:"file_url"`
	TakenAt        *time.Time `json:"taken_at"`
	CreatedBy      uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	ApprovalFields `gorm:"embedded"`
}

func (p *Photo) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Photo) GetID() uuid.UUID               { return p.ID }
func (p *Photo) GetOrganizationID() uuid.UUID   { return p.OrganizationID }
func (p *Photo) ApprovalState() *ApprovalFields { return &p.ApprovalFields }
func (p *Photo) EntityKind() string             { return KindPhoto }
