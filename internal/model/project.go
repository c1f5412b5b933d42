package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project status enum constants
const (
	ProjectActive    = "ACTIVE"
	ProjectCompleted = "COMPLETED"
	ProjectOnHold    = "ON_HOLD"
)

// Project is a construction site/job. All approvable entities hang off a
// project; access is checked against its member list before any mutation.
type Project struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Address        string    `gorm:"type:text" json:"address"`
	Status         string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProjectMember grants a user visibility of a project. Admins see every
// project in their organization regardless of membership.
type ProjectMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_project_member,unique" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_project_member,unique" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *ProjectMember) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
