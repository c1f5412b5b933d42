package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task status enum constants
const (
	TaskOpen       = "OPEN"
	TaskInProgress = "IN_PROGRESS"
	TaskDone       = "DONE"
)

// Task is a work item on a project, optionally assigned to a user.
type Task struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Title          string     `gorm:"type:varchar(255);not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Status         string     `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	DueDate        *time.Time `json:"due_date"`
	AssignedTo     *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to"`
	CreatedBy      uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	ApprovalFields `gorm:"embedded"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *Task) GetID() uuid.UUID               { return t.ID }
func (t *Task) GetOrganizationID() uuid.UUID   { return t.OrganizationID }
func (t *Task) ApprovalState() *ApprovalFields { return &t.ApprovalFields }
func (t *Task) EntityKind() string             { return KindTask }
