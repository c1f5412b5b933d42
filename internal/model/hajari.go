package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Hajari is a daily labor-attendance record: who worked on the project, for
// how many units (full day = 1, half day = 0.5), at what wage.
type Hajari struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	LabourName     string          `gorm:"type:varchar(255);not null" json:"labour_name"`
	Date           time.Time       `gorm:"not null;index" json:"date"`
	Units          decimal.Decimal `gorm:"type:decimal(6,2);not null;default:1" json:"units"`
	Wage           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"wage"`
	Note           string          `gorm:"type:text" json:"note"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	ApprovalFields `gorm:"embedded"`
}

func (h *Hajari) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

func (h *Hajari) GetID() uuid.UUID               { return h.ID }
func (h *Hajari) GetOrganizationID() uuid.UUID   { return h.OrganizationID }
func (h *Hajari) ApprovalState() *ApprovalFields { return &h.ApprovalFields }
func (h *Hajari) EntityKind() string             { return KindHajari }
