package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recordable kind enum constants
const (
	RecordableReceivable = "RECEIVABLE"
	RecordablePayable    = "PAYABLE"
)

// Recordable is an outstanding amount on a project — money owed to us
// (receivable) or by us (payable) — until marked settled.
type Recordable struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Kind           string          `gorm:"type:varchar(20);not null;index" json:"kind"`
	PartyName      string          `gorm:"type:varchar(255);not null" json:"party_name"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	DueDate        *time.Time      `json:"due_date"`
	Settled        bool            `gorm:"not null;default:false;index" json:"settled"`
	Description    string          `gorm:"type:text" json:"description"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	ApprovalFields `gorm:"embedded"`
}

func (r *Recordable) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *Recordable) GetID() uuid.UUID             { return r.ID }
func (r *Recordable) GetOrganizationID() uuid.UUID { return r.OrganizationID }
func (r *Recordable) ApprovalState() *ApprovalFields {
	return &r.ApprovalFields
}
func (r *Recordable) EntityKind() string { return KindRecordable }
