package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction type enum constants
const (
	TxTypeIn  = "IN"  // money received
	TxTypeOut = "OUT" // money paid
)

// Transaction is a cash movement on a project (payment received or made).
type Transaction struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Type           string          `gorm:"type:varchar(10);not null;index" json:"type"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Category       string          `gorm:"type:varchar(100)" json:"category"`
	PartyName      string          `gorm:"type:varchar(255)" json:"party_name"`
	Description    string          `gorm:"type:text" json:"description"`
	Date           time.Time       `gorm:"not null;index" json:"date"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	ApprovalFields `gorm:"embedded"`
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *Transaction) GetID() uuid.UUID             { return t.ID }
func (t *Transaction) GetOrganizationID() uuid.UUID { return t.OrganizationID }
func (t *Transaction) ApprovalState() *ApprovalFields {
	return &t.ApprovalFields
}
func (t *Transaction) EntityKind() string { return KindTransaction }
