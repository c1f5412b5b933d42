package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Material ledger entry type enum constants
const (
	MaterialEntryIn  = "IN"  // stock received on site
	MaterialEntryOut = "OUT" // stock consumed
)

// Material is a stock item tracked per project (cement, steel, sand...).
// CurrentStock is maintained by approved ledger entries only.
type Material struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Unit           string          `gorm:"type:varchar(50);not null" json:"unit"`
	CurrentStock   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"current_stock"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	ApprovalFields `gorm:"embedded"`
}

func (m *Material) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *Material) GetID() uuid.UUID               { return m.ID }
func (m *Material) GetOrganizationID() uuid.UUID   { return m.OrganizationID }
func (m *Material) ApprovalState() *ApprovalFields { return &m.ApprovalFields }
func (m *Material) EntityKind() string             { return KindMaterial }

// MaterialLedgerEntry is a stock movement. Once it becomes canonical the
// parent material's CurrentStock is adjusted inside the same transaction.
type MaterialLedgerEntry struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	MaterialID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"material_id"`
	Type           string          `gorm:"type:varchar(10);not null" json:"type"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Rate           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"rate"`
	Date           time.Time       `gorm:"not null;index" json:"date"`
	Note           string          `gorm:"type:text" json:"note"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	ApprovalFields `gorm:"embedded"`
}

func (e *MaterialLedgerEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *MaterialLedgerEntry) GetID() uuid.UUID               { return e.ID }
func (e *MaterialLedgerEntry) GetOrganizationID() uuid.UUID   { return e.OrganizationID }
func (e *MaterialLedgerEntry) ApprovalState() *ApprovalFields { return &e.ApprovalFields }
func (e *MaterialLedgerEntry) EntityKind() string             { return KindMaterialEntry }
