package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger is a party account book on a project (supplier, contractor,
// client). Balance = opening balance + sum(credits) - sum(debits) over its
// approved journal entries.
type Ledger struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	PartyName      string          `gorm:"type:varchar(255)" json:"party_name"`
	Phone          string          `gorm:"type:varchar(20)" json:"phone"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"opening_balance"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	ApprovalFields `gorm:"embedded"`
}

func (l *Ledger) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l *Ledger) GetID() uuid.UUID               { return l.ID }
func (l *Ledger) GetOrganizationID() uuid.UUID   { return l.OrganizationID }
func (l *Ledger) ApprovalState() *ApprovalFields { return &l.ApprovalFields }
func (l *Ledger) EntityKind() string             { return KindLedger }

// JournalEntry is a debit/credit line against a ledger.
type JournalEntry struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	LedgerID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"ledger_id"`
	Date           time.Time       `gorm:"not null;index" json:"date"`
	Debit          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"debit"`
	Credit         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"credit"`
	Narration      string          `gorm:"type:text" json:"narration"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	ApprovalFields `gorm:"embedded"`
}

func (j *JournalEntry) BeforeCreate(*gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

func (j *JournalEntry) GetID() uuid.UUID               { return j.ID }
func (j *JournalEntry) GetOrganizationID() uuid.UUID   { return j.OrganizationID }
func (j *JournalEntry) ApprovalState() *ApprovalFields { return &j.ApprovalFields }
func (j *JournalEntry) EntityKind() string             { return KindJournalEntry }
