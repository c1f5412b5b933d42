package model

import (
	"github.com/google/uuid"
)

// ApprovalStatus enum constants — lifecycle position of an approvable entity
const (
	StatusApproved      = "APPROVED"
	StatusPendingCreate = "PENDING_CREATE"
	StatusPendingEdit   = "PENDING_EDIT"
	StatusPendingDelete = "PENDING_DELETE"
	StatusRejected      = "REJECTED"
)

// EntityKind enum constants — the approvable entity tables
const (
	KindTransaction   = "transaction"
	KindRecordable    = "recordable"
	KindTask          = "task"
	KindDocument      = "document"
	KindPhoto         = "photo"
	KindHajari        = "hajari"
	KindMaterial      = "material"
	KindMaterialEntry = "material_entry"
	KindLedger        = "ledger"
	KindJournalEntry  = "journal_entry"
)

// AllKinds lists every approvable entity kind in a stable order
var AllKinds = []string{
	KindTransaction,
	KindRecordable,
	KindTask,
	KindDocument,
	KindPhoto,
	KindHajari,
	KindMaterial,
	KindMaterialEntry,
	KindLedger,
	KindJournalEntry,
}

// RejectionLockThreshold is the rejection count at which non-admins can no
// longer submit edit or delete operations against an entity.
const RejectionLockThreshold = 3

// ApprovalFields carries the moderation lifecycle state shared by every
// approvable entity. Embedded via gorm so each table gets its own columns.
//
// PendingData is a partial JSON object (proposed field values) and is only
// set while ApprovalStatus is one of the PENDING_* values; PENDING_DELETE
// carries no payload.
type ApprovalFields struct {
	ApprovalStatus string     `gorm:"type:varchar(20);not null;default:'APPROVED';index" json:"approval_status"`
	PendingData    string     `gorm:"type:jsonb" json:"pending_data,omitempty"`
	SubmittedBy    *uuid.UUID `gorm:"type:uuid" json:"submitted_by,omitempty"`
	RequestMessage string     `gorm:"type:text" json:"request_message,omitempty"`
	Remarks        string     `gorm:"type:text" json:"remarks,omitempty"`
	RejectionCount int        `gorm:"not null;default:0" json:"rejection_count"`

	// Locked is computed per caller at read time, never stored: it tells the
	// client whether further edit/delete submissions are blocked for them.
	Locked bool `gorm:"-" json:"locked"`
}

// LockedFor reports whether role may no longer submit edit or delete
// operations against this entity. Admins are never locked out.
func (f *ApprovalFields) LockedFor(role string) bool {
	return role != RoleAdmin && f.RejectionCount >= RejectionLockThreshold
}

// MarkLockedFor stamps the caller-relative Locked flag before serialization
func (f *ApprovalFields) MarkLockedFor(role string) {
	f.Locked = f.LockedFor(role)
}

// IsPending reports whether the entity currently awaits an admin decision
func (f *ApprovalFields) IsPending() bool {
	switch f.ApprovalStatus {
	case StatusPendingCreate, StatusPendingEdit, StatusPendingDelete:
		return true
	}
	return false
}
