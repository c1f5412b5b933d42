package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionSubmitCreate = "SUBMIT_CREATE"
	ActionSubmitEdit   = "SUBMIT_EDIT"
	ActionSubmitDelete = "SUBMIT_DELETE"
	ActionApplyCreate  = "CREATE"
	ActionApplyEdit    = "UPDATE"
	ActionApplyDelete  = "DELETE"
	ActionApprove      = "APPROVE"
	ActionReject       = "REJECT"

	ActionInviteUser       = "INVITE_USER"
	ActionAcceptInvitation = "ACCEPT_INVITATION"
	ActionRevokeInvitation = "REVOKE_INVITATION"
	ActionCreateProject    = "CREATE_PROJECT"
	ActionUpdateProject    = "UPDATE_PROJECT"
	ActionDeleteProject    = "DELETE_PROJECT"
	ActionAddMember        = "ADD_MEMBER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated
	User           *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action         string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityKind     string     `gorm:"type:varchar(50);index" json:"entity_kind"`
	EntityID       string     `gorm:"type:varchar(50);index" json:"entity_id"`
	Details        string     `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
