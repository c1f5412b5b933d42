package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Invitation status enum constants
const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationRevoked  = "REVOKED"
)

// User represents a member of an organization. Role is either admin or user;
// only admins decide approvals, everyone else's mutations go through the gate.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	Username       string         `gorm:"type:varchar(255);not null" json:"username"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone          string         `gorm:"type:varchar(20)" json:"phone"`
	Password       string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Role           string         `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *RefreshToken) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Invitation lets an admin onboard a user into the organization by email.
// The invitee registers with the token; the row flips to ACCEPTED.
type Invitation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	Email          string     `gorm:"type:varchar(255);not null;index" json:"email"`
	Role           string     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Token          string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Status         string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	InvitedBy      *uuid.UUID `gorm:"type:uuid" json:"invited_by"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (i *Invitation) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
