package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/repository"
)

const (
	accessTokenTTL   = 24 * time.Hour
	refreshTokenTTL  = 7 * 24 * time.Hour
	invitationTTL    = 7 * 24 * time.Hour
	invitationTokLen = 32
)

// DTOs for request validation

type SignupRequest struct {
	OrganizationName string `json:"organization_name" binding:"required"`
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Password         string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type InviteUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=admin user"`
}

type AcceptInvitationRequest struct {
	Token    string `json:"token" binding:"required"`
	Username string `json:"username" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserResponse returns User without exposing sensitive data
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	CreatedAt      string    `json:"created_at"`
}

type InvitationResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Token     string    `json:"token,omitempty"` // only returned to the inviting admin
	ExpiresAt string    `json:"expires_at"`
}

// UserService owns auth, user management and invitation onboarding.
type UserService interface {
	Signup(ctx context.Context, req SignupRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	GetUserByID(ctx context.Context, orgID, id uuid.UUID) (*UserResponse, error)
	ListUsers(ctx context.Context, orgID uuid.UUID, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, orgID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, orgID, id uuid.UUID) error

	InviteUser(ctx context.Context, orgID, invitedBy uuid.UUID, req InviteUserRequest) (*InvitationResponse, error)
	ListInvitations(ctx context.Context, orgID uuid.UUID, page, limit int) ([]InvitationResponse, int64, error)
	RevokeInvitation(ctx context.Context, orgID, id uuid.UUID) error
	AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (*UserResponse, error)
}

type userService struct {
	db          *gorm.DB
	users       repository.UserRepository
	invitations repository.InvitationRepository
	audits      repository.AuditRepository
	tx          repository.TxManager
}

// NewUserService returns a new instance of UserService
func NewUserService(db *gorm.DB, users repository.UserRepository, invitations repository.InvitationRepository, audits repository.AuditRepository, tx repository.TxManager) UserService {
	return &userService{db: db, users: users, invitations: invitations, audits: audits, tx: tx}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func mapToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		OrganizationID: user.OrganizationID,
		Username:       user.Username,
		Email:          user.Email,
		Phone:          user.Phone,
		Role:           user.Role,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
	}
}

func mapToInvitationResponse(inv *model.Invitation, includeToken bool) *InvitationResponse {
	resp := &InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      inv.Role,
		Status:    inv.Status,
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
	}
	if includeToken {
		resp.Token = inv.Token
	}
	return resp
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Signup bootstraps a new tenant: the organization and its first admin are
// created atomically.
func (s *userService) Signup(ctx context.Context, req SignupRequest) (*UserResponse, error) {
	if !emailRegex.MatchString(req.Email) {
		return nil, errors.New("invalid email format")
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	var user *model.User
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		org := &model.Organization{Name: req.OrganizationName}
		if err := repository.GetDB(txCtx, s.db).Create(org).Error; err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}

		user = &model.User{
			OrganizationID: org.ID,
			Username:       req.Username,
			Email:          req.Email,
			Phone:          req.Phone,
			Password:       string(hashedPassword),
			Role:           model.RoleAdmin,
		}
		if err := s.users.Create(txCtx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapToUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	if req.RefreshToken == "" {
		return nil, errors.New("refresh token is required")
	}

	var stored model.RefreshToken
	db := s.db.WithContext(ctx)
	if err := db.First(&stored, "token = ?", req.RefreshToken).Error; err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		db.Delete(&stored)
		return nil, errors.New("refresh token expired")
	}

	var owner model.User
	if err := db.First(&owner, "id = ?", stored.UserID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	// Rotate: the old refresh token is single-use
	db.Delete(&stored)

	return s.issueTokens(ctx, &owner)
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"org":  user.OrganizationID.String(),
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	refresh, err := randomToken(32)
	if err != nil {
		return nil, errors.New("failed to generate refresh token")
	}
	record := &model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, errors.New("failed to persist refresh token")
	}

	return &TokenResponse{Token: tokenString, RefreshToken: refresh}, nil
}

func (s *userService) GetUserByID(ctx context.Context, orgID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return mapToUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, orgID uuid.UUID, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.users.List(ctx, orgID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, orgID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.Role != "" {
		if req.Role != model.RoleAdmin && req.Role != model.RoleUser {
			return nil, errors.New("invalid role: must be admin or user")
		}
		user.Role = req.Role
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return mapToUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, orgID, id uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, orgID, id); err != nil {
		return errors.New("user not found")
	}
	return s.users.Delete(ctx, orgID, id)
}

func (s *userService) InviteUser(ctx context.Context, orgID, invitedBy uuid.UUID, req InviteUserRequest) (*InvitationResponse, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("a user with this email already exists")
	}

	token, err := randomToken(invitationTokLen)
	if err != nil {
		return nil, errors.New("failed to generate invitation token")
	}

	inviter := invitedBy
	inv := &model.Invitation{
		OrganizationID: orgID,
		Email:          req.Email,
		Role:           req.Role,
		Token:          token,
		Status:         model.InvitationPending,
		InvitedBy:      &inviter,
		ExpiresAt:      time.Now().Add(invitationTTL),
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	_ = s.audits.Log(ctx, &model.AuditLog{
		OrganizationID: orgID,
		UserID:         &inviter,
		Action:         model.ActionInviteUser,
		EntityID:       inv.ID.String(),
		Details:        fmt.Sprintf(`{"email":%q,"role":%q}`, req.Email, req.Role),
	})

	return mapToInvitationResponse(inv, true), nil
}

func (s *userService) ListInvitations(ctx context.Context, orgID uuid.UUID, page, limit int) ([]InvitationResponse, int64, error) {
	invs, total, err := s.invitations.List(ctx, orgID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvitationResponse, 0, len(invs))
	for i := range invs {
		responses = append(responses, *mapToInvitationResponse(&invs[i], false))
	}
	return responses, total, nil
}

func (s *userService) RevokeInvitation(ctx context.Context, orgID, id uuid.UUID) error {
	inv, err := s.invitations.GetByID(ctx, orgID, id)
	if err != nil {
		return errors.New("invitation not found")
	}
	if inv.Status != model.InvitationPending {
		return errors.New("invitation is not pending")
	}
	inv.Status = model.InvitationRevoked
	return s.invitations.Update(ctx, inv)
}

// AcceptInvitation registers the invitee into the inviting organization and
// marks the invitation consumed, atomically.
func (s *userService) AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (*UserResponse, error) {
	inv, err := s.invitations.GetByToken(ctx, req.Token)
	if err != nil {
		return nil, errors.New("invalid invitation token")
	}
	if inv.Status != model.InvitationPending {
		return nil, errors.New("invitation is no longer valid")
	}
	if time.Now().After(inv.ExpiresAt) {
		return nil, errors.New("invitation has expired")
	}
	if _, err := s.users.GetByEmail(ctx, inv.Email); err == nil {
		return nil, errors.New("a user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	var user *model.User
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		user = &model.User{
			OrganizationID: inv.OrganizationID,
			Username:       req.Username,
			Email:          inv.Email,
			Phone:          req.Phone,
			Password:       string(hashedPassword),
			Role:           inv.Role,
		}
		if err := s.users.Create(txCtx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		inv.Status = model.InvitationAccepted
		if err := s.invitations.Update(txCtx, inv); err != nil {
			return fmt.Errorf("failed to update invitation: %w", err)
		}

		return s.audits.Log(txCtx, &model.AuditLog{
			OrganizationID: inv.OrganizationID,
			UserID:         &user.ID,
			Action:         model.ActionAcceptInvitation,
			EntityID:       inv.ID.String(),
			Details:        fmt.Sprintf(`{"email":%q}`, inv.Email),
		})
	})
	if err != nil {
		return nil, err
	}

	return mapToUserResponse(user), nil
}
