package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/repository"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
)

func newUserService(db *gorm.DB) service.UserService {
	return service.NewUserService(
		db,
		repository.NewUserRepository(db),
		repository.NewInvitationRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTxManager(db),
	)
}

func TestUser_SignupCreatesTenantAndAdmin(t *testing.T) {
	db := setupDB(t)
	svc := newUserService(db)

	user, err := svc.Signup(ctx(), service.SignupRequest{
		OrganizationName: "Patel Builders",
		Username:         "jignesh",
		Email:            "jignesh@example.com",
		Password:         "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role, "first account owns the tenant")

	var org model.Organization
	require.NoError(t, db.First(&org, "id = ?", user.OrganizationID).Error)
	assert.Equal(t, "Patel Builders", org.Name)

	// Stored password is hashed
	var stored model.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.NotEqual(t, "secret123", stored.Password)
}

func TestUser_SignupDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	svc := newUserService(db)

	req := service.SignupRequest{
		OrganizationName: "Patel Builders",
		Username:         "jignesh",
		Email:            "jignesh@example.com",
		Password:         "secret123",
	}
	_, err := svc.Signup(ctx(), req)
	require.NoError(t, err)

	req.OrganizationName = "Another Co"
	_, err = svc.Signup(ctx(), req)
	require.Error(t, err)
}

func TestUser_LoginAndRefreshRotation(t *testing.T) {
	db := setupDB(t)
	svc := newUserService(db)

	_, err := svc.Signup(ctx(), service.SignupRequest{
		OrganizationName: "Patel Builders",
		Username:         "jignesh",
		Email:            "jignesh@example.com",
		Password:         "secret123",
	})
	require.NoError(t, err)

	tokens, err := svc.Login(ctx(), service.LoginRequest{Email: "jignesh@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, err = svc.Login(ctx(), service.LoginRequest{Email: "jignesh@example.com", Password: "wrong"})
	require.Error(t, err)

	rotated, err := svc.RefreshToken(ctx(), service.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The old refresh token is single-use
	_, err = svc.RefreshToken(ctx(), service.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.Error(t, err)
}

func TestUser_InvitationFlow(t *testing.T) {
	db := setupDB(t)
	svc := newUserService(db)

	admin, err := svc.Signup(ctx(), service.SignupRequest{
		OrganizationName: "Patel Builders",
		Username:         "jignesh",
		Email:            "jignesh@example.com",
		Password:         "secret123",
	})
	require.NoError(t, err)

	inv, err := svc.InviteUser(ctx(), admin.OrganizationID, admin.ID, service.InviteUserRequest{
		Email: "site.engineer@example.com",
		Role:  model.RoleUser,
	})
	require.NoError(t, err)
	require.NotEmpty(t, inv.Token)

	joined, err := svc.AcceptInvitation(ctx(), service.AcceptInvitationRequest{
		Token:    inv.Token,
		Username: "ramesh",
		Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, admin.OrganizationID, joined.OrganizationID, "invitee lands in the inviting tenant")
	assert.Equal(t, model.RoleUser, joined.Role)

	// Consumed invitations cannot be reused
	_, err = svc.AcceptInvitation(ctx(), service.AcceptInvitationRequest{
		Token:    inv.Token,
		Username: "someone",
		Password: "password2",
	})
	require.Error(t, err)
}

func TestUser_RevokedInvitationCannotBeAccepted(t *testing.T) {
	db := setupDB(t)
	svc := newUserService(db)

	admin, err := svc.Signup(ctx(), service.SignupRequest{
		OrganizationName: "Patel Builders",
		Username:         "jignesh",
		Email:            "jignesh@example.com",
		Password:         "secret123",
	})
	require.NoError(t, err)

	inv, err := svc.InviteUser(ctx(), admin.OrganizationID, admin.ID, service.InviteUserRequest{
		Email: "mason@example.com",
		Role:  model.RoleUser,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeInvitation(ctx(), admin.OrganizationID, inv.ID))

	_, err = svc.AcceptInvitation(ctx(), service.AcceptInvitationRequest{
		Token:    inv.Token,
		Username: "mason",
		Password: "password1",
	})
	require.Error(t, err)
}
