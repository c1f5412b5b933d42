package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/database"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/model"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/repository"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// fixture is one tenant with a project, an admin and a member user.
type fixture struct {
	db       *gorm.DB
	org      model.Organization
	project  model.Project
	admin    approval.Actor
	member   approval.Actor
	projects service.ProjectService
}

func newFixture(t *testing.T) *fixture {
	db := setupDB(t)

	org := model.Organization{Name: "Shree Constructions"}
	require.NoError(t, db.Create(&org).Error)

	adminUser := model.User{
		OrganizationID: org.ID,
		Username:       "owner",
		Email:          "owner@example.com",
		Password:       "x",
		Role:           model.RoleAdmin,
	}
	require.NoError(t, db.Create(&adminUser).Error)

	memberUser := model.User{
		OrganizationID: org.ID,
		Username:       "supervisor",
		Email:          "supervisor@example.com",
		Password:       "x",
		Role:           model.RoleUser,
	}
	require.NoError(t, db.Create(&memberUser).Error)

	project := model.Project{
		OrganizationID: org.ID,
		Name:           "Riverside Apartments",
		Status:         model.ProjectActive,
		CreatedBy:      adminUser.ID,
	}
	require.NoError(t, db.Create(&project).Error)
	require.NoError(t, db.Create(&model.ProjectMember{ProjectID: project.ID, UserID: memberUser.ID}).Error)

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	return &fixture{
		db:       db,
		org:      org,
		project:  project,
		admin:    approval.Actor{ID: adminUser.ID, OrganizationID: org.ID, Role: model.RoleAdmin},
		member:   approval.Actor{ID: memberUser.ID, OrganizationID: org.ID, Role: model.RoleUser},
		projects: service.NewProjectService(db, userRepo, auditRepo),
	}
}

func (f *fixture) outsider() approval.Actor {
	return approval.Actor{ID: uuid.New(), OrganizationID: f.org.ID, Role: model.RoleUser}
}

func ctx() context.Context {
	return context.Background()
}
