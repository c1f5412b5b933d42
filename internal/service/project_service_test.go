package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
)

func TestProject_AdminSeesAllMembersOnlyTheirs(t *testing.T) {
	f := newFixture(t)

	second, err := f.projects.Create(ctx(), f.admin, service.CreateProjectRequest{Name: "Highway Bridge"})
	require.NoError(t, err)

	// Admin: both projects
	all, total, err := f.projects.List(ctx(), f.admin, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	// Member: only the seeded project
	mine, total, err := f.projects.List(ctx(), f.member, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, f.project.ID, mine[0].ID)

	ok, err := f.projects.CanAccess(ctx(), f.member, second.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProject_MembershipGrantsAccess(t *testing.T) {
	f := newFixture(t)

	second, err := f.projects.Create(ctx(), f.admin, service.CreateProjectRequest{Name: "Warehouse"})
	require.NoError(t, err)

	require.NoError(t, f.projects.AddMember(ctx(), f.admin, second.ID, f.member.ID))

	ok, err := f.projects.CanAccess(ctx(), f.member, second.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.projects.RemoveMember(ctx(), f.admin, second.ID, f.member.ID))
	ok, err = f.projects.CanAccess(ctx(), f.member, second.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProject_MutationsAreAdminOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.projects.Create(ctx(), f.member, service.CreateProjectRequest{Name: "Rogue Site"})
	assert.ErrorIs(t, err, approval.ErrForbidden)

	err = f.projects.AddMember(ctx(), f.member, f.project.ID, f.member.ID)
	assert.ErrorIs(t, err, approval.ErrForbidden)

	err = f.projects.Delete(ctx(), f.member, f.project.ID)
	assert.ErrorIs(t, err, approval.ErrForbidden)
}

func TestProject_InvalidStatusRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.projects.Update(ctx(), f.admin, f.project.ID, service.UpdateProjectRequest{Status: "PAUSED"})
	require.Error(t, err)

	updated, err := f.projects.Update(ctx(), f.admin, f.project.ID, service.UpdateProjectRequest{Status: "COMPLETED"})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", updated.Status)
}
