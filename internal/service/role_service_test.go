package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-admin-boilerplate/internal/domain"
	"go-admin-boilerplate/internal/repo"
	"go-admin-boilerplate/pkg/utils"
)

func TestSeedIfRequiredCreatesSystemRoles(t *testing.T) {
	f := newFixture(t)

	admin, err := f.roleSvc.GetByName(domain.RoleSystemAdmin)
	require.NoError(t, err)
	assert.True(t, admin.System)
	assert.ElementsMatch(t, domain.AllActions(), []domain.Action(admin.Actions))

	def, err := f.roleSvc.GetByName(domain.RoleDefault)
	require.NoError(t, err)
	assert.True(t, def.System)
	assert.Empty(t, def.Actions)
}

func TestSeedIfRequiredIdempotent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.roleSvc.SeedIfRequired(true))
	require.NoError(t, f.roleSvc.SeedIfRequired(true))

	assert.EqualValues(t, 1, f.countRoles(t, domain.RoleSystemAdmin))
	assert.EqualValues(t, 1, f.countRoles(t, domain.RoleDefault))
}

func TestSeedIfRequiredDisabledByConfig(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db, repo.NewRoleRepo(db), zap.NewNop())

	require.NoError(t, svc.SeedIfRequired(false))

	_, err := svc.GetByName(domain.RoleSystemAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateSystemRolesPrunesRetiredActions(t *testing.T) {
	f := newFixture(t)

	// 直接在仓库层塞一个已下线的动作，模拟历史残留
	stale := &domain.Role{
		ID:      utils.NewID(),
		Name:    "Legacy Role",
		Actions: domain.ActionList{domain.ActionViewUsers, "manage_widgets"},
	}
	require.NoError(t, f.roles.Create(stale))

	require.NoError(t, f.roleSvc.UpdateSystemRoles())

	got, err := f.roleSvc.GetByName("Legacy Role")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionList{domain.ActionViewUsers}, got.Actions)
}

func TestUpdateSystemRolesRestoresAdminGrants(t *testing.T) {
	f := newFixture(t)

	// 绕过服务直接把管理员动作清空
	admin, err := f.roleSvc.GetByName(domain.RoleSystemAdmin)
	require.NoError(t, err)
	admin.Actions = domain.ActionList{}
	require.NoError(t, f.roles.Update(admin))

	require.NoError(t, f.roleSvc.UpdateSystemRoles())

	admin, err = f.roleSvc.GetByName(domain.RoleSystemAdmin)
	require.NoError(t, err)
	assert.ElementsMatch(t, domain.AllActions(), []domain.Action(admin.Actions))
}

func TestCreateRoleRejectsUnknownAction(t *testing.T) {
	f := newFixture(t)
	_, err := f.roleSvc.Create("Broken", "", []string{"no_such_action"})
	assert.Error(t, err)
}

func TestCreateRoleDuplicateName(t *testing.T) {
	f := newFixture(t)

	_, err := f.roleSvc.Create("Support", "", []string{"view_users"})
	require.NoError(t, err)
	_, err = f.roleSvc.Create("Support", "", nil)
	assert.ErrorIs(t, err, domain.ErrRoleNameTaken)
}

func TestUpdateProtectedRoleNameRejected(t *testing.T) {
	f := newFixture(t)

	def, err := f.roleSvc.GetByName(domain.RoleDefault)
	require.NoError(t, err)

	_, err = f.roleSvc.Update(def.ID, "Renamed", "", nil)
	assert.ErrorIs(t, err, domain.ErrRoleProtected)
}

func TestUpdateAdminRoleCannotDropActions(t *testing.T) {
	f := newFixture(t)

	admin, err := f.roleSvc.GetByName(domain.RoleSystemAdmin)
	require.NoError(t, err)

	_, err = f.roleSvc.Update(admin.ID, admin.Name, "", []string{"view_users"})
	assert.ErrorIs(t, err, domain.ErrRoleProtected)
}

func TestUpdateDefaultRoleActionsAllowed(t *testing.T) {
	f := newFixture(t)

	def, err := f.roleSvc.GetByName(domain.RoleDefault)
	require.NoError(t, err)

	got, err := f.roleSvc.Update(def.ID, def.Name, "can look at users now", []string{"view_users"})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionList{domain.ActionViewUsers}, got.Actions)
}

func TestDeleteSystemRoleRejected(t *testing.T) {
	f := newFixture(t)

	def, err := f.roleSvc.GetByName(domain.RoleDefault)
	require.NoError(t, err)

	assert.ErrorIs(t, f.roleSvc.Delete(def.ID, ""), domain.ErrRoleProtected)
}

func TestDeleteRoleInUseNeedsReplacement(t *testing.T) {
	f := newFixture(t)

	support, err := f.roleSvc.Create("Support", "", []string{"view_users"})
	require.NoError(t, err)
	u := f.mustCreateUser(t, "support@test.com", "Support", support.ID, true)

	// 没给替换角色
	assert.ErrorIs(t, f.roleSvc.Delete(support.ID, ""), domain.ErrRoleInUse)

	// 给了替换角色：用户迁走，角色删除
	def, err := f.roleSvc.GetByName(domain.RoleDefault)
	require.NoError(t, err)
	require.NoError(t, f.roleSvc.Delete(support.ID, def.ID))

	moved, err := f.userSvc.Get(u.ID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, moved.RoleID)

	_, err = f.roleSvc.GetByName("Support")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteUnusedRole(t *testing.T) {
	f := newFixture(t)

	r, err := f.roleSvc.Create("Temp", "", nil)
	require.NoError(t, err)
	require.NoError(t, f.roleSvc.Delete(r.ID, ""))

	_, err = f.roleSvc.GetByName("Temp")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
