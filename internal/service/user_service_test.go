package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-admin-boilerplate/internal/domain"
	"go-admin-boilerplate/pkg/utils"
)

func TestCreateUserHashesPassword(t *testing.T) {
	f := newFixture(t)
	defaultRole, err := f.roleSvc.GetByName(domain.RoleDefault)
	require.NoError(t, err)

	u, err := f.userSvc.Create(CreateUserInput{
		Email:     "new@test.com",
		FirstName: "New",
		LastName:  "User",
		Password:  testPassword,
		RoleID:    defaultRole.ID,
	})
	require.NoError(t, err)
	assert.True(t, u.Active)
	assert.NotEqual(t, testPassword, u.PasswordHash, "plaintext must never be stored")
	assert.True(t, utils.CheckPassword(testPassword, u.PasswordHash))
	assert.False(t, utils.CheckPassword("WrongPassword123!", u.PasswordHash))
}

func TestCreateUserRejectsWeakPassword(t *testing.T) {
	f := newFixture(t)
	defaultRole, err := f.roleSvc.GetByName(domain.RoleDefault)
	require.NoError(t, err)

	_, err = f.userSvc.Create(CreateUserInput{
		Email:     "weak@test.com",
		FirstName: "Weak",
		LastName:  "User",
		Password:  "short",
		RoleID:    defaultRole.ID,
	})
	var pv *domain.PolicyViolation
	require.ErrorAs(t, err, &pv)
	assert.NotEmpty(t, pv.Rules, "every broken rule is reported")
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := newFixture(t)

	// 大小写不同也算重复
	_, err := f.userSvc.Create(CreateUserInput{
		Email:     "Admin@Test.com",
		FirstName: "Dup",
		LastName:  "User",
		Password:  testPassword,
		RoleID:    f.admin.RoleID,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestCreateUserUnknownRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.userSvc.Create(CreateUserInput{
		Email:     "orphan@test.com",
		FirstName: "Orphan",
		LastName:  "User",
		Password:  testPassword,
		RoleID:    utils.NewID(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateUserChangesRole(t *testing.T) {
	f := newFixture(t)
	adminRole, err := f.roleSvc.GetByName(domain.RoleSystemAdmin)
	require.NoError(t, err)

	u, err := f.userSvc.Update(f.regular.ID, UpdateUserInput{
		Email:     "user@test.com",
		FirstName: "Promoted",
		LastName:  "User",
		RoleID:    adminRole.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Promoted", u.FirstName)
	assert.True(t, u.Can(domain.ActionViewRoles))
	// 没传密码则散列不动
	assert.True(t, utils.CheckPassword(testPassword, u.PasswordHash))
}

func TestSetPasswordRoundTrip(t *testing.T) {
	f := newFixture(t)
	const next = "RotatedSecret77$!"

	require.NoError(t, f.userSvc.SetPassword(f.regular.ID, next))

	u, err := f.userSvc.Get(f.regular.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword(next, u.PasswordHash))
	assert.False(t, utils.CheckPassword(testPassword, u.PasswordHash))
}

func TestToggleActiveCutsPermissionsImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, _, err := f.authSvc.Login(ctx, "admin@test.com", testPassword)
	require.NoError(t, err)

	u, err := f.userSvc.ToggleActive(f.admin.ID)
	require.NoError(t, err)
	assert.False(t, u.Active)
	for _, a := range domain.AllActions() {
		assert.False(t, u.Can(a), "inactive user keeps no grants")
	}

	// 老会话还在，但解析出的用户已经停用
	got, err := f.authSvc.CurrentUser(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Active)

	// 再切一次恢复
	u, err = f.userSvc.ToggleActive(f.admin.ID)
	require.NoError(t, err)
	assert.True(t, u.Active)
	assert.True(t, u.Can(domain.ActionViewUsers))
}

func TestListUsersClampsLimit(t *testing.T) {
	f := newFixture(t)

	users, total, err := f.userSvc.List(0, 0, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 3)

	// 按邮箱过滤
	users, total, err = f.userSvc.List(0, 50, "admin@")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, f.admin.ID, users[0].ID)
}
