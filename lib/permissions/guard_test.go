package permissions

import (
	"testing"

	"biz-tools-backend/models"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	t.Run("подмножество", func(t *testing.T) {
		actor := NewSet(models.PermissionOrdersRead, models.PermissionOrdersWrite, models.PermissionClientsRead)
		require.True(t, NewSet(models.PermissionOrdersRead).IsSubsetOf(actor))
		require.True(t, NewSet().IsSubsetOf(actor))
		require.False(t, NewSet(models.PermissionUsersManage).IsSubsetOf(actor))
	})

	t.Run("разность", func(t *testing.T) {
		granted := NewSet(models.PermissionOrdersWrite, models.PermissionUsersManage)
		actor := NewSet(models.PermissionOrdersRead, models.PermissionOrdersWrite)
		missing := granted.Difference(actor)
		require.Equal(t, []models.PermissionToken{models.PermissionUsersManage}, missing.List())
		require.True(t, actor.Difference(actor).IsEmpty())
	})

	t.Run("сортированный список", func(t *testing.T) {
		set := NewSet(models.PermissionUsersManage, models.PermissionClientsRead, models.PermissionOrdersRead)
		require.Equal(t, []models.PermissionToken{
			models.PermissionClientsRead,
			models.PermissionOrdersRead,
			models.PermissionUsersManage,
		}, set.List())
	})
}

func TestCheckGrant(t *testing.T) {
	reviewer := NewSet(
		models.PermissionApprovalsApply,
		models.PermissionOrdersRead,
		models.PermissionUsersManage,
	)

	t.Run("выдача собственных разрешений", func(t *testing.T) {
		require.Nil(t, CheckGrant(reviewer, NewSet(models.PermissionOrdersRead)))
		require.Nil(t, CheckGrant(reviewer, NewSet()))
	})

	t.Run("выдача недостающих разрешений", func(t *testing.T) {
		err := CheckGrant(reviewer, NewSet(models.PermissionOrdersRead, models.PermissionOrdersWrite))
		require.NotNil(t, err)
		require.Equal(t, models.ErrKindInsufficientPrivilege, err.Kind)
		require.Equal(t, []models.PermissionToken{models.PermissionOrdersWrite}, err.Tokens)
	})

	t.Run("выдача токена суперадмина", func(t *testing.T) {
		err := CheckGrant(reviewer, NewSet(models.PermissionSuperAdmin))
		require.NotNil(t, err)
		require.Equal(t, models.ErrKindInsufficientPrivilege, err.Kind)
		require.Equal(t, []models.PermissionToken{models.PermissionSuperAdmin}, err.Tokens)
	})

	t.Run("суперадмин выдает суперадмина", func(t *testing.T) {
		admin := NewSet(models.PermissionSuperAdmin)
		require.Nil(t, CheckGrant(admin, NewSet(models.PermissionSuperAdmin)))
	})

	t.Run("суперадмин выдает любые разрешения", func(t *testing.T) {
		admin := NewSet(models.PermissionSuperAdmin)
		require.Nil(t, CheckGrant(admin, NewSet(models.PermissionOrdersWrite, models.PermissionUsersManage)))
	})
}

func TestCheckSuperAdminAccess(t *testing.T) {
	reviewer := NewSet(models.PermissionUsersManage)
	admin := NewSet(models.PermissionSuperAdmin)

	require.Nil(t, CheckSuperAdminAccess(reviewer, NewSet(models.PermissionOrdersRead)))
	require.Nil(t, CheckSuperAdminAccess(admin, admin))

	err := CheckSuperAdminAccess(reviewer, admin)
	require.NotNil(t, err)
	require.Equal(t, models.ErrKindInsufficientPrivilege, err.Kind)
}
