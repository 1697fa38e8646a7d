package permissions

import (
	"biz-tools-backend/db"
	rolesstore "biz-tools-backend/lib/roles/store"
	usersstore "biz-tools-backend/lib/space/users/store"
	"biz-tools-backend/models"

	"github.com/pkg/errors"
)

// Provider отвечает на вопросы о разрешениях актора и роли
type Provider interface {
	RoleToPermissions(roleID string) (Set, error)
	UserPermissions(userID string) (Set, error)
	HasPermission(userID string, token models.PermissionToken) (bool, error)
	HasAnyPermission(userID string, tokens []models.PermissionToken) (bool, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		rolesStore: rolesstore.NewInstance(db.DB),
		usersStore: usersstore.NewInstance(db.DB),
	}
}

func NewInstance(rolesStore rolesstore.Provider, usersStore usersstore.Provider) Provider {
	return impl{
		rolesStore: rolesStore,
		usersStore: usersStore,
	}
}

type impl struct {
	rolesStore rolesstore.Provider
	usersStore usersstore.Provider
}

func (i impl) RoleToPermissions(roleID string) (Set, error) {
	role, err := i.rolesStore.GetByID(roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.Errorf("роль не найдена (%v)", roleID)
	}
	return NewSet(role.PermissionTokens()...), nil
}

func (i impl) UserPermissions(userID string) (Set, error) {
	user, err := i.usersStore.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.Errorf("пользователь не найден (%v)", userID)
	}
	if user.Role != nil {
		return NewSet(user.Role.PermissionTokens()...), nil
	}
	return i.RoleToPermissions(user.RoleID)
}

func (i impl) HasPermission(userID string, token models.PermissionToken) (bool, error) {
	set, err := i.UserPermissions(userID)
	if err != nil {
		return false, err
	}
	return set.Contains(token) || set.Contains(models.PermissionSuperAdmin), nil
}

func (i impl) HasAnyPermission(userID string, tokens []models.PermissionToken) (bool, error) {
	set, err := i.UserPermissions(userID)
	if err != nil {
		return false, err
	}
	return set.ContainsAny(tokens) || set.Contains(models.PermissionSuperAdmin), nil
}
