package usershandler

import (
	"biz-tools-backend/db"
	"biz-tools-backend/lib/permissions"
	usersstore "biz-tools-backend/lib/space/users/store"
	authutils "biz-tools-backend/lib/utils/auth-utils"
	spaceapimodels "biz-tools-backend/models/api/space"
	dbmodels "biz-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(actorID string, data spaceapimodels.CreateUser) (spaceapimodels.UserView, error)
	Update(actorID, userID string, data spaceapimodels.UpdateUser) error
	Delete(actorID, userID string) error
	GetByID(userID string) (spaceapimodels.UserView, error)
	GetList(page, limit int) ([]spaceapimodels.UserView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(usersstore.NewInstance(db.DB), permissions.Instance)
}

func NewInstance(store usersstore.Provider, oracle permissions.Provider) Provider {
	return impl{
		store:  store,
		oracle: oracle,
	}
}

type impl struct {
	store  usersstore.Provider
	oracle permissions.Provider
}

func (i impl) GetLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

// Create создает пользователя напрямую, минуя конвейер согласования.
// Действуют те же ограничения на выдачу разрешений, что и при согласовании.
func (i impl) Create(actorID string, data spaceapimodels.CreateUser) (spaceapimodels.UserView, error) {
	logger := log.WithField("actor_id", actorID)
	if err := data.Validate(); err != nil {
		return spaceapimodels.UserView{}, err
	}
	if err := i.checkGrant(actorID, data.RoleID); err != nil {
		return spaceapimodels.UserView{}, err
	}
	exist, err := i.store.ExistByEmail(data.Email)
	if err != nil {
		logger.WithError(err).Error("ошибка проверки почты пользователя")
		return spaceapimodels.UserView{}, err
	}
	if exist {
		return spaceapimodels.UserView{}, errors.New("пользователь с такой почтой уже существует")
	}
	rec := dbmodels.User{
		Password:    authutils.GetMD5Hash(data.Password),
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		RoleID:      data.RoleID,
		IsActive:    true,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания пользователя")
		return spaceapimodels.UserView{}, err
	}
	logger.WithField("user_id", id).Info("создан пользователь")
	return i.GetByID(id)
}

func (i impl) Update(actorID, userID string, data spaceapimodels.UpdateUser) error {
	logger := i.GetLogger(userID).WithField("actor_id", actorID)
	if err := data.UserCommonData.Validate(); err != nil {
		return err
	}
	target, err := i.getRec(userID)
	if err != nil {
		return err
	}
	if err = i.checkTargetAccess(actorID, target); err != nil {
		return err
	}
	if target.RoleID != data.RoleID {
		// смена роли равносильна выдаче разрешений новой роли
		if err = i.checkGrant(actorID, data.RoleID); err != nil {
			return err
		}
	}
	updMap := map[string]interface{}{
		"email":        data.Email,
		"first_name":   data.FirstName,
		"last_name":    data.LastName,
		"phone_number": data.PhoneNumber,
		"role_id":      data.RoleID,
	}
	if data.Password != "" {
		updMap["password"] = authutils.GetMD5Hash(data.Password)
	}
	if err = i.store.Update(userID, updMap); err != nil {
		logger.WithError(err).Error("ошибка изменения пользователя")
		return err
	}
	logger.Info("изменен пользователь")
	return nil
}

func (i impl) Delete(actorID, userID string) error {
	logger := i.GetLogger(userID).WithField("actor_id", actorID)
	target, err := i.getRec(userID)
	if err != nil {
		return err
	}
	if err = i.checkTargetAccess(actorID, target); err != nil {
		return err
	}
	deleted, err := i.store.Delete(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка удаления пользователя")
		return err
	}
	if !deleted {
		return errors.New("пользователь не найден")
	}
	logger.Info("удален пользователь")
	return nil
}

func (i impl) GetByID(userID string) (spaceapimodels.UserView, error) {
	rec, err := i.getRec(userID)
	if err != nil {
		return spaceapimodels.UserView{}, err
	}
	return rec.ToModel(), nil
}

func (i impl) GetList(page, limit int) ([]spaceapimodels.UserView, error) {
	list, err := i.store.GetList(page, limit)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка пользователей")
		return nil, err
	}
	result := make([]spaceapimodels.UserView, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

func (i impl) getRec(userID string) (*dbmodels.User, error) {
	rec, err := i.store.GetByID(userID)
	if err != nil {
		i.GetLogger(userID).WithError(err).Error("ошибка получения пользователя")
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("пользователь не найден")
	}
	return rec, nil
}

func (i impl) checkGrant(actorID, roleID string) error {
	actorPerms, err := i.oracle.UserPermissions(actorID)
	if err != nil {
		return err
	}
	grantedPerms, err := i.oracle.RoleToPermissions(roleID)
	if err != nil {
		return err
	}
	if aErr := permissions.CheckGrant(actorPerms, grantedPerms); aErr != nil {
		return aErr
	}
	return nil
}

func (i impl) checkTargetAccess(actorID string, target *dbmodels.User) error {
	actorPerms, err := i.oracle.UserPermissions(actorID)
	if err != nil {
		return err
	}
	var targetPerms permissions.Set
	if target.Role != nil {
		targetPerms = permissions.NewSet(target.Role.PermissionTokens()...)
	} else {
		targetPerms, err = i.oracle.RoleToPermissions(target.RoleID)
		if err != nil {
			return err
		}
	}
	if aErr := permissions.CheckSuperAdminAccess(actorPerms, targetPerms); aErr != nil {
		return aErr
	}
	return nil
}
