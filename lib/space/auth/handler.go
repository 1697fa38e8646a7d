package authhandler

import (
	"time"

	"biz-tools-backend/db"
	usersstore "biz-tools-backend/lib/space/users/store"
	authutils "biz-tools-backend/lib/utils/auth-utils"
	spaceapimodels "biz-tools-backend/models/api/space"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Login(data spaceapimodels.Login) (spaceapimodels.LoginResponse, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(usersstore.NewInstance(db.DB))
}

func NewInstance(store usersstore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store usersstore.Provider
}

func (i impl) Login(data spaceapimodels.Login) (spaceapimodels.LoginResponse, error) {
	logger := log.WithField("email", data.Email)
	if err := data.Validate(); err != nil {
		return spaceapimodels.LoginResponse{}, err
	}
	rec, err := i.store.GetByEmail(data.Email)
	if err != nil {
		logger.WithError(err).Error("ошибка получения пользователя при входе")
		return spaceapimodels.LoginResponse{}, err
	}
	// одно сообщение для неизвестной почты и неверного пароля
	if rec == nil || rec.Password != authutils.GetMD5Hash(data.Password) {
		return spaceapimodels.LoginResponse{}, errors.New("неверная пара логин/пароль")
	}
	if !rec.IsActive {
		return spaceapimodels.LoginResponse{}, errors.New("пользователь заблокирован")
	}
	token, err := authutils.GetToken(rec.ID, rec.GetFullName(), rec.RoleID)
	if err != nil {
		logger.WithError(err).Error("ошибка выпуска токена")
		return spaceapimodels.LoginResponse{}, err
	}
	if err = i.store.Update(rec.ID, map[string]interface{}{"last_login": time.Now()}); err != nil {
		logger.WithError(err).Warn("не удалось обновить время входа")
	}
	logger.Info("пользователь вошел в систему")
	return spaceapimodels.LoginResponse{
		AccessToken: token,
		User:        rec.ToModel(),
	}, nil
}
