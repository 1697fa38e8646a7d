package spaceapimodels

import (
	"errors"
)

type CreateUser struct {
	Password string `json:"password"`
	UserCommonData
}

func (r CreateUser) Validate() error {
	if r.Password == "" {
		return errors.New("не указан пароль")
	}
	return r.UserCommonData.Validate()
}

type UpdateUser struct {
	Password string `json:"password"`
	UserCommonData
}

type UserView struct {
	ID string `json:"id"`
	UserCommonData
	IsActive bool   `json:"is_active"`
	RoleName string `json:"role_name"` // Название роли
}

type UserCommonData struct {
	Email       string `json:"email"` // Email пользователя
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	RoleID      string `json:"role_id"` // Идентификатор роли
}

func (r UserCommonData) Validate() error {
	if r.Email == "" {
		return errors.New("не указан емайл")
	}
	if r.FirstName == "" && r.LastName == "" {
		return errors.New("не указаны имя и фамилия")
	}
	if r.RoleID == "" {
		return errors.New("не указана роль")
	}
	return nil
}

type Login struct {
	Email    string `json:"email"`    // Email пользователя
	Password string `json:"password"` // Пароль
}

func (r Login) Validate() error {
	if r.Email == "" {
		return errors.New("не указан емайл")
	}
	if r.Password == "" {
		return errors.New("не указан пароль")
	}
	return nil
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	User        UserView `json:"user"`
}

type RoleView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`        // Название роли
	Permissions []string `json:"permissions"` // Набор разрешений
}
