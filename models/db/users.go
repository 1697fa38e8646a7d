package dbmodels

import (
	"fmt"
	"time"

	"biz-tools-backend/models"
	spaceapimodels "biz-tools-backend/models/api/space"

	"github.com/lib/pq"
)

type User struct {
	BaseModel
	Password    string `gorm:"type:varchar(128)"`
	FirstName   string `gorm:"type:varchar(150)"`
	LastName    string `gorm:"type:varchar(150)"`
	Email       string `gorm:"type:varchar(255);index"`
	IsActive    bool
	PhoneNumber string `gorm:"type:varchar(15)"`
	RoleID      string `gorm:"type:varchar(36)"`
	Role        *Role  `gorm:"foreignKey:RoleID"`
	LastLogin   time.Time
}

func (r User) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

func (r User) ToModel() spaceapimodels.UserView {
	view := spaceapimodels.UserView{
		ID: r.ID,
		UserCommonData: spaceapimodels.UserCommonData{
			Email:       r.Email,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			PhoneNumber: r.PhoneNumber,
			RoleID:      r.RoleID,
		},
		IsActive: r.IsActive,
	}
	if r.Role != nil {
		view.RoleName = r.Role.Name
	}
	return view
}

type Role struct {
	BaseModel
	Name        string         `gorm:"type:varchar(150)"`
	Permissions pq.StringArray `gorm:"type:text[]"`
}

func (r Role) PermissionTokens() []models.PermissionToken {
	tokens := make([]models.PermissionToken, 0, len(r.Permissions))
	for _, permission := range r.Permissions {
		tokens = append(tokens, models.PermissionToken(permission))
	}
	return tokens
}
