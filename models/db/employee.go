package dbmodels

import "fmt"

type Employee struct {
	BaseModel
	FirstName   string `gorm:"type:varchar(150)"`
	LastName    string `gorm:"type:varchar(150)"`
	JobTitle    string `gorm:"type:varchar(255)"`
	Email       string `gorm:"type:varchar(255)"`
	PhoneNumber string `gorm:"type:varchar(15)"`
}

func (r Employee) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}
