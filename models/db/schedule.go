package dbmodels

import "time"

type Schedule struct {
	BaseModel
	EmployeeID string    `gorm:"type:varchar(36);index"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID"`
	Date       time.Time `gorm:"index"`
	Shift      string    `gorm:"type:varchar(50)"`
	Note       string
}
