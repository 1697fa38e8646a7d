package dbmodels

import (
	"time"
)

type Order struct {
	BaseModel
	Number      string `gorm:"type:varchar(50);index"`
	ClientID    *string
	Client      *Client `gorm:"foreignKey:ClientID"`
	Description string
	Amount      float64
	Status      string `gorm:"type:varchar(50)"`
	DueDate     *time.Time
	AuthorID    string `gorm:"type:varchar(36)"`
}
