package dbmodels

type Client struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);index"`
	Inn         string `gorm:"type:varchar(12)"`
	Email       string `gorm:"type:varchar(255)"`
	PhoneNumber string `gorm:"type:varchar(15)"`
	Address     string `gorm:"type:varchar(512)"`
	Comment     string
	// постоянный клиент, созданный из отчета или вручную
	Permanent bool
}
