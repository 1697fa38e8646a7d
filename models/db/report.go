package dbmodels

type Report struct {
	BaseModel
	ClientName  string `gorm:"type:varchar(255)"`
	Email       string `gorm:"type:varchar(255)"`
	PhoneNumber string `gorm:"type:varchar(15)"`
	Address     string `gorm:"type:varchar(512)"`
	Comment     string
	AuthorID    string `gorm:"type:varchar(36)"`
	// заполняется при конвертации отчета в постоянного клиента
	ClientID *string
	Client   *Client `gorm:"foreignKey:ClientID"`
}

func (r Report) IsConverted() bool {
	return r.ClientID != nil && *r.ClientID != ""
}
