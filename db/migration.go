package db

import (
	dbmodels "biz-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Role{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Role")
	}
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры User")
	}
	if err := DB.AutoMigrate(&dbmodels.Client{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Client")
	}
	if err := DB.AutoMigrate(&dbmodels.Order{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Order")
	}
	if err := DB.AutoMigrate(&dbmodels.Report{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Report")
	}
	if err := DB.AutoMigrate(&dbmodels.Employee{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Employee")
	}
	if err := DB.AutoMigrate(&dbmodels.Schedule{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Schedule")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalRequest")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
