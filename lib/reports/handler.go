package reportshandler

import (
	"biz-tools-backend/db"
	clientsstore "biz-tools-backend/lib/clients/store"
	reportsstore "biz-tools-backend/lib/reports/store"
	dbmodels "biz-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	ConvertToClient(reportID, actorID string) (clientID string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

// ConvertToClient создает постоянного клиента из отчета и помечает отчет
// сконвертированным. Оба изменения выполняются в одной транзакции:
// либо появляются клиент и отметка, либо ничего.
func (i impl) ConvertToClient(reportID, actorID string) (clientID string, err error) {
	logger := log.
		WithField("report_id", reportID).
		WithField("actor_id", actorID)
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		reportsStore := reportsstore.NewInstance(tx)
		clientsStore := clientsstore.NewInstance(tx)

		report, txErr := reportsStore.GetByID(reportID)
		if txErr != nil {
			return txErr
		}
		if report == nil {
			return errors.New("отчет не найден")
		}
		if report.IsConverted() {
			return errors.New("отчет уже сконвертирован в клиента")
		}

		clientID, txErr = clientsStore.Create(dbmodels.Client{
			Name:        report.ClientName,
			Email:       report.Email,
			PhoneNumber: report.PhoneNumber,
			Address:     report.Address,
			Comment:     report.Comment,
			Permanent:   true,
		})
		if txErr != nil {
			return errors.Wrap(txErr, "ошибка создания клиента из отчета")
		}

		updated, txErr := reportsStore.Update(reportID, map[string]interface{}{
			"client_id": clientID,
		})
		if txErr != nil {
			return txErr
		}
		if !updated {
			return errors.New("отчет не найден")
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("ошибка конвертации отчета в клиента")
		return "", err
	}
	logger.WithField("client_id", clientID).Info("отчет сконвертирован в клиента")
	return clientID, nil
}
