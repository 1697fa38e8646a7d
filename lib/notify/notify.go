package notify

import (
	"fmt"

	"biz-tools-backend/lib/smtp"
	"biz-tools-backend/models"
	dbmodels "biz-tools-backend/models/db"

	log "github.com/sirupsen/logrus"
)

// Provider уведомляет автора заявки о принятом решении
type Provider interface {
	ApprovalResolved(rec dbmodels.ApprovalRequest, decision models.ApprovalStatus)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		smtpClient: smtp.Instance,
	}
}

type impl struct {
	smtpClient smtp.Provider
}

func (i impl) ApprovalResolved(rec dbmodels.ApprovalRequest, decision models.ApprovalStatus) {
	logger := log.
		WithField("approval_id", rec.ID).
		WithField("requested_by", rec.RequestedBy)
	if rec.Requester == nil || rec.Requester.Email == "" {
		logger.Warn("уведомление о решении не отправлено, автор заявки без почты")
		return
	}
	subject := "Решение по заявке на согласование"
	message := fmt.Sprintf("Заявка \"%s: %s\" %s.",
		rec.TargetKind.ToHuman(), rec.Action.ToHuman(), decision.ToHuman())
	err := i.smtpClient.SendEMail(rec.Requester.Email, subject, message)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки уведомления о решении по заявке")
	}
}

// NoOp - заглушка для окружений без smtp
type NoOp struct{}

func (NoOp) ApprovalResolved(rec dbmodels.ApprovalRequest, decision models.ApprovalStatus) {}
