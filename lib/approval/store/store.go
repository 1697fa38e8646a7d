package approvalstore

import (
	"time"

	"biz-tools-backend/models"
	approvalapimodels "biz-tools-backend/models/api/approval"
	dbmodels "biz-tools-backend/models/db"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalRequest) (id string, err error)
	GetByID(id string) (rec *dbmodels.ApprovalRequest, err error)
	Resolve(id string, newStatus models.ApprovalStatus, reviewedBy string) (resolved bool, err error)
	ListCount(filter approvalapimodels.ApprovalFilter, requesterIDs []string) (count int64, err error)
	List(filter approvalapimodels.ApprovalFilter, requesterIDs []string) (list []dbmodels.ApprovalRequest, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalRequest) (id string, err error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	err = i.db.
		Omit("Requester", "Reviewer").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ApprovalRequest, error) {
	rec := dbmodels.ApprovalRequest{}
	err := i.db.
		Where("id = ?", id).
		Preload("Requester").
		Preload("Reviewer").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Resolve переводит заявку в терминальный статус одним условным обновлением.
// Условие status = PENDING в выборке закрывает гонку двойного решения:
// если запись уже решена, обновление не затронет ни одной строки.
func (i impl) Resolve(id string, newStatus models.ApprovalStatus, reviewedBy string) (resolved bool, err error) {
	tx := i.db.
		Model(&dbmodels.ApprovalRequest{}).
		Where("id = ?", id).
		Where("status = ?", models.ApprovalStatusPending).
		Updates(map[string]interface{}{
			"status":      newStatus,
			"reviewed_by": reviewedBy,
			"updated_at":  time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListCount(filter approvalapimodels.ApprovalFilter, requesterIDs []string) (count int64, err error) {
	var rowCount int64
	tx := i.db.
		Model(&dbmodels.ApprovalRequest{})
	i.addFilter(tx, filter, requesterIDs)
	err = tx.Count(&rowCount).Error
	if err != nil {
		log.WithError(err).Error("ошибка получения общего количества заявок на согласование")
		return 0, errors.New("ошибка получения общего количества заявок на согласование")
	}
	return rowCount, nil
}

func (i impl) List(filter approvalapimodels.ApprovalFilter, requesterIDs []string) (list []dbmodels.ApprovalRequest, err error) {
	list = []dbmodels.ApprovalRequest{}
	tx := i.db.
		Model(&dbmodels.ApprovalRequest{})
	i.addFilter(tx, filter, requesterIDs)
	i.addSort(tx)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err = tx.
		Preload("Requester").
		Preload("Reviewer").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter approvalapimodels.ApprovalFilter, requesterIDs []string) {
	if requesterIDs != nil {
		tx = tx.Where("requested_by IN ?", requesterIDs)
	}
	if filter.TargetKind != "" {
		tx = tx.Where("target_kind = ?", filter.TargetKind)
	}
	if filter.Action != "" {
		tx = tx.Where("action = ?", filter.Action)
	}
	if len(filter.Statuses) != 0 {
		tx = tx.Where("status IN ?", filter.Statuses)
	}
	if createdFrom, err := filter.GetCreatedFrom(); err == nil && !createdFrom.IsZero() {
		tx = tx.Where("created_at >= ?", createdFrom)
	}
	if createdTo, err := filter.GetCreatedTo(); err == nil && !createdTo.IsZero() {
		// дата "по" включительно
		tx = tx.Where("created_at < ?", createdTo.AddDate(0, 0, 1))
	}
}

// сортировка по умолчанию: сначала нерассмотренные, внутри группы - новые выше
func (i impl) addSort(tx *gorm.DB) {
	tx.
		Order("(status = 'PENDING') DESC").
		Order("created_at DESC")
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.
		Offset(offset).
		Limit(limit)
}
