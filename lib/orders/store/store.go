package ordersstore

import (
	dbmodels "biz-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Order) (id string, err error)
	GetByID(id string) (rec *dbmodels.Order, err error)
	Update(id string, updMap map[string]interface{}) (updated bool, err error)
	Delete(id string) (deleted bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Order) (id string, err error) {
	err = i.db.
		Omit("Client").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Order, error) {
	rec := dbmodels.Order{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) Update(id string, updMap map[string]interface{}) (updated bool, err error) {
	if len(updMap) == 0 {
		return true, nil
	}
	tx := i.db.
		Model(&dbmodels.Order{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) Delete(id string) (deleted bool, err error) {
	tx := i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Order{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
