package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"biz-tools-backend/models"
)

type ApprovalRequest struct {
	BaseModel
	TargetKind  models.TargetKind     `gorm:"type:varchar(50);index:idx_target"`
	Action      models.ApprovalAction `gorm:"type:varchar(50);index:idx_target"`
	ObjectID    string                `gorm:"type:varchar(36)"` // пусто при создании новой сущности
	NewData     EntityData            `gorm:"type:jsonb"`
	Changes     EntityChanges         `gorm:"type:jsonb"`
	DeletedData EntityData            `gorm:"type:jsonb"`
	RequestedBy string                `gorm:"type:varchar(36);index"`
	Requester   *User                 `gorm:"foreignKey:RequestedBy"`
	ReviewedBy  *string               `gorm:"type:varchar(36)"`
	Reviewer    *User                 `gorm:"foreignKey:ReviewedBy"`
	Status      models.ApprovalStatus `gorm:"type:varchar(50);index"`
}

// EntityData - произвольный снимок сущности (new_data/deleted_data)
type EntityData map[string]interface{}

func (j EntityData) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *EntityData) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

type EntityChanges []EntityChange

func (j EntityChanges) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *EntityChanges) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

type EntityChange struct {
	Field    string      `json:"field"`     // Измененное поле
	OldValue interface{} `json:"old_value"` // Старое значение
	NewValue interface{} `json:"new_value"` // Новое значение
	// для полей-списков хранится производная сводка
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// UpdMap - карта изменений для точечного обновления записи
func (j EntityChanges) UpdMap() map[string]interface{} {
	updMap := map[string]interface{}{}
	for _, change := range j {
		updMap[change.Field] = change.NewValue
	}
	return updMap
}
