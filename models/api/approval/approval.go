package approvalapimodels

import (
	"time"

	"biz-tools-backend/models"
	apimodels "biz-tools-backend/models/api"
	dbmodels "biz-tools-backend/models/db"

	"github.com/pkg/errors"
)

type SubmitRequest struct {
	TargetKind  models.TargetKind      `json:"target_kind"` // Тип целевой сущности (USER/ORDER/CLIENT/REPORT/EMPLOYEE/SCHEDULE)
	Action      models.ApprovalAction  `json:"action"`      // Действие (CREATE/UPDATE/DELETE)
	ObjectID    string                 `json:"object_id"`   // Идентификатор целевой сущности (для UPDATE/DELETE)
	NewData     map[string]interface{} `json:"new_data"`    // Данные новой сущности (для CREATE)
	Changes     []FieldChange          `json:"changes"`     // Список изменений (для UPDATE)
	DeletedData map[string]interface{} `json:"deleted_data"`
}

func (r SubmitRequest) Validate() error {
	if !r.TargetKind.IsValid() {
		return models.NewApprovalErrorf(models.ErrKindValidation, "недопустимый тип целевой сущности: %v", r.TargetKind)
	}
	if !r.Action.IsValid() {
		return models.NewApprovalErrorf(models.ErrKindValidation, "недопустимое действие: %v", r.Action)
	}
	switch r.Action {
	case models.ActionCreate:
		if len(r.NewData) == 0 {
			return models.NewApprovalError(models.ErrKindValidation, "не указаны данные создаваемой сущности")
		}
		if r.ObjectID != "" {
			return models.NewApprovalError(models.ErrKindValidation, "идентификатор объекта не указывается при создании")
		}
	case models.ActionUpdate:
		if r.ObjectID == "" {
			return models.NewApprovalError(models.ErrKindValidation, "не указан идентификатор изменяемого объекта")
		}
		if len(r.Changes) == 0 {
			return models.NewApprovalError(models.ErrKindValidation, "не указан список изменений")
		}
	case models.ActionDelete:
		if r.ObjectID == "" {
			return models.NewApprovalError(models.ErrKindValidation, "не указан идентификатор удаляемого объекта")
		}
	}
	return nil
}

type FieldChange struct {
	Field    string      `json:"field"`     // Измененное поле
	OldValue interface{} `json:"old_value"` // Старое значение
	NewValue interface{} `json:"new_value"` // Новое значение
}

// ToEntityChanges формирует список изменений для хранения,
// для полей-списков дополнительно считается сводка added/removed
func ToEntityChanges(changes []FieldChange) dbmodels.EntityChanges {
	result := make(dbmodels.EntityChanges, 0, len(changes))
	for _, change := range changes {
		rec := dbmodels.EntityChange{
			Field:    change.Field,
			OldValue: change.OldValue,
			NewValue: change.NewValue,
		}
		oldList, oldOk := toStringList(change.OldValue)
		newList, newOk := toStringList(change.NewValue)
		if oldOk || newOk {
			rec.Added = diffList(newList, oldList)
			rec.Removed = diffList(oldList, newList)
		}
		result = append(result, rec)
	}
	return result
}

func toStringList(value interface{}) ([]string, bool) {
	switch list := value.(type) {
	case []string:
		return list, true
	case []interface{}:
		result := make([]string, 0, len(list))
		for _, item := range list {
			strItem, ok := item.(string)
			if !ok {
				return nil, false
			}
			result = append(result, strItem)
		}
		return result, true
	}
	return nil, false
}

func diffList(list, other []string) []string {
	otherMap := map[string]bool{}
	for _, item := range other {
		otherMap[item] = true
	}
	result := []string{}
	for _, item := range list {
		if !otherMap[item] {
			result = append(result, item)
		}
	}
	return result
}

type ApprovalView struct {
	ID            string                  `json:"id"`
	TargetKind    models.TargetKind       `json:"target_kind"`
	TargetHuman   string                  `json:"target_human"`
	Action        models.ApprovalAction   `json:"action"`
	ActionHuman   string                  `json:"action_human"`
	ObjectID      string                  `json:"object_id,omitempty"`
	NewData       map[string]interface{}  `json:"new_data,omitempty"`
	Changes       []dbmodels.EntityChange `json:"changes,omitempty"`
	DeletedData   map[string]interface{}  `json:"deleted_data,omitempty"`
	RequestedBy   string                  `json:"requested_by"`
	RequesterName string                  `json:"requester_name,omitempty"`
	ReviewedBy    string                  `json:"reviewed_by,omitempty"`
	ReviewerName  string                  `json:"reviewer_name,omitempty"`
	Status        models.ApprovalStatus   `json:"status"`
	StatusHuman   string                  `json:"status_human"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

func ApprovalConvert(rec dbmodels.ApprovalRequest) ApprovalView {
	view := ApprovalView{
		ID:          rec.ID,
		TargetKind:  rec.TargetKind,
		TargetHuman: rec.TargetKind.ToHuman(),
		Action:      rec.Action,
		ActionHuman: rec.Action.ToHuman(),
		ObjectID:    rec.ObjectID,
		NewData:     rec.NewData,
		Changes:     rec.Changes,
		DeletedData: rec.DeletedData,
		RequestedBy: rec.RequestedBy,
		Status:      rec.Status,
		StatusHuman: rec.Status.ToHuman(),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.Requester != nil {
		view.RequesterName = rec.Requester.GetFullName()
	}
	if rec.ReviewedBy != nil {
		view.ReviewedBy = *rec.ReviewedBy
	}
	if rec.Reviewer != nil {
		view.ReviewerName = rec.Reviewer.GetFullName()
	}
	return view
}

type ApprovalFilter struct {
	apimodels.Pagination
	Filtered      bool                    `json:"filtered"`       // Режим фильтрации (true + пустой фильтр = ошибка)
	RequesterName string                  `json:"requester_name"` // Поиск по ФИО автора заявки
	TargetKind    models.TargetKind       `json:"target_kind"`    // Тип целевой сущности
	Action        models.ApprovalAction   `json:"action"`         // Действие
	Statuses      []models.ApprovalStatus `json:"statuses"`       // Статусы (объединяются через ИЛИ)
	CreatedFrom   string                  `json:"created_from"`   // Дата создания "с" ДД.ММ.ГГГГ
	CreatedTo     string                  `json:"created_to"`     // Дата создания "по" ДД.ММ.ГГГГ
}

func (r ApprovalFilter) Validate() error {
	if r.TargetKind != "" && !r.TargetKind.IsValid() {
		return models.NewApprovalErrorf(models.ErrKindValidation, "недопустимый тип целевой сущности: %v", r.TargetKind)
	}
	if r.Action != "" && !r.Action.IsValid() {
		return models.NewApprovalErrorf(models.ErrKindValidation, "недопустимое действие: %v", r.Action)
	}
	for _, status := range r.Statuses {
		if !status.IsValid() {
			return models.NewApprovalErrorf(models.ErrKindValidation, "недопустимый статус: %v", status)
		}
	}
	if _, err := r.GetCreatedFrom(); err != nil {
		return models.NewApprovalError(models.ErrKindValidation, "некоректный формат даты создания \"с\"")
	}
	if _, err := r.GetCreatedTo(); err != nil {
		return models.NewApprovalError(models.ErrKindValidation, "некоректный формат даты создания \"по\"")
	}
	if r.Filtered && !r.HasAnyFilter() {
		return models.NewApprovalError(models.ErrKindNoFilter, "не указан ни один фильтр")
	}
	return nil
}

func (r ApprovalFilter) HasAnyFilter() bool {
	return r.RequesterName != "" ||
		r.TargetKind != "" ||
		r.Action != "" ||
		len(r.Statuses) != 0 ||
		r.CreatedFrom != "" ||
		r.CreatedTo != ""
}

func (r ApprovalFilter) GetCreatedFrom() (time.Time, error) {
	return parseFilterDate(r.CreatedFrom)
}

func (r ApprovalFilter) GetCreatedTo() (time.Time, error) {
	return parseFilterDate(r.CreatedTo)
}

func parseFilterDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse("02.01.2006", value)
	if err != nil {
		return time.Time{}, err
	}
	return date, nil
}

type ResolveRequest struct {
	Decision models.ResolveDecision `json:"decision"` // Решение (APPROVE/REJECT)
}

func (r ResolveRequest) Validate() error {
	if !r.Decision.IsValid() {
		return errors.Errorf("недопустимое решение: %v", r.Decision)
	}
	return nil
}

type ResolveManyRequest struct {
	ApprovalIDs []string               `json:"approval_ids"` // Идентификаторы заявок
	Decision    models.ResolveDecision `json:"decision"`     // Решение (APPROVE/REJECT)
}

func (r ResolveManyRequest) Validate() error {
	if len(r.ApprovalIDs) == 0 {
		return errors.New("не указаны заявки на согласование")
	}
	if !r.Decision.IsValid() {
		return errors.Errorf("недопустимое решение: %v", r.Decision)
	}
	return nil
}

// ErrorDescriptor - описание ошибки по отдельной заявке пакетного решения
type ErrorDescriptor struct {
	ApprovalID string                   `json:"approval_id"`
	Kind       models.ApprovalErrorKind `json:"kind"`
	Message    string                   `json:"message"`
	Tokens     []models.PermissionToken `json:"tokens,omitempty"`
}

type ResolveManyResult struct {
	Successful []ApprovalView    `json:"successful"`
	Errors     []ErrorDescriptor `json:"errors"`
}
