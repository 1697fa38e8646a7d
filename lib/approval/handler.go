package approvalhandler

import (
	"encoding/json"
	"sync"

	"biz-tools-backend/db"
	approvalstore "biz-tools-backend/lib/approval/store"
	clientsstore "biz-tools-backend/lib/clients/store"
	employeesstore "biz-tools-backend/lib/employees/store"
	"biz-tools-backend/lib/notify"
	ordersstore "biz-tools-backend/lib/orders/store"
	"biz-tools-backend/lib/permissions"
	reportsstore "biz-tools-backend/lib/reports/store"
	schedulesstore "biz-tools-backend/lib/schedules/store"
	usersstore "biz-tools-backend/lib/space/users/store"
	authutils "biz-tools-backend/lib/utils/auth-utils"
	"biz-tools-backend/models"
	approvalapimodels "biz-tools-backend/models/api/approval"
	spaceapimodels "biz-tools-backend/models/api/space"
	dbmodels "biz-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Submit(requestedBy string, data approvalapimodels.SubmitRequest) (approvalapimodels.ApprovalView, error)
	ResolveOne(approvalID string, decision models.ResolveDecision, reviewedBy string) (approvalapimodels.ApprovalView, error)
	ResolveMany(request approvalapimodels.ResolveManyRequest, reviewedBy string) (approvalapimodels.ResolveManyResult, error)
	List(filter approvalapimodels.ApprovalFilter) (list []approvalapimodels.ApprovalView, rowCount int64, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(
		approvalstore.NewInstance(db.DB),
		usersstore.NewInstance(db.DB),
		permissions.Instance,
		ordersstore.NewInstance(db.DB),
		clientsstore.NewInstance(db.DB),
		reportsstore.NewInstance(db.DB),
		employeesstore.NewInstance(db.DB),
		schedulesstore.NewInstance(db.DB),
		notify.Instance,
	)
}

func NewInstance(
	store approvalstore.Provider,
	usersStore usersstore.Provider,
	oracle permissions.Provider,
	ordersStore ordersstore.Provider,
	clientsStore clientsstore.Provider,
	reportsStore reportsstore.Provider,
	employeesStore employeesstore.Provider,
	schedulesStore schedulesstore.Provider,
	notifier notify.Provider,
) Provider {
	return impl{
		store:          store,
		usersStore:     usersStore,
		oracle:         oracle,
		ordersStore:    ordersStore,
		clientsStore:   clientsStore,
		reportsStore:   reportsStore,
		employeesStore: employeesStore,
		schedulesStore: schedulesStore,
		notifier:       notifier,
	}
}

type impl struct {
	store          approvalstore.Provider
	usersStore     usersstore.Provider
	oracle         permissions.Provider
	ordersStore    ordersstore.Provider
	clientsStore   clientsstore.Provider
	reportsStore   reportsstore.Provider
	employeesStore employeesstore.Provider
	schedulesStore schedulesstore.Provider
	notifier       notify.Provider
}

func (i impl) GetLogger(approvalID string) *log.Entry {
	return log.WithField("approval_id", approvalID)
}

// Submit регистрирует заявку на согласование.
// Целевая сущность на этом шаге не изменяется.
func (i impl) Submit(requestedBy string, data approvalapimodels.SubmitRequest) (approvalapimodels.ApprovalView, error) {
	logger := log.
		WithField("requested_by", requestedBy).
		WithField("target_kind", data.TargetKind).
		WithField("action", data.Action)
	if err := data.Validate(); err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	rec := dbmodels.ApprovalRequest{
		TargetKind:  data.TargetKind,
		Action:      data.Action,
		ObjectID:    data.ObjectID,
		NewData:     data.NewData,
		Changes:     approvalapimodels.ToEntityChanges(data.Changes),
		RequestedBy: requestedBy,
		Status:      models.ApprovalStatusPending,
	}
	if data.Action != models.ActionCreate {
		snapshot, aErr := i.targetSnapshot(data.TargetKind, data.ObjectID)
		if aErr != nil {
			return approvalapimodels.ApprovalView{}, aErr
		}
		if data.Action == models.ActionDelete {
			// снимок удаляемой сущности сохраняется на стороне сервера
			rec.DeletedData = snapshot
		}
	}
	id, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания заявки на согласование")
		return approvalapimodels.ApprovalView{}, err
	}
	created, err := i.getRec(id)
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	logger.WithField("approval_id", id).Info("создана заявка на согласование")
	return approvalapimodels.ApprovalConvert(*created), nil
}

func (i impl) ResolveOne(approvalID string, decision models.ResolveDecision, reviewedBy string) (approvalapimodels.ApprovalView, error) {
	logger := i.GetLogger(approvalID).
		WithField("reviewed_by", reviewedBy).
		WithField("decision", decision)
	rec, err := i.getRec(approvalID)
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	if rec.Status.IsTerminal() {
		return approvalapimodels.ApprovalView{}, models.NewApprovalErrorf(models.ErrKindAlreadyResolved,
			"заявка уже рассмотрена (%v)", rec.Status.ToHuman())
	}

	newStatus := models.ApprovalStatusRejected
	if decision == models.DecisionApprove {
		newStatus = models.ApprovalStatusApproved
		// сначала применяем изменение к целевой сущности;
		// при ошибке заявка остается PENDING и может быть решена повторно
		if err = i.apply(*rec, reviewedBy); err != nil {
			logger.WithError(err).Error("ошибка применения заявки на согласование")
			return approvalapimodels.ApprovalView{}, err
		}
	}

	resolved, err := i.store.Resolve(approvalID, newStatus, reviewedBy)
	if err != nil {
		logger.WithError(err).Error("ошибка обновления статуса заявки")
		return approvalapimodels.ApprovalView{}, err
	}
	if !resolved {
		return approvalapimodels.ApprovalView{}, models.NewApprovalError(models.ErrKindAlreadyResolved,
			"заявка уже рассмотрена другим пользователем")
	}
	logger.Info("заявка рассмотрена")

	resolvedRec, err := i.getRec(approvalID)
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	i.notifier.ApprovalResolved(*resolvedRec, newStatus)
	return approvalapimodels.ApprovalConvert(*resolvedRec), nil
}

// ResolveMany решает заявки независимо и параллельно,
// ошибка одной заявки не останавливает остальные
func (i impl) ResolveMany(request approvalapimodels.ResolveManyRequest, reviewedBy string) (approvalapimodels.ResolveManyResult, error) {
	if err := request.Validate(); err != nil {
		return approvalapimodels.ResolveManyResult{}, err
	}
	result := approvalapimodels.ResolveManyResult{
		Successful: []approvalapimodels.ApprovalView{},
		Errors:     []approvalapimodels.ErrorDescriptor{},
	}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, id := range request.ApprovalIDs {
		wg.Add(1)
		go func(approvalID string) {
			defer wg.Done()
			view, err := i.ResolveOne(approvalID, request.Decision, reviewedBy)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, newErrorDescriptor(approvalID, err))
				return
			}
			result.Successful = append(result.Successful, view)
		}(id)
	}
	wg.Wait()
	return result, nil
}

func newErrorDescriptor(approvalID string, err error) approvalapimodels.ErrorDescriptor {
	if aErr, ok := models.AsApprovalError(err); ok {
		return approvalapimodels.ErrorDescriptor{
			ApprovalID: approvalID,
			Kind:       aErr.Kind,
			Message:    aErr.Message,
			Tokens:     aErr.Tokens,
		}
	}
	return approvalapimodels.ErrorDescriptor{
		ApprovalID: approvalID,
		Kind:       models.ErrKindApplyFailed,
		Message:    err.Error(),
	}
}

func (i impl) List(filter approvalapimodels.ApprovalFilter) (list []approvalapimodels.ApprovalView, rowCount int64, err error) {
	if err = filter.Validate(); err != nil {
		return nil, 0, err
	}
	var requesterIDs []string
	if filter.RequesterName != "" {
		requesterIDs, err = i.usersStore.FindIDsByName(filter.RequesterName)
		if err != nil {
			log.WithError(err).Error("ошибка поиска авторов заявок по имени")
			return nil, 0, err
		}
		if len(requesterIDs) == 0 {
			// фильтр задан, но никто не подошел
			return []approvalapimodels.ApprovalView{}, 0, nil
		}
	}
	rowCount, err = i.store.ListCount(filter, requesterIDs)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []approvalapimodels.ApprovalView{}, rowCount, nil
	}
	recList, err := i.store.List(filter, requesterIDs)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка заявок на согласование")
		return nil, 0, err
	}
	result := make([]approvalapimodels.ApprovalView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, approvalapimodels.ApprovalConvert(rec))
	}
	return result, rowCount, nil
}

// apply выполняет запрошенное изменение целевой сущности,
// диспетчеризация по паре (цель, действие)
func (i impl) apply(rec dbmodels.ApprovalRequest, reviewedBy string) error {
	switch rec.TargetKind {
	case models.TargetUser:
		switch rec.Action {
		case models.ActionCreate:
			return i.applyUserCreate(rec, reviewedBy)
		case models.ActionDelete:
			return i.applyUserDelete(rec, reviewedBy)
		}
	case models.TargetOrder:
		if rec.Action == models.ActionDelete {
			return i.applyDelete(rec, i.ordersStore.Delete)
		}
	case models.TargetClient:
		if rec.Action == models.ActionDelete {
			return i.applyDelete(rec, i.clientsStore.Delete)
		}
	case models.TargetEmployee:
		if rec.Action == models.ActionDelete {
			return i.applyDelete(rec, i.employeesStore.Delete)
		}
	case models.TargetSchedule:
		if rec.Action == models.ActionDelete {
			return i.applyDelete(rec, i.schedulesStore.Delete)
		}
	case models.TargetReport:
		switch rec.Action {
		case models.ActionUpdate:
			return i.applyReportUpdate(rec)
		case models.ActionDelete:
			return i.applyDelete(rec, i.reportsStore.Delete)
		}
	}
	return models.NewApprovalErrorf(models.ErrKindUnsupportedOperation,
		"операция не поддерживается: %v %v", rec.TargetKind, rec.Action)
}

// защита от эскалации привилегий при создании пользователя через согласование
func (i impl) applyUserCreate(rec dbmodels.ApprovalRequest, reviewedBy string) error {
	newUser, err := parseUserData(rec.NewData)
	if err != nil {
		return err
	}
	reviewerPerms, err := i.oracle.UserPermissions(reviewedBy)
	if err != nil {
		return err
	}
	grantedPerms, err := i.oracle.RoleToPermissions(newUser.RoleID)
	if err != nil {
		return err
	}
	if aErr := permissions.CheckGrant(reviewerPerms, grantedPerms); aErr != nil {
		return aErr
	}
	exist, err := i.usersStore.ExistByEmail(newUser.Email)
	if err != nil {
		return err
	}
	if exist {
		return models.NewApprovalError(models.ErrKindApplyFailed, "пользователь с такой почтой уже существует")
	}
	userRec := dbmodels.User{
		Password:    authutils.GetMD5Hash(newUser.Password),
		FirstName:   newUser.FirstName,
		LastName:    newUser.LastName,
		Email:       newUser.Email,
		PhoneNumber: newUser.PhoneNumber,
		RoleID:      newUser.RoleID,
		IsActive:    true,
	}
	_, err = i.usersStore.Create(userRec)
	if err != nil {
		return errors.Wrap(err, "ошибка создания пользователя по заявке")
	}
	return nil
}

func (i impl) applyUserDelete(rec dbmodels.ApprovalRequest, reviewedBy string) error {
	target, err := i.usersStore.GetByID(rec.ObjectID)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewApprovalError(models.ErrKindApplyFailed, "удаляемый пользователь не найден")
	}
	reviewerPerms, err := i.oracle.UserPermissions(reviewedBy)
	if err != nil {
		return err
	}
	var targetPerms permissions.Set
	if target.Role != nil {
		targetPerms = permissions.NewSet(target.Role.PermissionTokens()...)
	} else {
		targetPerms, err = i.oracle.RoleToPermissions(target.RoleID)
		if err != nil {
			return err
		}
	}
	if aErr := permissions.CheckSuperAdminAccess(reviewerPerms, targetPerms); aErr != nil {
		return aErr
	}
	deleted, err := i.usersStore.Delete(rec.ObjectID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewApprovalError(models.ErrKindApplyFailed, "удаляемый пользователь не найден")
	}
	return nil
}

func (i impl) applyReportUpdate(rec dbmodels.ApprovalRequest) error {
	updated, err := i.reportsStore.Update(rec.ObjectID, rec.Changes.UpdMap())
	if err != nil {
		return err
	}
	if !updated {
		return models.NewApprovalError(models.ErrKindApplyFailed, "изменяемый отчет не найден")
	}
	return nil
}

func (i impl) applyDelete(rec dbmodels.ApprovalRequest, deleteFunc func(id string) (bool, error)) error {
	deleted, err := deleteFunc(rec.ObjectID)
	if err != nil {
		return err
	}
	if !deleted {
		// объект уже удален вне конвейера - по контракту это ошибка применения
		return models.NewApprovalErrorf(models.ErrKindApplyFailed,
			"объект не найден: %v (%v)", rec.TargetKind.ToHuman(), rec.ObjectID)
	}
	return nil
}

func (i impl) getRec(approvalID string) (*dbmodels.ApprovalRequest, error) {
	rec, err := i.store.GetByID(approvalID)
	if err != nil {
		i.GetLogger(approvalID).WithError(err).Error("ошибка получения заявки на согласование")
		return nil, err
	}
	if rec == nil {
		return nil, models.NewApprovalError(models.ErrKindNotFound, "заявка на согласование не найдена")
	}
	return rec, nil
}

// targetSnapshot возвращает текущее состояние целевой сущности в виде карты
func (i impl) targetSnapshot(kind models.TargetKind, objectID string) (dbmodels.EntityData, *models.ApprovalError) {
	var (
		rec interface{}
		err error
	)
	switch kind {
	case models.TargetUser:
		var user *dbmodels.User
		user, err = i.usersStore.GetByID(objectID)
		if user != nil {
			user.Password = ""
			user.Role = nil
			rec = user
		}
	case models.TargetOrder:
		var order *dbmodels.Order
		order, err = i.ordersStore.GetByID(objectID)
		if order != nil {
			rec = order
		}
	case models.TargetClient:
		var client *dbmodels.Client
		client, err = i.clientsStore.GetByID(objectID)
		if client != nil {
			rec = client
		}
	case models.TargetReport:
		var report *dbmodels.Report
		report, err = i.reportsStore.GetByID(objectID)
		if report != nil {
			rec = report
		}
	case models.TargetEmployee:
		var employee *dbmodels.Employee
		employee, err = i.employeesStore.GetByID(objectID)
		if employee != nil {
			rec = employee
		}
	case models.TargetSchedule:
		var schedule *dbmodels.Schedule
		schedule, err = i.schedulesStore.GetByID(objectID)
		if schedule != nil {
			rec = schedule
		}
	}
	if err != nil {
		log.WithError(err).Error("ошибка получения целевой сущности")
		return nil, models.NewApprovalError(models.ErrKindApplyFailed, "ошибка получения целевой сущности")
	}
	if rec == nil {
		return nil, models.NewApprovalErrorf(models.ErrKindNotFound,
			"целевая сущность не найдена: %v (%v)", kind.ToHuman(), objectID)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, models.NewApprovalError(models.ErrKindValidation, "не удалось сформировать снимок сущности")
	}
	snapshot := dbmodels.EntityData{}
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return nil, models.NewApprovalError(models.ErrKindValidation, "не удалось сформировать снимок сущности")
	}
	return snapshot, nil
}

func parseUserData(data dbmodels.EntityData) (spaceapimodels.CreateUser, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return spaceapimodels.CreateUser{}, models.NewApprovalError(models.ErrKindValidation, "некорректные данные создаваемого пользователя")
	}
	newUser := spaceapimodels.CreateUser{}
	if err = json.Unmarshal(raw, &newUser); err != nil {
		return spaceapimodels.CreateUser{}, models.NewApprovalError(models.ErrKindValidation, "некорректные данные создаваемого пользователя")
	}
	if err = newUser.Validate(); err != nil {
		return spaceapimodels.CreateUser{}, models.NewApprovalError(models.ErrKindValidation, err.Error())
	}
	return newUser, nil
}
