package approvalhandler

import (
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"biz-tools-backend/lib/permissions"
	"biz-tools-backend/models"
	apimodels "biz-tools-backend/models/api"
	approvalapimodels "biz-tools-backend/models/api/approval"
	dbmodels "biz-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeApprovalStore struct {
	mu    sync.Mutex
	recs  map[string]dbmodels.ApprovalRequest
	seq   int
	users *fakeUsersStore
}

func newFakeApprovalStore(users *fakeUsersStore) *fakeApprovalStore {
	return &fakeApprovalStore{recs: map[string]dbmodels.ApprovalRequest{}, users: users}
}

func (f *fakeApprovalStore) Create(rec dbmodels.ApprovalRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.ID == "" {
		f.seq++
		rec.ID = fmt.Sprintf("approval-%d", f.seq)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	f.recs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeApprovalStore) GetByID(id string) (*dbmodels.ApprovalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, exist := f.recs[id]
	if !exist {
		return nil, nil
	}
	// реальный store подгружает Requester и Reviewer через Preload
	rec.Requester, _ = f.users.GetByID(rec.RequestedBy)
	if rec.ReviewedBy != nil {
		rec.Reviewer, _ = f.users.GetByID(*rec.ReviewedBy)
	}
	return &rec, nil
}

func (f *fakeApprovalStore) Resolve(id string, newStatus models.ApprovalStatus, reviewedBy string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, exist := f.recs[id]
	if !exist || rec.Status != models.ApprovalStatusPending {
		return false, nil
	}
	rec.Status = newStatus
	rec.ReviewedBy = &reviewedBy
	rec.UpdatedAt = time.Now()
	f.recs[id] = rec
	return true, nil
}

func (f *fakeApprovalStore) matched(filter approvalapimodels.ApprovalFilter, requesterIDs []string) []dbmodels.ApprovalRequest {
	result := []dbmodels.ApprovalRequest{}
	for _, rec := range f.recs {
		if requesterIDs != nil && !containsString(requesterIDs, rec.RequestedBy) {
			continue
		}
		if filter.TargetKind != "" && rec.TargetKind != filter.TargetKind {
			continue
		}
		if filter.Action != "" && rec.Action != filter.Action {
			continue
		}
		if len(filter.Statuses) != 0 && !containsStatus(filter.Statuses, rec.Status) {
			continue
		}
		result = append(result, rec)
	}
	return result
}

func (f *fakeApprovalStore) ListCount(filter approvalapimodels.ApprovalFilter, requesterIDs []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matched(filter, requesterIDs))), nil
}

func (f *fakeApprovalStore) List(filter approvalapimodels.ApprovalFilter, requesterIDs []string) ([]dbmodels.ApprovalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.matched(filter, requesterIDs)
	sort.Slice(list, func(i, j int) bool {
		iPending := list[i].Status == models.ApprovalStatusPending
		jPending := list[j].Status == models.ApprovalStatusPending
		if iPending != jPending {
			return iPending
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if offset >= len(list) {
		return []dbmodels.ApprovalRequest{}, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func containsStatus(list []models.ApprovalStatus, value models.ApprovalStatus) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

type fakeUsersStore struct {
	mu   sync.Mutex
	recs map[string]dbmodels.User
	seq  int
}

func newFakeUsersStore() *fakeUsersStore {
	return &fakeUsersStore{recs: map[string]dbmodels.User{}}
}

func (f *fakeUsersStore) Create(rec dbmodels.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.ID == "" {
		f.seq++
		rec.ID = fmt.Sprintf("user-%d", f.seq)
	}
	f.recs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeUsersStore) GetByID(id string) (*dbmodels.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, exist := f.recs[id]
	if !exist {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeUsersStore) GetByEmail(email string) (*dbmodels.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.recs {
		if rec.Email == email {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeUsersStore) ExistByEmail(email string) (bool, error) {
	rec, err := f.GetByEmail(email)
	return rec != nil, err
}

func (f *fakeUsersStore) Update(id string, updMap map[string]interface{}) error {
	return nil
}

func (f *fakeUsersStore) Delete(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exist := f.recs[id]
	delete(f.recs, id)
	return exist, nil
}

func (f *fakeUsersStore) GetList(page, limit int) ([]dbmodels.User, error) {
	return nil, nil
}

func (f *fakeUsersStore) FindIDsByName(name string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for _, rec := range f.recs {
		if rec.FirstName == name || rec.LastName == name {
			ids = append(ids, rec.ID)
		}
	}
	return ids, nil
}

type fakeRolesStore struct {
	recs map[string]dbmodels.Role
}

func (f *fakeRolesStore) Create(rec dbmodels.Role) (string, error) {
	f.recs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeRolesStore) GetByID(id string) (*dbmodels.Role, error) {
	rec, exist := f.recs[id]
	if !exist {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeRolesStore) GetByName(name string) (*dbmodels.Role, error) {
	for _, rec := range f.recs {
		if rec.Name == name {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeRolesStore) List() ([]dbmodels.Role, error) {
	list := []dbmodels.Role{}
	for _, rec := range f.recs {
		list = append(list, rec)
	}
	return list, nil
}

type fakeOrdersStore struct {
	mu   sync.Mutex
	recs map[string]dbmodels.Order
}

func (f *fakeOrdersStore) Create(rec dbmodels.Order) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeOrdersStore) GetByID(id string) (*dbmodels.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, exist := f.recs[id]
	if !exist {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeOrdersStore) Update(id string, updMap map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exist := f.recs[id]
	return exist, nil
}

func (f *fakeOrdersStore) Delete(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exist := f.recs[id]
	delete(f.recs, id)
	return exist, nil
}

type fakeReportsStore struct {
	mu      sync.Mutex
	recs    map[string]dbmodels.Report
	updates map[string]map[string]interface{}
}

func (f *fakeReportsStore) Create(rec dbmodels.Report) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeReportsStore) GetByID(id string) (*dbmodels.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, exist := f.recs[id]
	if !exist {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeReportsStore) Update(id string, updMap map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exist := f.recs[id]; !exist {
		return false, nil
	}
	f.updates[id] = updMap
	return true, nil
}

func (f *fakeReportsStore) Delete(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exist := f.recs[id]
	delete(f.recs, id)
	return exist, nil
}

type fakeClientsStore struct {
	recs map[string]dbmodels.Client
}

func (f *fakeClientsStore) Create(rec dbmodels.Client) (string, error) {
	f.recs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeClientsStore) GetByID(id string) (*dbmodels.Client, error) {
	rec, exist := f.recs[id]
	if !exist {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeClientsStore) Update(id string, updMap map[string]interface{}) (bool, error) {
	_, exist := f.recs[id]
	return exist, nil
}

func (f *fakeClientsStore) Delete(id string) (bool, error) {
	_, exist := f.recs[id]
	delete(f.recs, id)
	return exist, nil
}

type fakeEmployeesStore struct {
	recs map[string]dbmodels.Employee
}

func (f *fakeEmployeesStore) Create(rec dbmodels.Employee) (string, error) {
	f.recs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeEmployeesStore) GetByID(id string) (*dbmodels.Employee, error) {
	rec, exist := f.recs[id]
	if !exist {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeEmployeesStore) Update(id string, updMap map[string]interface{}) (bool, error) {
	_, exist := f.recs[id]
	return exist, nil
}

func (f *fakeEmployeesStore) Delete(id string) (bool, error) {
	_, exist := f.recs[id]
	delete(f.recs, id)
	return exist, nil
}

type fakeSchedulesStore struct {
	recs map[string]dbmodels.Schedule
}

func (f *fakeSchedulesStore) Create(rec dbmodels.Schedule) (string, error) {
	f.recs[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeSchedulesStore) GetByID(id string) (*dbmodels.Schedule, error) {
	rec, exist := f.recs[id]
	if !exist {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeSchedulesStore) Update(id string, updMap map[string]interface{}) (bool, error) {
	_, exist := f.recs[id]
	return exist, nil
}

func (f *fakeSchedulesStore) Delete(id string) (bool, error) {
	_, exist := f.recs[id]
	delete(f.recs, id)
	return exist, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeNotifier) ApprovalResolved(rec dbmodels.ApprovalRequest, decision models.ApprovalStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rec.ID)
}

const (
	roleAdminID    = "role-admin"
	roleReviewerID = "role-reviewer"
	roleManagerID  = "role-manager"
	roleViewerID   = "role-viewer"

	userAdminID     = "user-admin"
	userReviewerID  = "user-reviewer"
	userRequesterID = "user-requester"
)

type testEnv struct {
	handler   Provider
	approvals *fakeApprovalStore
	users     *fakeUsersStore
	orders    *fakeOrdersStore
	reports   *fakeReportsStore
	notifier  *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	roles := &fakeRolesStore{recs: map[string]dbmodels.Role{}}
	roles.recs[roleAdminID] = dbmodels.Role{
		BaseModel:   dbmodels.BaseModel{ID: roleAdminID},
		Name:        "Администратор",
		Permissions: []string{string(models.PermissionSuperAdmin)},
	}
	roles.recs[roleReviewerID] = dbmodels.Role{
		BaseModel: dbmodels.BaseModel{ID: roleReviewerID},
		Name:      "Руководитель",
		Permissions: []string{
			string(models.PermissionApprovalsView),
			string(models.PermissionApprovalsApply),
			string(models.PermissionUsersManage),
			string(models.PermissionOrdersRead),
			string(models.PermissionClientsRead),
		},
	}
	roles.recs[roleManagerID] = dbmodels.Role{
		BaseModel: dbmodels.BaseModel{ID: roleManagerID},
		Name:      "Менеджер",
		Permissions: []string{
			string(models.PermissionOrdersRead),
			string(models.PermissionOrdersWrite),
		},
	}
	roles.recs[roleViewerID] = dbmodels.Role{
		BaseModel:   dbmodels.BaseModel{ID: roleViewerID},
		Name:        "Наблюдатель",
		Permissions: []string{string(models.PermissionOrdersRead)},
	}

	users := newFakeUsersStore()
	addUser := func(id, firstName, lastName, roleID string) {
		role := roles.recs[roleID]
		users.recs[id] = dbmodels.User{
			BaseModel: dbmodels.BaseModel{ID: id},
			FirstName: firstName,
			LastName:  lastName,
			Email:     id + "@corp.ru",
			IsActive:  true,
			RoleID:    roleID,
			Role:      &role,
		}
	}
	addUser(userAdminID, "Анна", "Соколова", roleAdminID)
	addUser(userReviewerID, "Петр", "Иванов", roleReviewerID)
	addUser(userRequesterID, "Мария", "Кузнецова", roleViewerID)

	env := &testEnv{
		approvals: newFakeApprovalStore(users),
		users:     users,
		orders:    &fakeOrdersStore{recs: map[string]dbmodels.Order{}},
		reports:   &fakeReportsStore{recs: map[string]dbmodels.Report{}, updates: map[string]map[string]interface{}{}},
		notifier:  &fakeNotifier{},
	}
	env.handler = NewInstance(
		env.approvals,
		env.users,
		permissions.NewInstance(roles, env.users),
		env.orders,
		&fakeClientsStore{recs: map[string]dbmodels.Client{}},
		env.reports,
		&fakeEmployeesStore{recs: map[string]dbmodels.Employee{}},
		&fakeSchedulesStore{recs: map[string]dbmodels.Schedule{}},
		env.notifier,
	)
	return env
}

func (e *testEnv) addOrder(id string) {
	e.orders.recs[id] = dbmodels.Order{
		BaseModel: dbmodels.BaseModel{ID: id},
		Number:    "N-" + id,
		Amount:    1000,
		Status:    "NEW",
	}
}

func (e *testEnv) submitOrderDelete(t *testing.T, orderID string) string {
	t.Helper()
	view, err := e.handler.Submit(userRequesterID, approvalapimodels.SubmitRequest{
		TargetKind: models.TargetOrder,
		Action:     models.ActionDelete,
		ObjectID:   orderID,
	})
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusPending, view.Status)
	return view.ID
}

func requireErrorKind(t *testing.T, err error, kind models.ApprovalErrorKind) *models.ApprovalError {
	t.Helper()
	require.Error(t, err)
	aErr, ok := models.AsApprovalError(err)
	require.True(t, ok, "ожидалась типизированная ошибка, получено: %v", err)
	require.Equal(t, kind, aErr.Kind)
	return aErr
}

func TestSubmit(t *testing.T) {
	t.Run("заявка на удаление заказа со снимком", func(t *testing.T) {
		env := newTestEnv(t)
		env.addOrder("order-1")
		view, err := env.handler.Submit(userRequesterID, approvalapimodels.SubmitRequest{
			TargetKind: models.TargetOrder,
			Action:     models.ActionDelete,
			ObjectID:   "order-1",
		})
		require.NoError(t, err)
		require.Equal(t, models.ApprovalStatusPending, view.Status)
		require.Equal(t, "N-order-1", view.DeletedData["Number"])
		// заявка не трогает целевую сущность
		order, err := env.orders.GetByID("order-1")
		require.NoError(t, err)
		require.NotNil(t, order)
	})

	t.Run("удаление несуществующего объекта", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.handler.Submit(userRequesterID, approvalapimodels.SubmitRequest{
			TargetKind: models.TargetOrder,
			Action:     models.ActionDelete,
			ObjectID:   "missing",
		})
		requireErrorKind(t, err, models.ErrKindNotFound)
	})

	t.Run("создание без данных", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.handler.Submit(userRequesterID, approvalapimodels.SubmitRequest{
			TargetKind: models.TargetUser,
			Action:     models.ActionCreate,
		})
		requireErrorKind(t, err, models.ErrKindValidation)
	})

	t.Run("недопустимый тип цели", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.handler.Submit(userRequesterID, approvalapimodels.SubmitRequest{
			TargetKind: "INVOICE",
			Action:     models.ActionDelete,
			ObjectID:   "x",
		})
		requireErrorKind(t, err, models.ErrKindValidation)
	})
}

func TestResolveStatusMonotonicity(t *testing.T) {
	t.Run("повторное решение согласованной заявки", func(t *testing.T) {
		env := newTestEnv(t)
		env.addOrder("order-1")
		id := env.submitOrderDelete(t, "order-1")
		view, err := env.handler.ResolveOne(id, models.DecisionApprove, userReviewerID)
		require.NoError(t, err)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)
		require.Equal(t, userReviewerID, view.ReviewedBy)

		_, err = env.handler.ResolveOne(id, models.DecisionApprove, userAdminID)
		requireErrorKind(t, err, models.ErrKindAlreadyResolved)
		_, err = env.handler.ResolveOne(id, models.DecisionReject, userAdminID)
		requireErrorKind(t, err, models.ErrKindAlreadyResolved)
	})

	t.Run("отклоненная заявка не применяется", func(t *testing.T) {
		env := newTestEnv(t)
		env.addOrder("order-1")
		id := env.submitOrderDelete(t, "order-1")
		view, err := env.handler.ResolveOne(id, models.DecisionReject, userReviewerID)
		require.NoError(t, err)
		require.Equal(t, models.ApprovalStatusRejected, view.Status)
		// заказ остался на месте
		order, err := env.orders.GetByID("order-1")
		require.NoError(t, err)
		require.NotNil(t, order)

		_, err = env.handler.ResolveOne(id, models.DecisionApprove, userAdminID)
		requireErrorKind(t, err, models.ErrKindAlreadyResolved)
	})

	t.Run("гонка двойного решения", func(t *testing.T) {
		env := newTestEnv(t)
		env.addOrder("order-1")
		id := env.submitOrderDelete(t, "order-1")
		// вторая сторона успела решить заявку между чтением и записью
		resolved, err := env.approvals.Resolve(id, models.ApprovalStatusRejected, userAdminID)
		require.NoError(t, err)
		require.True(t, resolved)

		resolved, err = env.approvals.Resolve(id, models.ApprovalStatusApproved, userReviewerID)
		require.NoError(t, err)
		require.False(t, resolved)

		rec, err := env.approvals.GetByID(id)
		require.NoError(t, err)
		require.Equal(t, models.ApprovalStatusRejected, rec.Status)
		require.Equal(t, userAdminID, *rec.ReviewedBy)
	})

	t.Run("несуществующая заявка", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.handler.ResolveOne("missing", models.DecisionApprove, userReviewerID)
		requireErrorKind(t, err, models.ErrKindNotFound)
	})
}

func TestUserCreateEscalation(t *testing.T) {
	newUserData := func(roleID string) map[string]interface{} {
		return map[string]interface{}{
			"password":   "secret",
			"email":      "novikov@corp.ru",
			"first_name": "Олег",
			"last_name":  "Новиков",
			"role_id":    roleID,
		}
	}
	submit := func(t *testing.T, env *testEnv, roleID string) string {
		t.Helper()
		view, err := env.handler.Submit(userRequesterID, approvalapimodels.SubmitRequest{
			TargetKind: models.TargetUser,
			Action:     models.ActionCreate,
			NewData:    newUserData(roleID),
		})
		require.NoError(t, err)
		return view.ID
	}

	t.Run("выдача недостающего разрешения запрещена", func(t *testing.T) {
		env := newTestEnv(t)
		id := submit(t, env, roleManagerID)
		// у согласующего нет orders:write из роли менеджера
		_, err := env.handler.ResolveOne(id, models.DecisionApprove, userReviewerID)
		aErr := requireErrorKind(t, err, models.ErrKindInsufficientPrivilege)
		require.Contains(t, aErr.Tokens, models.PermissionOrdersWrite)

		// заявка осталась на рассмотрении, пользователь не создан
		rec, getErr := env.approvals.GetByID(id)
		require.NoError(t, getErr)
		require.Equal(t, models.ApprovalStatusPending, rec.Status)
		exist, getErr := env.users.ExistByEmail("novikov@corp.ru")
		require.NoError(t, getErr)
		require.False(t, exist)
	})

	t.Run("выдача прав суперадмина без прав суперадмина", func(t *testing.T) {
		env := newTestEnv(t)
		id := submit(t, env, roleAdminID)
		_, err := env.handler.ResolveOne(id, models.DecisionApprove, userReviewerID)
		aErr := requireErrorKind(t, err, models.ErrKindInsufficientPrivilege)
		require.Equal(t, []models.PermissionToken{models.PermissionSuperAdmin}, aErr.Tokens)
	})

	t.Run("суперадмин согласует любую роль", func(t *testing.T) {
		env := newTestEnv(t)
		id := submit(t, env, roleManagerID)
		view, err := env.handler.ResolveOne(id, models.DecisionApprove, userAdminID)
		require.NoError(t, err)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)
		exist, err := env.users.ExistByEmail("novikov@corp.ru")
		require.NoError(t, err)
		require.True(t, exist)
	})

	t.Run("занятая почта", func(t *testing.T) {
		env := newTestEnv(t)
		view, err := env.handler.Submit(userRequesterID, approvalapimodels.SubmitRequest{
			TargetKind: models.TargetUser,
			Action:     models.ActionCreate,
			NewData: map[string]interface{}{
				"password":   "secret",
				"email":      userReviewerID + "@corp.ru",
				"first_name": "Петр",
				"last_name":  "Двойник",
				"role_id":    roleViewerID,
			},
		})
		require.NoError(t, err)
		_, err = env.handler.ResolveOne(view.ID, models.DecisionApprove, userAdminID)
		requireErrorKind(t, err, models.ErrKindApplyFailed)
	})
}

func TestUserDeleteSuperAdminBoundary(t *testing.T) {
	submitDelete := func(t *testing.T, env *testEnv, targetID string) string {
		t.Helper()
		view, err := env.handler.Submit(userRequesterID, approvalapimodels.SubmitRequest{
			TargetKind: models.TargetUser,
			Action:     models.ActionDelete,
			ObjectID:   targetID,
		})
		require.NoError(t, err)
		return view.ID
	}

	t.Run("удаление суперадмина не суперадмином", func(t *testing.T) {
		env := newTestEnv(t)
		id := submitDelete(t, env, userAdminID)
		_, err := env.handler.ResolveOne(id, models.DecisionApprove, userReviewerID)
		requireErrorKind(t, err, models.ErrKindInsufficientPrivilege)
		// цель не тронута, заявка ждет решения
		target, getErr := env.users.GetByID(userAdminID)
		require.NoError(t, getErr)
		require.NotNil(t, target)
		rec, getErr := env.approvals.GetByID(id)
		require.NoError(t, getErr)
		require.Equal(t, models.ApprovalStatusPending, rec.Status)
	})

	t.Run("удаление обычного пользователя", func(t *testing.T) {
		env := newTestEnv(t)
		id := submitDelete(t, env, userRequesterID)
		view, err := env.handler.ResolveOne(id, models.DecisionApprove, userReviewerID)
		require.NoError(t, err)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)
		target, err := env.users.GetByID(userRequesterID)
		require.NoError(t, err)
		require.Nil(t, target)
	})
}

func TestApplyFailureKeepsPending(t *testing.T) {
	env := newTestEnv(t)
	env.addOrder("order-1")
	id := env.submitOrderDelete(t, "order-1")
	// заказ удалили в обход конвейера
	deleted, err := env.orders.Delete("order-1")
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = env.handler.ResolveOne(id, models.DecisionApprove, userReviewerID)
	requireErrorKind(t, err, models.ErrKindApplyFailed)
	rec, err := env.approvals.GetByID(id)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusPending, rec.Status)
	require.Nil(t, rec.ReviewedBy)

	// заявку все еще можно отклонить
	view, err := env.handler.ResolveOne(id, models.DecisionReject, userReviewerID)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusRejected, view.Status)
}

func TestOrderDeleteRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.addOrder("order-1")
	id := env.submitOrderDelete(t, "order-1")

	view, err := env.handler.ResolveOne(id, models.DecisionApprove, userReviewerID)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusApproved, view.Status)
	require.Equal(t, userReviewerID, view.ReviewedBy)
	require.Equal(t, "Петр Иванов", view.ReviewerName)

	order, err := env.orders.GetByID("order-1")
	require.NoError(t, err)
	require.Nil(t, order)
	require.Equal(t, []string{id}, env.notifier.calls)
}

func TestReportUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.reports.recs["report-1"] = dbmodels.Report{
		BaseModel:  dbmodels.BaseModel{ID: "report-1"},
		ClientName: "ООО Ромашка",
	}
	view, err := env.handler.Submit(userRequesterID, approvalapimodels.SubmitRequest{
		TargetKind: models.TargetReport,
		Action:     models.ActionUpdate,
		ObjectID:   "report-1",
		Changes: []approvalapimodels.FieldChange{
			{Field: "client_name", OldValue: "ООО Ромашка", NewValue: "ООО Ромашка Плюс"},
		},
	})
	require.NoError(t, err)

	_, err = env.handler.ResolveOne(view.ID, models.DecisionApprove, userReviewerID)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"client_name": "ООО Ромашка Плюс"}, env.reports.updates["report-1"])
}

func TestUnsupportedOperation(t *testing.T) {
	env := newTestEnv(t)
	env.addOrder("order-1")
	view, err := env.handler.Submit(userRequesterID, approvalapimodels.SubmitRequest{
		TargetKind: models.TargetOrder,
		Action:     models.ActionUpdate,
		ObjectID:   "order-1",
		Changes: []approvalapimodels.FieldChange{
			{Field: "amount", OldValue: 1000, NewValue: 2000},
		},
	})
	require.NoError(t, err)
	_, err = env.handler.ResolveOne(view.ID, models.DecisionApprove, userReviewerID)
	requireErrorKind(t, err, models.ErrKindUnsupportedOperation)
}

func TestResolveMany(t *testing.T) {
	t.Run("ошибка одной заявки не мешает остальным", func(t *testing.T) {
		env := newTestEnv(t)
		env.addOrder("order-1")
		env.addOrder("order-2")
		env.addOrder("order-3")
		id1 := env.submitOrderDelete(t, "order-1")
		id2 := env.submitOrderDelete(t, "order-2")
		id3 := env.submitOrderDelete(t, "order-3")
		// второй заказ исчез до решения
		_, err := env.orders.Delete("order-2")
		require.NoError(t, err)

		result, err := env.handler.ResolveMany(approvalapimodels.ResolveManyRequest{
			ApprovalIDs: []string{id1, id2, id3},
			Decision:    models.DecisionApprove,
		}, userReviewerID)
		require.NoError(t, err)
		require.Len(t, result.Successful, 2)
		require.Len(t, result.Errors, 1)
		require.Equal(t, id2, result.Errors[0].ApprovalID)
		require.Equal(t, models.ErrKindApplyFailed, result.Errors[0].Kind)

		successIDs := []string{result.Successful[0].ID, result.Successful[1].ID}
		require.ElementsMatch(t, []string{id1, id3}, successIDs)
		rec, err := env.approvals.GetByID(id2)
		require.NoError(t, err)
		require.Equal(t, models.ApprovalStatusPending, rec.Status)
	})

	t.Run("пакетное отклонение", func(t *testing.T) {
		env := newTestEnv(t)
		env.addOrder("order-1")
		env.addOrder("order-2")
		id1 := env.submitOrderDelete(t, "order-1")
		id2 := env.submitOrderDelete(t, "order-2")

		result, err := env.handler.ResolveMany(approvalapimodels.ResolveManyRequest{
			ApprovalIDs: []string{id1, id2},
			Decision:    models.DecisionReject,
		}, userReviewerID)
		require.NoError(t, err)
		require.Len(t, result.Successful, 2)
		require.Empty(t, result.Errors)
		// заказы не тронуты
		order, err := env.orders.GetByID("order-1")
		require.NoError(t, err)
		require.NotNil(t, order)
	})

	t.Run("пустой пакет", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.handler.ResolveMany(approvalapimodels.ResolveManyRequest{
			Decision: models.DecisionApprove,
		}, userReviewerID)
		require.Error(t, err)
	})
}

func TestList(t *testing.T) {
	seed := func(t *testing.T, env *testEnv) (pendingID, resolvedID string) {
		t.Helper()
		env.addOrder("order-1")
		env.addOrder("order-2")
		resolvedID = env.submitOrderDelete(t, "order-1")
		_, err := env.handler.ResolveOne(resolvedID, models.DecisionReject, userReviewerID)
		require.NoError(t, err)
		pendingID = env.submitOrderDelete(t, "order-2")
		return pendingID, resolvedID
	}

	t.Run("нерассмотренные заявки первыми", func(t *testing.T) {
		env := newTestEnv(t)
		pendingID, resolvedID := seed(t, env)
		list, rowCount, err := env.handler.List(approvalapimodels.ApprovalFilter{})
		require.NoError(t, err)
		require.EqualValues(t, 2, rowCount)
		require.Len(t, list, 2)
		require.Equal(t, pendingID, list[0].ID)
		require.Equal(t, resolvedID, list[1].ID)
	})

	t.Run("фильтр по статусу", func(t *testing.T) {
		env := newTestEnv(t)
		_, resolvedID := seed(t, env)
		list, rowCount, err := env.handler.List(approvalapimodels.ApprovalFilter{
			Filtered: true,
			Statuses: []models.ApprovalStatus{models.ApprovalStatusRejected},
		})
		require.NoError(t, err)
		require.EqualValues(t, 1, rowCount)
		require.Len(t, list, 1)
		require.Equal(t, resolvedID, list[0].ID)
	})

	t.Run("фильтр по автору без совпадений", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)
		list, rowCount, err := env.handler.List(approvalapimodels.ApprovalFilter{
			Filtered:      true,
			RequesterName: "Нет Такого",
		})
		require.NoError(t, err)
		require.Zero(t, rowCount)
		require.Empty(t, list)
	})

	t.Run("режим фильтрации без фильтров", func(t *testing.T) {
		env := newTestEnv(t)
		_, _, err := env.handler.List(approvalapimodels.ApprovalFilter{Filtered: true})
		requireErrorKind(t, err, models.ErrKindNoFilter)
	})

	t.Run("страница за пределами выборки", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)
		list, rowCount, err := env.handler.List(approvalapimodels.ApprovalFilter{
			Pagination: apimodels.Pagination{Page: 5, Limit: 10},
		})
		require.NoError(t, err)
		require.EqualValues(t, 2, rowCount)
		require.Empty(t, list)
	})
}
