package models

type PermissionToken string

const (
	// зарезервированный токен суперадмина
	PermissionSuperAdmin PermissionToken = "system:super_admin"

	PermissionOrdersRead     PermissionToken = "orders:read"
	PermissionOrdersWrite    PermissionToken = "orders:write"
	PermissionClientsRead    PermissionToken = "clients:read"
	PermissionClientsWrite   PermissionToken = "clients:write"
	PermissionReportsRead    PermissionToken = "reports:read"
	PermissionReportsWrite   PermissionToken = "reports:write"
	PermissionEmployeesRead  PermissionToken = "employees:read"
	PermissionEmployeesWrite PermissionToken = "employees:write"
	PermissionSchedulesRead  PermissionToken = "schedules:read"
	PermissionSchedulesWrite PermissionToken = "schedules:write"
	PermissionUsersManage    PermissionToken = "users:manage"
	PermissionApprovalsView  PermissionToken = "approvals:view"
	PermissionApprovalsApply PermissionToken = "approvals:review"
)

var permissionHumanName = map[PermissionToken]string{
	PermissionSuperAdmin:     "Суперадмин системы",
	PermissionOrdersRead:     "Заказы: просмотр",
	PermissionOrdersWrite:    "Заказы: изменение",
	PermissionClientsRead:    "Клиенты: просмотр",
	PermissionClientsWrite:   "Клиенты: изменение",
	PermissionReportsRead:    "Отчеты: просмотр",
	PermissionReportsWrite:   "Отчеты: изменение",
	PermissionEmployeesRead:  "Сотрудники: просмотр",
	PermissionEmployeesWrite: "Сотрудники: изменение",
	PermissionSchedulesRead:  "Графики: просмотр",
	PermissionSchedulesWrite: "Графики: изменение",
	PermissionUsersManage:    "Пользователи: управление",
	PermissionApprovalsView:  "Согласования: просмотр",
	PermissionApprovalsApply: "Согласования: решение",
}

func (p PermissionToken) ToHuman() string {
	if human, exist := permissionHumanName[p]; exist {
		return human
	}
	return string(p)
}

const SystemUser = "Система"
