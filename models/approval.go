package models

type TargetKind string

const (
	TargetUser     TargetKind = "USER"
	TargetOrder    TargetKind = "ORDER"
	TargetClient   TargetKind = "CLIENT"
	TargetReport   TargetKind = "REPORT"
	TargetEmployee TargetKind = "EMPLOYEE"
	TargetSchedule TargetKind = "SCHEDULE"
)

var targetKindHumanName = map[TargetKind]string{
	TargetUser:     "Пользователь",
	TargetOrder:    "Заказ",
	TargetClient:   "Клиент",
	TargetReport:   "Отчет",
	TargetEmployee: "Сотрудник",
	TargetSchedule: "График",
}

func (k TargetKind) ToHuman() string {
	if human, exist := targetKindHumanName[k]; exist {
		return human
	}
	return string(k)
}

// закрытый список целей согласования
func (k TargetKind) IsValid() bool {
	_, exist := targetKindHumanName[k]
	return exist
}

type ApprovalAction string

const (
	ActionCreate ApprovalAction = "CREATE"
	ActionUpdate ApprovalAction = "UPDATE"
	ActionDelete ApprovalAction = "DELETE"
)

var approvalActionHumanName = map[ApprovalAction]string{
	ActionCreate: "Создание",
	ActionUpdate: "Изменение",
	ActionDelete: "Удаление",
}

func (a ApprovalAction) ToHuman() string {
	if human, exist := approvalActionHumanName[a]; exist {
		return human
	}
	return string(a)
}

func (a ApprovalAction) IsValid() bool {
	_, exist := approvalActionHumanName[a]
	return exist
}

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

var approvalStatusHumanName = map[ApprovalStatus]string{
	ApprovalStatusPending:  "На рассмотрении",
	ApprovalStatusApproved: "Согласовано",
	ApprovalStatusRejected: "Отклонено",
}

func (s ApprovalStatus) ToHuman() string {
	if human, exist := approvalStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ApprovalStatus) IsValid() bool {
	_, exist := approvalStatusHumanName[s]
	return exist
}

// терминальные статусы не допускают повторного решения
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

type ResolveDecision string

const (
	DecisionApprove ResolveDecision = "APPROVE"
	DecisionReject  ResolveDecision = "REJECT"
)

func (d ResolveDecision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}
