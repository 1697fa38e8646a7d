package permissions

import (
	"biz-tools-backend/models"
)

// Общие предикаты защиты от эскалации привилегий.
// Используются и конвейером согласования, и прямыми операциями
// управления пользователями - логика должна оставаться единой.

// CheckGrant проверяет, что actor не выдает разрешения, которых не имеет сам:
// нельзя согласовать выдачу токена суперадмина без этого токена,
// нельзя выдать ни один токен, отсутствующий у самого actor
func CheckGrant(actor, granted Set) *models.ApprovalError {
	if granted.Contains(models.PermissionSuperAdmin) && !actor.Contains(models.PermissionSuperAdmin) {
		return models.NewPrivilegeError(
			"нельзя согласовать выдачу прав суперадмина без прав суперадмина",
			[]models.PermissionToken{models.PermissionSuperAdmin},
		)
	}
	// токен суперадмина подразумевает все остальные разрешения
	if actor.Contains(models.PermissionSuperAdmin) {
		return nil
	}
	missing := granted.Difference(actor)
	if !missing.IsEmpty() {
		return models.NewPrivilegeError(
			"нельзя выдать разрешения, отсутствующие у согласующего",
			missing.List(),
		)
	}
	return nil
}

// CheckSuperAdminAccess запрещает операции над принципалом уровня
// суперадмина, если actor сам не имеет этого токена
func CheckSuperAdminAccess(actor, target Set) *models.ApprovalError {
	if target.Contains(models.PermissionSuperAdmin) && !actor.Contains(models.PermissionSuperAdmin) {
		return models.NewPrivilegeError(
			"операция над суперадмином доступна только суперадмину",
			[]models.PermissionToken{models.PermissionSuperAdmin},
		)
	}
	return nil
}
