package middleware

import (
	"biz-tools-backend/lib/permissions"
	"biz-tools-backend/models"
	apimodels "biz-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// PermissionRequired пропускает запрос, только если роль пользователя
// содержит указанный токен разрешения или токен суперадмина
func PermissionRequired(token models.PermissionToken) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		if userID == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("доступ запрещен"))
		}
		allowed, err := permissions.Instance.HasPermission(userID, token)
		if err != nil {
			log.
				WithField("user_id", userID).
				WithError(err).
				Error("ошибка проверки разрешений")
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("доступ запрещен"))
		}
		if !allowed {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(
				"недостаточно прав: " + token.ToHuman()))
		}
		return ctx.Next()
	}
}

// PermissionAnyRequired пропускает запрос при наличии любого из токенов
func PermissionAnyRequired(tokens ...models.PermissionToken) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := GetUserID(ctx)
		if userID == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("доступ запрещен"))
		}
		allowed, err := permissions.Instance.HasAnyPermission(userID, tokens)
		if err != nil {
			log.
				WithField("user_id", userID).
				WithError(err).
				Error("ошибка проверки разрешений")
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("доступ запрещен"))
		}
		if !allowed {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("недостаточно прав"))
		}
		return ctx.Next()
	}
}
