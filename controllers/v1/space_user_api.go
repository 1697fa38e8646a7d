package apiv1

import (
	"biz-tools-backend/controllers"
	usershandler "biz-tools-backend/lib/space/users/handler"
	"biz-tools-backend/middleware"
	"biz-tools-backend/models"
	apimodels "biz-tools-backend/models/api"
	spaceapimodels "biz-tools-backend/models/api/space"

	"github.com/gofiber/fiber/v2"
)

type spaceUserController struct {
	controllers.BaseAPIController
}

func InitSpaceUserRouters(app *fiber.App) {
	controller := spaceUserController{}
	app.Route("users", func(usersRootRoute fiber.Router) {
		usersRootRoute.Use(middleware.AuthorizationRequired())
		usersRootRoute.Use(middleware.PermissionRequired(models.PermissionUsersManage))
		usersRootRoute.Post("", controller.CreateUser)
		usersRootRoute.Post("list", controller.ListUsers)
		usersRootRoute.Route(":id", func(usersIDRoute fiber.Router) {
			usersIDRoute.Delete("", controller.DeleteUser)
			usersIDRoute.Put("", controller.UpdateUser)
			usersIDRoute.Get("", controller.GetUserByID)
		})
	})
}

// @Summary Создать нового пользователя
// @Tags Пользователи
// @Description Создать нового пользователя, роль не может давать разрешений, отсутствующих у автора
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		spaceapimodels.CreateUser	true	"request body"
// @Success 201 {object} apimodels.Response{data=spaceapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *spaceUserController) CreateUser(ctx *fiber.Ctx) error {
	var payload spaceapimodels.CreateUser
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := usershandler.Instance.Create(middleware.GetUserID(ctx), payload)
	if err != nil {
		if aErr, ok := models.AsApprovalError(err); ok {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(aErr.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(view))
}

// @Summary Удалить пользователя
// @Tags Пользователи
// @Description Удалить пользователя, суперадмина может удалить только суперадмин
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"user ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [delete]
func (c *spaceUserController) DeleteUser(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = usershandler.Instance.Delete(middleware.GetUserID(ctx), userID)
	if err != nil {
		if aErr, ok := models.AsApprovalError(err); ok {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(aErr.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Обновить пользователя
// @Tags Пользователи
// @Description Обновить пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"user ID"
// @Param	body				body		spaceapimodels.UpdateUser	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [put]
func (c *spaceUserController) UpdateUser(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload spaceapimodels.UpdateUser
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.UserCommonData.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	err = usershandler.Instance.Update(middleware.GetUserID(ctx), userID, payload)
	if err != nil {
		if aErr, ok := models.AsApprovalError(err); ok {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(aErr.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получить пользователя
// @Tags Пользователи
// @Description Получить пользователя по идентификатору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"user ID"
// @Success 200 {object} apimodels.Response{data=spaceapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/{id} [get]
func (c *spaceUserController) GetUserByID(ctx *fiber.Ctx) error {
	userID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := usershandler.Instance.GetByID(userID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Список пользователей
// @Tags Пользователи
// @Description Список пользователей с постраничным выводом
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		apimodels.Pagination	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]spaceapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/list [post]
func (c *spaceUserController) ListUsers(ctx *fiber.Ctx) error {
	var payload apimodels.Pagination
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	page, limit := payload.GetPage()
	list, err := usershandler.Instance.GetList(page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
