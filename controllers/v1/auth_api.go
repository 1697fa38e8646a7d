package apiv1

import (
	"biz-tools-backend/controllers"
	authhandler "biz-tools-backend/lib/space/auth"
	apimodels "biz-tools-backend/models/api"
	spaceapimodels "biz-tools-backend/models/api/space"

	"github.com/gofiber/fiber/v2"
)

type authController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app *fiber.App) {
	controller := authController{}
	app.Route("auth", func(authRoute fiber.Router) {
		authRoute.Post("login", controller.Login)
	})
}

// @Summary Вход в систему
// @Tags Авторизация
// @Description Вход по паре логин/пароль, возвращает JWT токен
// @Param	body	body	spaceapimodels.Login	true	"request body"
// @Success 200 {object} apimodels.Response{data=spaceapimodels.LoginResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @router /api/v1/auth/login [post]
func (c *authController) Login(ctx *fiber.Ctx) error {
	var payload spaceapimodels.Login
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	response, err := authhandler.Instance.Login(payload)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(response))
}
