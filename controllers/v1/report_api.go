package apiv1

import (
	"biz-tools-backend/controllers"
	reportshandler "biz-tools-backend/lib/reports"
	"biz-tools-backend/middleware"
	"biz-tools-backend/models"
	apimodels "biz-tools-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type reportController struct {
	controllers.BaseAPIController
}

func InitReportApiRouters(app *fiber.App) {
	controller := reportController{}
	app.Route("reports", func(reportsRootRoute fiber.Router) {
		reportsRootRoute.Use(middleware.AuthorizationRequired())
		reportsRootRoute.Put(":id/convert",
			middleware.PermissionRequired(models.PermissionClientsWrite), controller.ConvertToClient)
	})
}

// @Summary Конвертировать отчет в клиента
// @Tags Отчеты
// @Description Создать постоянного клиента из отчета и пометить отчет сконвертированным
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"report ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/reports/{id}/convert [put]
func (c *reportController) ConvertToClient(ctx *fiber.Ctx) error {
	reportID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	clientID, err := reportshandler.Instance.ConvertToClient(reportID, middleware.GetUserID(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{"client_id": clientID}))
}
