package apiv1

import (
	"biz-tools-backend/controllers"
	approvalhandler "biz-tools-backend/lib/approval"
	xlsexport "biz-tools-backend/lib/export/xls"
	"biz-tools-backend/middleware"
	"biz-tools-backend/models"
	apimodels "biz-tools-backend/models/api"
	approvalapimodels "biz-tools-backend/models/api/approval"

	"github.com/gofiber/fiber/v2"
)

type approvalController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app *fiber.App) {
	controller := approvalController{}
	app.Route("approvals", func(approvalsRootRoute fiber.Router) {
		approvalsRootRoute.Use(middleware.AuthorizationRequired())
		approvalsRootRoute.Post("", controller.Submit)
		approvalsRootRoute.Post("list",
			middleware.PermissionAnyRequired(models.PermissionApprovalsView, models.PermissionApprovalsApply), controller.List)
		approvalsRootRoute.Post("export",
			middleware.PermissionAnyRequired(models.PermissionApprovalsView, models.PermissionApprovalsApply), controller.Export)
		approvalsRootRoute.Put("resolve",
			middleware.PermissionRequired(models.PermissionApprovalsApply), controller.ResolveMany)
		approvalsRootRoute.Put(":id/resolve",
			middleware.PermissionRequired(models.PermissionApprovalsApply), controller.ResolveOne)
	})
}

// статус http по типу ошибки конвейера согласования.
// UNSUPPORTED_OPERATION - ошибка конфигурации сервера, а не вызывающей
// стороны, поэтому отдается как 500.
func approvalErrorStatus(kind models.ApprovalErrorKind) int {
	switch kind {
	case models.ErrKindValidation, models.ErrKindNoFilter:
		return fiber.StatusBadRequest
	case models.ErrKindNotFound:
		return fiber.StatusNotFound
	case models.ErrKindAlreadyResolved:
		return fiber.StatusConflict
	case models.ErrKindInsufficientPrivilege:
		return fiber.StatusForbidden
	case models.ErrKindApplyFailed:
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func (c *approvalController) sendApprovalError(ctx *fiber.Ctx, err error) error {
	if aErr, ok := models.AsApprovalError(err); ok {
		return ctx.Status(approvalErrorStatus(aErr.Kind)).JSON(apimodels.NewError(aErr.Error()))
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
}

// @Summary Создать заявку на согласование
// @Tags Согласования
// @Description Зарегистрировать заявку на создание/изменение/удаление сущности
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		approvalapimodels.SubmitRequest	true	"request body"
// @Success 201 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals [post]
func (c *approvalController) Submit(ctx *fiber.Ctx) error {
	var payload approvalapimodels.SubmitRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := approvalhandler.Instance.Submit(middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.sendApprovalError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(view))
}

// @Summary Решить заявку
// @Tags Согласования
// @Description Согласовать или отклонить заявку, согласование применяет изменение к целевой сущности
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 				path 		string  true 	"approval ID"
// @Param	body				body		approvalapimodels.ResolveRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @router /api/v1/approvals/{id}/resolve [put]
func (c *approvalController) ResolveOne(ctx *fiber.Ctx) error {
	approvalID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ResolveRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := approvalhandler.Instance.ResolveOne(approvalID, payload.Decision, middleware.GetUserID(ctx))
	if err != nil {
		return c.sendApprovalError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Решить пакет заявок
// @Tags Согласования
// @Description Решить несколько заявок за один запрос, заявки решаются независимо
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		approvalapimodels.ResolveManyRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ResolveManyResult}
// @Success 207 {object} apimodels.Response{data=approvalapimodels.ResolveManyResult}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/approvals/resolve [put]
func (c *approvalController) ResolveMany(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ResolveManyRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := approvalhandler.Instance.ResolveMany(payload, middleware.GetUserID(ctx))
	if err != nil {
		return c.sendApprovalError(ctx, err)
	}
	status := fiber.StatusOK
	if len(result.Errors) != 0 {
		// часть заявок решена, часть завершилась ошибкой
		status = fiber.StatusMultiStatus
		if len(result.Successful) == 0 {
			status = fiber.StatusBadRequest
		}
	}
	return ctx.Status(status).JSON(apimodels.NewResponse(result))
}

// @Summary Список заявок
// @Tags Согласования
// @Description Список заявок с фильтром и постраничным выводом, нерассмотренные заявки первыми
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		approvalapimodels.ApprovalFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/list [post]
func (c *approvalController) List(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovalFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := approvalhandler.Instance.List(payload)
	if err != nil {
		return c.sendApprovalError(ctx, err)
	}
	_, limit := payload.GetPage()
	pageCount := rowCount / int64(limit)
	if rowCount%int64(limit) != 0 {
		pageCount++
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount, pageCount))
}

// @Summary Выгрузка заявок в xlsx
// @Tags Согласования
// @Description Выгрузить реестр заявок по фильтру в файл xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		approvalapimodels.ApprovalFilter	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/export [post]
func (c *approvalController) Export(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovalFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	// выгружается первая страница максимального размера
	payload.Page = 1
	payload.Limit = 100
	list, _, err := approvalhandler.Instance.List(payload)
	if err != nil {
		return c.sendApprovalError(ctx, err)
	}
	buffer, err := xlsexport.Instance.ExportApprovalList(list)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="approvals.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buffer.Bytes())
}
