package initializers

import (
	"context"

	"biz-tools-backend/config"
	"biz-tools-backend/fiberlog"
	approvalhandler "biz-tools-backend/lib/approval"
	xlsexport "biz-tools-backend/lib/export/xls"
	"biz-tools-backend/lib/notify"
	"biz-tools-backend/lib/permissions"
	reportshandler "biz-tools-backend/lib/reports"
	authhandler "biz-tools-backend/lib/space/auth"
	usershandler "biz-tools-backend/lib/space/users/handler"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitSmtp()
	permissions.NewHandler()
	notify.NewHandler()
	usershandler.NewHandler()
	authhandler.NewHandler()
	approvalhandler.NewHandler()
	reportshandler.NewHandler()
	xlsexport.NewHandler()
}
