package di

import (
	"go.uber.org/fx"

	"orderdesk/internal/adapter/mailgate"
	"orderdesk/internal/adapter/notify"
	"orderdesk/internal/app"
	"orderdesk/internal/config"
	"orderdesk/internal/logger"
	"orderdesk/internal/pkg/auth"
	"orderdesk/internal/server/http/handlers"
	"orderdesk/internal/server/http/router"
	"orderdesk/internal/storage/postgres"
	"orderdesk/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		mailgate.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(func(facade *app.DeskFacade) handlers.DeskFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
