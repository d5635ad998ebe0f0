//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"ntf/internal/app"
	"ntf/internal/config"
	"ntf/internal/http"
	"ntf/internal/http/controller"
	"ntf/internal/logging"
	"ntf/internal/queue/rabbitmq"
	"ntf/internal/repository"
	"ntf/internal/service/notify"
	"ntf/internal/sse"
	"ntf/internal/store/memory"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		memory.New,
		wire.Bind(new(repository.NotificationRepository), new(*memory.Store)),
		sse.NewHub,
		rabbitmq.NewPublisher,
		notify.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		app.NewApp,
	)
	return &app.App{}, nil
}
