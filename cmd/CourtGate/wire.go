//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"CourtGate/internal/biz"
	"CourtGate/internal/conf"
	"CourtGate/internal/data"
	"CourtGate/internal/server"
	"CourtGate/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Bootstrap, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		wire.FieldsOf(new(*conf.Bootstrap), "Server", "Data", "Courts", "Fallback"),
		wire.FieldsOf(new(*conf.Courts), "Federal", "State", "Breaker"),
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		server.ProviderSet,
		newHealthCron,
		newApp,
	))
}
