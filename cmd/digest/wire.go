//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/content-digest/internal/bootstrap"
	"github.com/yanqian/content-digest/internal/infra/config"
	"github.com/yanqian/content-digest/pkg/logger"
)

func initializeServices(verbose bool) (*bootstrap.Services, func(), error) {
	wire.Build(
		config.Load,
		logger.NewCLI,
		bootstrap.ServiceSet,
	)
	return nil, nil, nil
}
