//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/ppgi-advisor/internal/bootstrap"
	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
	"github.com/yanqian/ppgi-advisor/internal/infra/config"
	"github.com/yanqian/ppgi-advisor/internal/infra/predictor/remote"
	httpiface "github.com/yanqian/ppgi-advisor/internal/interface/http"
	"github.com/yanqian/ppgi-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		providePredictionConfig,
		provideFoodCatalog,
		providePredictor,
		providePredictionCache,
		provideHistoryRepository,
		prediction.NewService,
		wire.Bind(new(prediction.Predictor), new(*remote.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
