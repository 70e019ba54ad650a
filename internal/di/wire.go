//go:build wireinject
// +build wireinject

package di

import (
	"OptionVal/pkg/config"
	"OptionVal/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideResultCache,

		// Repositories
		ProvideResultStore,
		ProvideResultPublisher,

		// Market feed
		ProvideSpotCollector,
		ProvideSpotBook,

		// Use cases
		ProvideValuationService,
		ProvideRequestsHandler,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
