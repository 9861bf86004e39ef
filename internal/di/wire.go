//go:build wireinject
// +build wireinject

package di

import (
	"SkinPulse/pkg/config"
	"SkinPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Storage and market data
		ProvideObservationStore,
		ProvideMarketProvider,

		// Ingestion
		ProvideTracker,
		ProvidePublisher,
		ProvideTickProcessor,
		ProvideStreamCollector,
		ProvideKafkaConsumer,
		ProvideKafkaTicksHandler,

		// Analytics
		ProvideRecommender,
		ProvideSimulator,

		// Serving
		ProvideScheduler,
		ProvideCache,
		ProvideQueueWorker,
		ProvideHandler,

		ProvideApp,
	)
	return &server.App{}, nil
}
