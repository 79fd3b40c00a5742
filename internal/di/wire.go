//go:build wireinject
// +build wireinject

package di

import (
	"MarketPulse/pkg/config"
	"MarketPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Core services
		ProvideParser,
		ProvideDeduplicator,
		ProvideAccumulator,
		ProvideScoreWeights,
		ProvideClassifier,

		// Delivery and queueing
		ProvideQueueStore,
		ProvideRetryQueue,
		ProvideDeliverer,
		ProvideIngestionSync,

		// History store
		ProvideClickHouseClient,
		ProvideAlertStore,

		// Use cases
		ProvideIngestPipeline,
		ProvidePulseUseCase,

		// Sources
		ProvideAlertStream,
		ProvideAlertCollector,
		ProvideKafkaConsumer,
		ProvideKafkaAlertsHandler,

		// HTTP surface
		ProvideResponseCache,
		ProvidePulseHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
