//go:build wireinject
// +build wireinject

package di

import (
	"Aletheia/pkg/config"
	"Aletheia/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideRecordStore,
		ProvideTradeLedger,
		ProvideIntelligencePublisher,

		// Services
		ProvideUpstreamClient,
		ProvideSynthesizer,
		ProvideNewsGenerator,
		ProvideHealQueue,
		ProvideHealDispatcher,

		// Use cases
		ProvideResolver,
		ProvideTickerLister,
		ProvideHealJob,
		ProvideTradeIngestor,

		// HTTP and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
