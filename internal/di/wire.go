//go:build wireinject
// +build wireinject

package di

import (
	"SignalHub/pkg/config"
	"SignalHub/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Cache
		ProvideCacheService,
		ProvideRefresher,

		// Providers
		ProvideMarketData,
		ProvideNews,
		ProvideBrokers,

		// Sinks
		ProvideSignalStore,
		ProvidePublisher,
		ProvideHub,

		// Pipeline
		ProvideAggregator,
		ProvideScheduler,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
