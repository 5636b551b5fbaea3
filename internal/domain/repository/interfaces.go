package repository

import (
	"context"
	"errors"
	"time"

	"SignalHub/internal/domain/models"
)

// ErrDataUnavailable signals that an upstream provider was unreachable or
// returned nothing usable. Callers degrade the response instead of failing.
var ErrDataUnavailable = errors.New("market data unavailable")

// MarketDataSource returns recent OHLCV history for a ticker.
type MarketDataSource interface {
	GetRecentBars(ctx context.Context, ticker string, lookback int) ([]models.MarketBar, error)
}

// NewsSource returns recent headlines for a ticker. Implementations fail
// silently: provider errors surface as an empty list, never as an error the
// pipeline must handle.
type NewsSource interface {
	GetRecentHeadlines(ctx context.Context, ticker string, limit int) []models.Headline
}

// BrokerSource returns per-broker flow aggregates for a ticker.
type BrokerSource interface {
	GetBrokerSummary(ctx context.Context, ticker string) (*models.BrokerSummary, error)
}

// Publisher emits assembled signals to downstream consumers (message bus).
type Publisher interface {
	Publish(ctx context.Context, s *models.SignalResponse) error
	Close() error
}

// SignalStore is the append-only audit log of produced classifications.
type SignalStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, rec models.SignalRecord) error
	Recent(ctx context.Context, ticker string, limit int) ([]models.SignalRecord, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Broadcaster pushes a signal to live subscribers of a ticker.
type Broadcaster interface {
	BroadcastSignal(ticker string, s *models.SignalResponse)
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordPhase(phase string)
	RecordWarningLevel(level string)
	RecordPipeline(status string, elapsed time.Duration)
	RecordProviderError(provider string)
	RecordCacheHit(name string)
	RecordCacheMiss(name string)
}
