package di

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"SignalHub/internal/domain/repository"
	"SignalHub/internal/handler/api"
	internalrepo "SignalHub/internal/repository"
	"SignalHub/internal/service/brokers"
	"SignalHub/internal/service/marketdata"
	imetrics "SignalHub/internal/service/metrics"
	"SignalHub/internal/service/news"
	"SignalHub/internal/service/scheduler"
	"SignalHub/internal/service/stream"
	"SignalHub/internal/services/flow"
	"SignalHub/internal/services/quant"
	"SignalHub/internal/services/trend"
	"SignalHub/internal/usecase"
	pkgcache "SignalHub/pkg/cache"
	pkgch "SignalHub/pkg/clickhouse"
	"SignalHub/pkg/config"
	xhttp "SignalHub/pkg/http"
	pkgkafka "SignalHub/pkg/kafka"
	applogger "SignalHub/pkg/logger"
	"SignalHub/pkg/metrics"
	"SignalHub/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideCacheService creates the cache backend: layered memory+Redis when
// Redis is enabled, in-process memory otherwise.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}

	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("parse redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("parse redis port: %w", err)
	}

	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideRefresher layers stale-while-revalidate over the cache backend and
// reports hit/miss outcomes.
func ProvideRefresher(svc pkgcache.Service, rec repository.Metrics) *pkgcache.Refresher {
	return pkgcache.NewRefresher(svc, time.Hour, pkgcache.WithStats(rec))
}

// ProvideMetrics creates a Prometheus metrics recorder and registers the
// provider instruments.
func ProvideMetrics() repository.Metrics {
	imetrics.Register()
	return metrics.New()
}

// ProvideMarketData creates the OHLCV provider client.
func ProvideMarketData(cfg *config.Config, l *applogger.Logger) repository.MarketDataSource {
	return marketdata.NewClient(
		cfg.Providers.MarketData.BaseURL,
		cfg.Providers.MarketData.APIKey,
		l,
		marketdata.WithRPS(float64(cfg.Providers.MarketData.RPS)),
		marketdata.WithTimeout(cfg.Providers.MarketData.Timeout),
	)
}

// ProvideNews creates the headline feed client.
func ProvideNews(cfg *config.Config, l *applogger.Logger) repository.NewsSource {
	return news.NewClient(cfg.Providers.News.FeedURL, cfg.Providers.News.Timeout, nil, l,
		news.WithFreshTTL(cfg.Cache.TTL.News))
}

// ProvideBrokers creates the broker flow client, or nil when unconfigured.
func ProvideBrokers(cfg *config.Config, l *applogger.Logger) repository.BrokerSource {
	if cfg.Providers.Brokers.BaseURL == "" {
		return nil
	}
	return brokers.NewClient(cfg.Providers.Brokers.BaseURL, cfg.Providers.Brokers.Timeout, l)
}

// ProvideSignalStore creates the ClickHouse audit store, or nil when disabled.
func ProvideSignalStore(cfg *config.Config, l *applogger.Logger) (repository.SignalStore, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	store := internalrepo.NewCHSignalStore(client)
	store.SetLogger(l)
	return store, nil
}

// ProvidePublisher creates the Kafka publisher, or nil when disabled.
func ProvidePublisher(cfg *config.Config, l *applogger.Logger) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	pub := internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
	pub.SetLogger(l)
	return pub, nil
}

// ProvideHub creates the websocket broadcast hub.
func ProvideHub(cfg *config.Config, l *applogger.Logger) *stream.Hub {
	return stream.NewHub(l, cfg.Stream.BroadcastInterval)
}

// ProvideAggregator assembles the signal pipeline.
func ProvideAggregator(
	cfg *config.Config,
	l *applogger.Logger,
	market repository.MarketDataSource,
	newsSrc repository.NewsSource,
	brokerSrc repository.BrokerSource,
	refresher *pkgcache.Refresher,
	publisher repository.Publisher,
	store repository.SignalStore,
	hub *stream.Hub,
	rec repository.Metrics,
) *usecase.SignalAggregator {
	return usecase.NewSignalAggregator(usecase.Deps{
		Market:  market,
		News:    newsSrc,
		Brokers: brokerSrc,

		Classifier: flow.NewClassifier(),
		Warnings:   quant.NewGenerator(),
		Blender:    trend.NewBlender(),
		Baseline:   trend.NewMomentumEstimator(),

		Refresher: refresher,
		TTLs: usecase.TTLs{
			Bars:    cfg.Cache.TTL.Bars,
			Brokers: cfg.Cache.TTL.Brokers,
			Signals: cfg.Cache.TTL.Signals,
		},

		Publisher: publisher,
		Store:     store,
		Broadcast: hub,
		Metrics:   rec,

		Logger: l,
	})
}

// ProvideScheduler creates the watchlist refresher.
func ProvideScheduler(cfg *config.Config, l *applogger.Logger, agg *usecase.SignalAggregator) *scheduler.Scheduler {
	return scheduler.New(l, agg, cfg.Watchlist.Tickers)
}

// ProvideHandler wires the pipeline to HTTP routes.
func ProvideHandler(
	l *applogger.Logger,
	agg *usecase.SignalAggregator,
	hub *stream.Hub,
	store repository.SignalStore,
) xhttp.Handler {
	return api.NewSignalsEchoHandler(l, agg, hub, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	hub *stream.Hub,
	sched *scheduler.Scheduler,
	store repository.SignalStore,
	publisher repository.Publisher,
	cacheSvc pkgcache.Service,
) *server.App {
	var closer server.Closer
	if c, ok := cacheSvc.(server.Closer); ok {
		closer = c
	}
	return server.New(cfg, l, handler, hub, sched, store, publisher, closer)
}
