package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "SignalHub/internal/domain/repository"
	"SignalHub/internal/service/scheduler"
	"SignalHub/internal/service/stream"
	"SignalHub/pkg/config"
	xhttp "SignalHub/pkg/http"
	applogger "SignalHub/pkg/logger"
)

// Closer lets the app release cache backends without caring which
// implementation is behind them.
type Closer interface {
	Close() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg     *config.Config
	logger  *applogger.Logger
	handler xhttp.Handler

	hub       *stream.Hub
	sched     *scheduler.Scheduler
	store     domrepo.SignalStore
	publisher domrepo.Publisher
	cacheSvc  Closer

	httpServer *xhttp.Server
}

// New creates an App instance with all dependencies. Store, publisher and
// scheduler may be nil when the corresponding backend is disabled.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	hub *stream.Hub,
	sched *scheduler.Scheduler,
	store domrepo.SignalStore,
	publisher domrepo.Publisher,
	cacheSvc Closer,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		hub:       hub,
		sched:     sched,
		store:     store,
		publisher: publisher,
		cacheSvc:  cacheSvc,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	if a.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := a.store.Init(ctx)
		cancel()
		if err != nil {
			return err
		}
		a.logger.Info("clickhouse schema ready")
	}

	if a.hub != nil {
		go a.hub.Run()
	}

	if a.sched != nil && a.cfg.Watchlist.RefreshCron != "" {
		if err := a.sched.Register(a.cfg.Watchlist.RefreshCron); err != nil {
			return err
		}
		a.sched.Start()
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("watchlist", a.cfg.Watchlist.Tickers))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services in reverse start order.
func (a *App) shutdown() error {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.hub != nil {
		a.hub.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("kafka close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
