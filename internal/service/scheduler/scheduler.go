package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"SignalHub/internal/domain/models"
	"SignalHub/internal/domain/repository"
	"SignalHub/pkg/logger"
)

// Analyzer runs the full signal pipeline for one ticker.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string, lookback int) (*models.SignalResponse, error)
}

// Scheduler keeps the watchlist warm by re-running analysis on a cron
// schedule, so interactive reads land on a fresh cache.
type Scheduler struct {
	cron     *cron.Cron
	analyzer Analyzer
	tickers  []string
	logger   *logger.Logger
}

func New(l *logger.Logger, analyzer Analyzer, tickers []string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		analyzer: analyzer,
		tickers:  tickers,
		logger:   l,
	}
}

// Register installs the refresh job. spec is a standard 5-field cron
// expression, e.g. "*/5 * * * *".
func (s *Scheduler) Register(spec string) error {
	_, err := s.cron.AddFunc(spec, s.refreshWatchlist)
	return err
}

// Start begins running registered jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", logger.Int("tickers", len(s.tickers)))
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) refreshWatchlist() {
	started := time.Now()
	for _, ticker := range s.tickers {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := s.analyzer.Analyze(ctx, ticker, repository.DefaultLookback); err != nil {
			s.logger.Warn("watchlist refresh failed",
				logger.String("ticker", ticker),
				logger.Error(err))
		}
		cancel()
	}
	s.logger.Info("watchlist refreshed",
		logger.Int("tickers", len(s.tickers)),
		logger.Duration("took_ms", time.Since(started)))
}
