package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SignalHub/internal/domain/models"
	pkgch "SignalHub/pkg/clickhouse"
	applogger "SignalHub/pkg/logger"
)

// CHSignalStore implements SignalStore backed by ClickHouse. Each produced
// classification is appended as one row; the table is the audit trail for
// backtesting signal quality.
type CHSignalStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

func NewCHSignalStore(ch *pkgch.Client) *CHSignalStore {
	return &CHSignalStore{ch: ch, db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHSignalStore) SetLogger(l *applogger.Logger) { s.l = l }

var schemaStmts = []string{
	`CREATE DATABASE IF NOT EXISTS signalhub`,
	`CREATE TABLE IF NOT EXISTS signalhub.signals (
        ts            DateTime64(3) CODEC(Delta, ZSTD),
        ticker        LowCardinality(String),
        phase         LowCardinality(String),
        confidence    UInt8,
        warning_level LowCardinality(String),
        label         LowCardinality(String),
        bullish_pct   UInt8,
        status        LowCardinality(String)
    )
    ENGINE = MergeTree
    PARTITION BY toYYYYMM(ts)
    ORDER BY (ticker, ts)
    TTL toDateTime(ts) + INTERVAL 180 DAY`,
}

// Init ensures the database and signals table exist. Idempotent.
func (s *CHSignalStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, schemaStmts)
}

// Store appends one classification row.
func (s *CHSignalStore) Store(ctx context.Context, rec models.SignalRecord) error {
	start := time.Now()
	const q = `
        INSERT INTO signalhub.signals
            (ts, ticker, phase, confidence, warning_level, label, bullish_pct, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, q,
		rec.Timestamp, rec.Ticker, string(rec.Phase), rec.Confidence,
		rec.WarningLevel, rec.Label, rec.BullishPct, rec.Status,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse signal insert error",
				applogger.String("ticker", rec.Ticker),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store signal: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse signal stored",
			applogger.String("ticker", rec.Ticker),
			applogger.String("phase", string(rec.Phase)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

// Recent returns up to limit rows for a ticker, newest first.
func (s *CHSignalStore) Recent(ctx context.Context, ticker string, limit int) ([]models.SignalRecord, error) {
	const q = `
        SELECT ts, ticker, phase, confidence, warning_level, label, bullish_pct, status
        FROM signalhub.signals
        WHERE ticker = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, ticker, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse recent signals query error",
				applogger.String("ticker", ticker),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("recent signals: %w", err)
	}
	defer rows.Close()

	out := make([]models.SignalRecord, 0, limit)
	for rows.Next() {
		var rec models.SignalRecord
		var phase string
		if err := rows.Scan(&rec.Timestamp, &rec.Ticker, &phase, &rec.Confidence,
			&rec.WarningLevel, &rec.Label, &rec.BullishPct, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		rec.Phase = models.Phase(phase)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Health pings the underlying pool.
func (s *CHSignalStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

// Close closes the underlying pool.
func (s *CHSignalStore) Close() error {
	return s.ch.Close()
}
