package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"SignalHub/internal/domain/models"
	domrepo "SignalHub/internal/domain/repository"
	"SignalHub/internal/services/flow"
	"SignalHub/internal/services/quant"
	"SignalHub/internal/services/trend"
	"SignalHub/pkg/cache"
)

type fakeMarket struct {
	bars  []models.MarketBar
	err   error
	calls int32
}

func (f *fakeMarket) GetRecentBars(ctx context.Context, ticker string, lookback int) ([]models.MarketBar, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.bars, nil
}

type fakeNews struct{ headlines []models.Headline }

func (f *fakeNews) GetRecentHeadlines(ctx context.Context, ticker string, limit int) []models.Headline {
	return f.headlines
}

type fakeBrokers struct {
	summary *models.BrokerSummary
	err     error
}

func (f *fakeBrokers) GetBrokerSummary(ctx context.Context, ticker string) (*models.BrokerSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

type fakePublisher struct{ published chan *models.SignalResponse }

func (f *fakePublisher) Publish(ctx context.Context, s *models.SignalResponse) error {
	f.published <- s
	return nil
}
func (f *fakePublisher) Close() error { return nil }

// markupBars is 30 flat sessions followed by an 8% jump on triple volume.
func markupBars() []models.MarketBar {
	t0 := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.MarketBar, 30)
	for i := range bars {
		close := 100.0
		vol := 1000.0
		if i == 29 {
			close = 108.0
			vol = 3000.0
		}
		bars[i] = models.MarketBar{
			Timestamp: t0.AddDate(0, 0, i),
			Open:      close,
			High:      close + 1,
			Low:       close - 1,
			Close:     close,
			Volume:    vol,
		}
	}
	return bars
}

func newTestAggregator(market domrepo.MarketDataSource, newsSrc domrepo.NewsSource, brokerSrc domrepo.BrokerSource, pub domrepo.Publisher) (*SignalAggregator, *cache.MemoryCache) {
	mc := cache.NewMemoryCache()
	return NewSignalAggregator(Deps{
		Market:  market,
		News:    newsSrc,
		Brokers: brokerSrc,

		Classifier: flow.NewClassifier(),
		Warnings:   quant.NewGenerator(),
		Blender:    trend.NewBlender(),
		Baseline:   trend.NewMomentumEstimator(),

		Refresher: cache.NewRefresher(mc, time.Minute),
		Publisher: pub,
	}), mc
}

func TestAnalyzeFullPipeline(t *testing.T) {
	market := &fakeMarket{bars: markupBars()}
	brokerSrc := &fakeBrokers{summary: &models.BrokerSummary{
		Ticker:            "BBCA",
		TopBuyers:         []models.BrokerFlow{{Code: "YP", Value: 8.0}},
		NetValue:          8.0,
		MarketMakerAction: "BUYING",
	}}
	pub := &fakePublisher{published: make(chan *models.SignalResponse, 1)}
	agg, mc := newTestAggregator(market, &fakeNews{}, brokerSrc, pub)
	defer mc.Close()

	resp, err := agg.Analyze(context.Background(), "BBCA", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Status != models.StatusSuccess {
		t.Errorf("status = %s, want success (errors: %v)", resp.Status, resp.Errors)
	}
	if resp.Phase.Phase != models.PhaseMegalodonMarkup {
		t.Errorf("phase = %s, want megalodon markup", resp.Phase.Phase)
	}
	if resp.Phase.Confidence != 92 {
		t.Errorf("confidence = %d, want 92", resp.Phase.Confidence)
	}
	if got := resp.Features.PercentChange; got < 7.99 || got > 8.01 {
		t.Errorf("percent change = %v, want 8", got)
	}
	if got := resp.Features.VolumeRatio; got < 2.99 || got > 3.01 {
		t.Errorf("volume ratio = %v, want 3", got)
	}
	if resp.Sentiment.Label != "Bullish" {
		t.Errorf("sentiment label = %s, want Bullish", resp.Sentiment.Label)
	}
	if resp.Sentiment.BullishPct+resp.Sentiment.BearishPct != 100 {
		t.Errorf("sentiment split %d/%d does not sum to 100",
			resp.Sentiment.BullishPct, resp.Sentiment.BearishPct)
	}

	select {
	case got := <-pub.published:
		if got.Ticker != "BBCA" {
			t.Errorf("published ticker = %s", got.Ticker)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("signal never published")
	}
}

func TestAnalyzeServesFromCache(t *testing.T) {
	market := &fakeMarket{bars: markupBars()}
	agg, mc := newTestAggregator(market, &fakeNews{}, nil, nil)
	defer mc.Close()
	ctx := context.Background()

	if _, err := agg.Analyze(ctx, "BBCA", 60); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	if _, err := agg.Analyze(ctx, "BBCA", 60); err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	if calls := atomic.LoadInt32(&market.calls); calls != 1 {
		t.Errorf("market source called %d times, want 1", calls)
	}
}

func TestAnalyzeMarketDataDown(t *testing.T) {
	market := &fakeMarket{err: fmt.Errorf("dial: %w", domrepo.ErrDataUnavailable)}
	brokerSrc := &fakeBrokers{err: domrepo.ErrDataUnavailable}
	agg, mc := newTestAggregator(market, &fakeNews{}, brokerSrc, nil)
	defer mc.Close()

	resp, err := agg.Analyze(context.Background(), "ZZZZ", 60)
	if err != nil {
		t.Fatalf("degraded pipeline must still answer, got error: %v", err)
	}

	if resp.Status != models.StatusFallback {
		t.Errorf("status = %s, want fallback", resp.Status)
	}
	if _, ok := resp.Errors["market_data"]; !ok {
		t.Errorf("missing market_data error annotation: %v", resp.Errors)
	}
	if resp.Features != models.NeutralFeatures(0) {
		t.Errorf("features = %+v, want neutral", resp.Features)
	}
	if resp.Phase.Phase != models.PhaseConsolidation {
		t.Errorf("phase = %s, want consolidation", resp.Phase.Phase)
	}
	if resp.Warnings.Main.Level != "NEUTRAL" {
		t.Errorf("main warning = %s, want NEUTRAL", resp.Warnings.Main.Level)
	}
	if resp.Sentiment.Label != "Bearish" {
		t.Errorf("sentiment label = %s, want Bearish (wait and see pulls 50 down to 30)", resp.Sentiment.Label)
	}
}

func TestAnalyzeShortHistoryIsPartial(t *testing.T) {
	market := &fakeMarket{bars: markupBars()[:5]}
	agg, mc := newTestAggregator(market, &fakeNews{}, nil, nil)
	defer mc.Close()

	resp, err := agg.Analyze(context.Background(), "BBCA", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != models.StatusPartial {
		t.Errorf("status = %s, want partial", resp.Status)
	}
	if _, ok := resp.Errors["features"]; !ok {
		t.Errorf("missing features error annotation: %v", resp.Errors)
	}
	if resp.Features.VolumeRatio != 1.0 || resp.Features.RSI != 50 {
		t.Errorf("features not neutral: %+v", resp.Features)
	}
}

func TestAnalyzeShortHistoryKeepsNewsSignal(t *testing.T) {
	market := &fakeMarket{bars: markupBars()[:5]}
	newsSrc := &fakeNews{headlines: []models.Headline{
		{Title: "Company announces merger with rival"},
	}}
	agg, mc := newTestAggregator(market, newsSrc, nil, nil)
	defer mc.Close()

	resp, err := agg.Analyze(context.Background(), "BBCA", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != models.StatusPartial {
		t.Errorf("status = %s, want partial", resp.Status)
	}

	// Bar-derived ratios fall back to neutral, but the headline score and
	// catalyst flag come from the news feed, which answered fine.
	if resp.Features.VolumeRatio != 1.0 || resp.Features.RSI != 50 {
		t.Errorf("bar features not neutral: %+v", resp.Features)
	}
	if !resp.Features.HasCatalyst {
		t.Error("catalyst headline lost in short-history fallback")
	}
	if resp.Features.NewsSentiment != 85 {
		t.Errorf("news sentiment = %v, want 85 (catalyst floor)", resp.Features.NewsSentiment)
	}
	if resp.Sentiment.Label != "Bullish" || resp.Sentiment.BullishPct != 85 {
		t.Errorf("sentiment = %s %d%%, want Bullish 85%% (catalyst floor on blend)",
			resp.Sentiment.Label, resp.Sentiment.BullishPct)
	}
}
