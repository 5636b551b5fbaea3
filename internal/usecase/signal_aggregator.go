package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SignalHub/internal/domain/models"
	domrepo "SignalHub/internal/domain/repository"
	domsvc "SignalHub/internal/domain/service"
	"SignalHub/internal/services/features"
	"SignalHub/pkg/cache"
	applogger "SignalHub/pkg/logger"
)

// TTLs controls per-concern cache freshness.
type TTLs struct {
	Bars    time.Duration
	Brokers time.Duration
	Signals time.Duration
}

// Deps bundles everything the aggregator needs. Publisher, Store, Broadcast
// and Metrics are optional; a nil sink is skipped.
type Deps struct {
	Market  domrepo.MarketDataSource
	News    domrepo.NewsSource
	Brokers domrepo.BrokerSource

	Classifier domsvc.FlowClassifier
	Warnings   domsvc.WarningGenerator
	Blender    domsvc.SentimentBlender
	Baseline   domsvc.BaselineEstimator

	Refresher *cache.Refresher
	TTLs      TTLs

	Publisher domrepo.Publisher
	Store     domrepo.SignalStore
	Broadcast domrepo.Broadcaster
	Metrics   domrepo.Metrics

	Logger *applogger.Logger
}

// SignalAggregator orchestrates the full pipeline: fetch history and context,
// derive features, classify the flow, generate warnings, and blend the final
// sentiment. Provider outages degrade the response instead of failing it.
type SignalAggregator struct {
	d Deps
}

func NewSignalAggregator(d Deps) *SignalAggregator {
	if d.TTLs.Bars <= 0 {
		d.TTLs.Bars = 5 * time.Minute
	}
	if d.TTLs.Brokers <= 0 {
		d.TTLs.Brokers = 15 * time.Minute
	}
	if d.TTLs.Signals <= 0 {
		d.TTLs.Signals = time.Minute
	}
	return &SignalAggregator{d: d}
}

// Analyze returns the consolidated signal for a ticker, served from cache
// when fresh. Cache misses run the full pipeline including downstream
// publication.
func (a *SignalAggregator) Analyze(ctx context.Context, ticker string, lookback int) (*models.SignalResponse, error) {
	lookback = domrepo.NormalizeLookback(lookback)
	key := fmt.Sprintf("signal:%s:%d", ticker, lookback)

	var out models.SignalResponse
	err := a.d.Refresher.GetOrRefresh(ctx, key, a.d.TTLs.Signals, &out, func(ctx context.Context) (interface{}, error) {
		return a.compute(ctx, ticker, lookback), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ClassifyFlow runs the flow classifier on caller-supplied observables.
func (a *SignalAggregator) ClassifyFlow(percentChange, volumeRatio, vwapDeviation float64) models.PhaseClassification {
	return a.d.Classifier.Classify(percentChange, volumeRatio, vwapDeviation)
}

// GenerateWarnings runs the warning generator on caller-supplied scalars.
func (a *SignalAggregator) GenerateWarnings(expectedReturn, volumeRatio, rsi, foreignNetBuy, sentimentScore, atrRatio float64, brokerActivity map[string][]string) models.QuantReport {
	report := a.d.Warnings.Generate(expectedReturn, volumeRatio, rsi, foreignNetBuy, sentimentScore, atrRatio, brokerActivity)
	if a.d.Metrics != nil {
		a.d.Metrics.RecordWarningLevel(report.Main.Level)
	}
	return report
}

// BlendSentiment folds a group status into a baseline bullish probability.
func (a *SignalAggregator) BlendSentiment(baselineProbUp float64, groupStatus string, hasCatalyst bool) models.BlendedSentiment {
	return a.d.Blender.Blend(baselineProbUp, groupStatus, hasCatalyst)
}

// News returns recent headlines for a ticker.
func (a *SignalAggregator) News(ctx context.Context, ticker string, limit int) []models.Headline {
	return a.d.News.GetRecentHeadlines(ctx, ticker, limit)
}

// BrokerSummary returns cached broker flow aggregates for a ticker.
func (a *SignalAggregator) BrokerSummary(ctx context.Context, ticker string) (*models.BrokerSummary, error) {
	var out models.BrokerSummary
	err := a.d.Refresher.GetOrRefresh(ctx, "brokers:"+ticker, a.d.TTLs.Brokers, &out, func(ctx context.Context) (interface{}, error) {
		return a.d.Brokers.GetBrokerSummary(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentSignals reads the audit trail, newest first.
func (a *SignalAggregator) RecentSignals(ctx context.Context, ticker string, limit int) ([]models.SignalRecord, error) {
	if a.d.Store == nil {
		return nil, nil
	}
	return a.d.Store.Recent(ctx, ticker, limit)
}

// compute runs the pipeline end to end and fires the side effects. It always
// produces a response; missing inputs degrade the status instead.
func (a *SignalAggregator) compute(ctx context.Context, ticker string, lookback int) *models.SignalResponse {
	started := time.Now()

	resp := &models.SignalResponse{
		Ticker:    ticker,
		Timestamp: time.Now().UTC(),
		Status:    models.StatusSuccess,
		Errors:    map[string]string{},
	}

	bars := a.fetchBars(ctx, ticker, lookback, resp)
	headlines := a.d.News.GetRecentHeadlines(ctx, ticker, 10)

	fs, err := features.Extract(bars, headlines)
	if err != nil {
		if errors.Is(err, features.ErrInsufficientHistory) {
			// Only the bar-derived ratios are defaulted. Headlines do not
			// depend on history depth, so their score and catalyst survive.
			fs = models.NeutralFeatures(features.PercentChange(bars))
			fs.NewsSentiment, fs.HasCatalyst = features.ScoreHeadlines(headlines)
			resp.Errors["features"] = err.Error()
			if resp.Status == models.StatusSuccess {
				resp.Status = models.StatusPartial
			}
		}
	}
	resp.Features = fs
	resp.ExpectedReturn = features.ExpectedReturn(bars)

	resp.Phase = a.d.Classifier.Classify(fs.PercentChange, fs.VolumeRatio, fs.VWAPDeviationPct)

	foreignNet, brokerActivity := a.brokerContext(ctx, ticker, resp)
	resp.Warnings = a.d.Warnings.Generate(
		resp.ExpectedReturn, fs.VolumeRatio, fs.RSI,
		foreignNet, fs.NewsSentiment/100, fs.ATRRatio,
		brokerActivity,
	)

	probUp := a.d.Baseline.ProbUp(bars)
	resp.Sentiment = a.d.Blender.Blend(probUp, resp.Phase.Institutional.Status, fs.HasCatalyst)

	if len(resp.Errors) == 0 {
		resp.Errors = nil
	}
	a.record(resp, time.Since(started))
	a.emit(resp)
	return resp
}

// fetchBars returns cached or fresh bars; an unreachable provider leaves the
// response in fallback with no bars.
func (a *SignalAggregator) fetchBars(ctx context.Context, ticker string, lookback int, resp *models.SignalResponse) []models.MarketBar {
	key := fmt.Sprintf("bars:%s:%d", ticker, lookback)
	var bars []models.MarketBar
	err := a.d.Refresher.GetOrRefresh(ctx, key, a.d.TTLs.Bars, &bars, func(ctx context.Context) (interface{}, error) {
		return a.d.Market.GetRecentBars(ctx, ticker, lookback)
	})
	if err != nil {
		resp.Status = models.StatusFallback
		resp.Errors["market_data"] = err.Error()
		if a.d.Metrics != nil {
			a.d.Metrics.RecordProviderError("market_data")
		}
		if a.d.Logger != nil {
			a.d.Logger.Warn("bars unavailable, serving fallback",
				applogger.String("ticker", ticker),
				applogger.Error(err))
		}
		return nil
	}
	return bars
}

// brokerContext resolves foreign net flow and per-direction broker codes.
// Broker data is optional context; failure only annotates the response.
func (a *SignalAggregator) brokerContext(ctx context.Context, ticker string, resp *models.SignalResponse) (float64, map[string][]string) {
	if a.d.Brokers == nil {
		return 0, nil
	}
	summary, err := a.BrokerSummary(ctx, ticker)
	if err != nil {
		resp.Errors["brokers"] = err.Error()
		if resp.Status == models.StatusSuccess {
			resp.Status = models.StatusPartial
		}
		return 0, nil
	}

	activity := map[string][]string{}
	for _, b := range summary.TopBuyers {
		activity["buyers"] = append(activity["buyers"], b.Code)
	}
	for _, s := range summary.TopSellers {
		activity["sellers"] = append(activity["sellers"], s.Code)
	}
	return summary.NetValue, activity
}

func (a *SignalAggregator) record(resp *models.SignalResponse, elapsed time.Duration) {
	if a.d.Metrics == nil {
		return
	}
	a.d.Metrics.RecordPhase(string(resp.Phase.Phase))
	a.d.Metrics.RecordWarningLevel(resp.Warnings.Main.Level)
	a.d.Metrics.RecordPipeline(resp.Status, elapsed)
}

// emit fans the finished signal out to the bus, the audit store, and live
// subscribers. Sink errors are logged, never propagated.
func (a *SignalAggregator) emit(resp *models.SignalResponse) {
	if a.d.Broadcast != nil {
		a.d.Broadcast.BroadcastSignal(resp.Ticker, resp)
	}

	if a.d.Publisher == nil && a.d.Store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if a.d.Publisher != nil {
			if err := a.d.Publisher.Publish(ctx, resp); err != nil && a.d.Logger != nil {
				a.d.Logger.Error("signal publish failed",
					applogger.String("ticker", resp.Ticker),
					applogger.Error(err))
			}
		}
		if a.d.Store != nil {
			rec := models.SignalRecord{
				Ticker:       resp.Ticker,
				Timestamp:    resp.Timestamp,
				Phase:        resp.Phase.Phase,
				Confidence:   resp.Phase.Confidence,
				WarningLevel: resp.Warnings.Main.Level,
				Label:        resp.Sentiment.Label,
				BullishPct:   resp.Sentiment.BullishPct,
				Status:       resp.Status,
			}
			if err := a.d.Store.Store(ctx, rec); err != nil && a.d.Logger != nil {
				a.d.Logger.Error("signal audit write failed",
					applogger.String("ticker", resp.Ticker),
					applogger.Error(err))
			}
		}
	}()
}
