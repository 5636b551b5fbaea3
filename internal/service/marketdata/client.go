package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"SignalHub/internal/domain/models"
	"SignalHub/internal/domain/repository"
	imetrics "SignalHub/internal/service/metrics"
	"SignalHub/internal/service/ratelimit"
	xhttp "SignalHub/pkg/http"
	"SignalHub/pkg/logger"
)

const providerName = "market_data"

// Client fetches OHLCV bars from the upstream market data API.
type Client struct {
	baseURL string
	apiKey  string
	rps     float64
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	logger  *logger.Logger
}

type Option func(*Client)

func WithRPS(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.rps = rps
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = xhttp.NewClient(xhttp.WithTimeout(timeout))
		}
	}
}

func NewClient(baseURL, apiKey string, l *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		rps:     5,
		http:    xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		limiter: ratelimit.New(),
		logger:  l,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type barsResponse struct {
	Ticker string `json:"ticker"`
	Bars   []struct {
		Timestamp int64   `json:"t"`
		Open      float64 `json:"o"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		Close     float64 `json:"c"`
		Volume    float64 `json:"v"`
	} `json:"bars"`
}

// GetRecentBars returns up to lookback chronological session bars.
func (c *Client) GetRecentBars(ctx context.Context, ticker string, lookback int) ([]models.MarketBar, error) {
	if !c.limiter.Allow(providerName, c.rps*2, c.rps) {
		imetrics.ProviderErrors.WithLabelValues(providerName).Inc()
		return nil, fmt.Errorf("rate limited: %w", repository.ErrDataUnavailable)
	}

	start := time.Now()
	var resp barsResponse
	err := c.http.GetJSON(ctx,
		c.baseURL+"/v1/bars/"+ticker,
		map[string][]string{"limit": {strconv.Itoa(lookback)}},
		map[string]string{"X-Api-Key": c.apiKey},
		&resp,
	)
	imetrics.ProviderLatency.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		imetrics.ProviderErrors.WithLabelValues(providerName).Inc()
		c.logger.Warn("bars fetch failed",
			logger.String("ticker", ticker),
			logger.Error(err))
		return nil, fmt.Errorf("fetch bars for %s: %w", ticker, repository.ErrDataUnavailable)
	}
	if len(resp.Bars) == 0 {
		return nil, fmt.Errorf("no bars for %s: %w", ticker, repository.ErrDataUnavailable)
	}

	bars := make([]models.MarketBar, 0, len(resp.Bars))
	for _, b := range resp.Bars {
		bars = append(bars, models.MarketBar{
			Timestamp: time.Unix(b.Timestamp, 0).UTC(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })

	if len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}
	return bars, nil
}
