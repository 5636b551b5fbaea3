package news

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"SignalHub/internal/domain/models"
	"SignalHub/internal/service/cache"
	imetrics "SignalHub/internal/service/metrics"
	xhttp "SignalHub/pkg/http"
	"SignalHub/pkg/logger"
	"SignalHub/pkg/util"
)

const (
	providerName = "news"

	defaultFreshTTL = 6 * time.Hour
	staleFactor     = 8 // stale copies live this many fresh windows

	// feedFetchSize is how many items each feed request asks for. The full
	// fetch is what gets cached; per-caller limits only apply on read, so a
	// small first request cannot pin a truncated set for the TTL.
	feedFetchSize = 50
)

// Client pulls recent headlines from the news feed API. Failures never
// propagate to callers: news is an enrichment input, not a required one.
// Headlines are cached for the fresh TTL; when the feed is down a stale
// copy is served instead of an empty list.
type Client struct {
	feedURL  string
	http     *xhttp.Client
	cache    cache.BytesCache
	freshTTL time.Duration
	logger   *logger.Logger
}

type Option func(*Client)

// WithFreshTTL overrides how long a fetched headline set stays fresh.
func WithFreshTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.freshTTL = ttl
		}
	}
}

func NewClient(feedURL string, timeout time.Duration, c cache.BytesCache, l *logger.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if c == nil {
		c = cache.NewTTLCache()
	}
	client := &Client{
		feedURL:  feedURL,
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cache:    c,
		freshTTL: defaultFreshTTL,
		logger:   l,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type feedResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Description string `json:"description"` // HTML fragment
		Source      string `json:"source"`
		PublishedAt string `json:"published_at"` // RFC3339 or unix seconds
	} `json:"items"`
}

// GetRecentHeadlines returns up to limit headlines, newest first. An
// unreachable feed yields the last cached copy, or an empty list.
func (c *Client) GetRecentHeadlines(ctx context.Context, ticker string, limit int) []models.Headline {
	key := "news:" + ticker

	if b, ok, _ := c.cache.GetBytes(key); ok {
		var cached []models.Headline
		if json.Unmarshal(b, &cached) == nil {
			return capLen(cached, limit)
		}
	}

	headlines, err := c.fetch(ctx, ticker)
	if err != nil {
		imetrics.ProviderErrors.WithLabelValues(providerName).Inc()
		c.logger.Warn("news fetch failed",
			logger.String("ticker", ticker),
			logger.Error(err))
		return c.staleCopy(key, limit)
	}

	if b, err := json.Marshal(headlines); err == nil {
		_ = c.cache.SetBytes(key, b, c.freshTTL)
		_ = c.cache.SetBytes(key+":stale", b, c.freshTTL*staleFactor)
	}
	return capLen(headlines, limit)
}

func (c *Client) fetch(ctx context.Context, ticker string) ([]models.Headline, error) {
	start := time.Now()
	var resp feedResponse
	err := c.http.GetJSON(ctx,
		c.feedURL,
		map[string][]string{
			"q":     {ticker},
			"limit": {strconv.Itoa(feedFetchSize)},
		},
		nil,
		&resp,
	)
	imetrics.ProviderLatency.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	headlines := make([]models.Headline, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Title == "" {
			continue
		}
		headlines = append(headlines, models.Headline{
			Title:       item.Title,
			URL:         item.Link,
			ImageURL:    firstImage(item.Description),
			Source:      item.Source,
			PublishedAt: util.ParseTimeDefault(item.PublishedAt, time.Time{}),
		})
	}
	return headlines, nil
}

func (c *Client) staleCopy(key string, limit int) []models.Headline {
	b, ok, _ := c.cache.GetBytes(key + ":stale")
	if !ok {
		return nil
	}
	var stale []models.Headline
	if json.Unmarshal(b, &stale) != nil {
		return nil
	}
	return capLen(stale, limit)
}

func capLen(h []models.Headline, limit int) []models.Headline {
	if limit > 0 && len(h) > limit {
		return h[:limit]
	}
	return h
}

// firstImage extracts the first img src from an HTML description fragment.
func firstImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src
}
