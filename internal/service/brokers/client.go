package brokers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"SignalHub/internal/domain/models"
	"SignalHub/internal/domain/repository"
	imetrics "SignalHub/internal/service/metrics"
	xhttp "SignalHub/pkg/http"
	"SignalHub/pkg/logger"
	"SignalHub/pkg/util"
)

const (
	providerName = "brokers"
	topN         = 5

	// Net flow beyond this many billions reads as directional.
	actionThreshold = 5.0
)

// Client fetches per-broker traded value and condenses it into a
// market-maker read for a ticker.
type Client struct {
	baseURL string
	http    *xhttp.Client
	logger  *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, l *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		logger:  l,
	}
}

type flowResponse struct {
	Ticker string `json:"ticker"`
	Flows  []struct {
		Code     string  `json:"code"`
		NetValue float64 `json:"net_value"` // billions, signed
	} `json:"flows"`
}

// GetBrokerSummary returns the top buyers and sellers plus an overall action.
func (c *Client) GetBrokerSummary(ctx context.Context, ticker string) (*models.BrokerSummary, error) {
	start := time.Now()
	var resp flowResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/v1/flows/"+ticker, nil, nil, &resp)
	imetrics.ProviderLatency.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		imetrics.ProviderErrors.WithLabelValues(providerName).Inc()
		c.logger.Warn("broker flow fetch failed",
			logger.String("ticker", ticker),
			logger.Error(err))
		return nil, fmt.Errorf("fetch broker flows for %s: %w", ticker, repository.ErrDataUnavailable)
	}
	if len(resp.Flows) == 0 {
		return nil, fmt.Errorf("no broker flows for %s: %w", ticker, repository.ErrDataUnavailable)
	}

	flows := make([]models.BrokerFlow, 0, len(resp.Flows))
	var net float64
	for _, f := range resp.Flows {
		flows = append(flows, models.BrokerFlow{
			Code:       f.Code,
			Value:      f.NetValue,
			ValueLabel: util.FormatBillions(f.NetValue),
		})
		net += f.NetValue
	}

	return &models.BrokerSummary{
		Ticker:            ticker,
		Timestamp:         time.Now().UTC(),
		TopBuyers:         topBuyers(flows),
		TopSellers:        topSellers(flows),
		NetValue:          net,
		MarketMakerAction: action(net),
	}, nil
}

func topBuyers(flows []models.BrokerFlow) []models.BrokerFlow {
	buyers := make([]models.BrokerFlow, 0, len(flows))
	for _, f := range flows {
		if f.Value > 0 {
			buyers = append(buyers, f)
		}
	}
	sort.SliceStable(buyers, func(i, j int) bool { return buyers[i].Value > buyers[j].Value })
	if len(buyers) > topN {
		buyers = buyers[:topN]
	}
	return buyers
}

func topSellers(flows []models.BrokerFlow) []models.BrokerFlow {
	sellers := make([]models.BrokerFlow, 0, len(flows))
	for _, f := range flows {
		if f.Value < 0 {
			sellers = append(sellers, f)
		}
	}
	sort.SliceStable(sellers, func(i, j int) bool { return sellers[i].Value < sellers[j].Value })
	if len(sellers) > topN {
		sellers = sellers[:topN]
	}
	return sellers
}

func action(net float64) string {
	switch {
	case net > actionThreshold:
		return "BUYING"
	case net < -actionThreshold:
		return "SELLING"
	default:
		return "NEUTRAL"
	}
}
