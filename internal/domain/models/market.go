package models

import "time"

// MarketBar is one OHLCV session bar. Bars are ordered chronologically and
// immutable once fetched.
type MarketBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Headline is a single news item for a ticker.
type Headline struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// BrokerFlow is one broker's net traded value for a session.
type BrokerFlow struct {
	Code       string  `json:"code"`
	Value      float64 `json:"value"`       // billions of local currency, signed
	ValueLabel string  `json:"value_label"` // "12.4B"
}

// BrokerSummary aggregates per-broker flow into a market-maker read.
type BrokerSummary struct {
	Ticker            string       `json:"ticker"`
	Timestamp         time.Time    `json:"timestamp"`
	TopBuyers         []BrokerFlow `json:"top_buyers"`
	TopSellers        []BrokerFlow `json:"top_sellers"`
	NetValue          float64      `json:"net_value"`
	MarketMakerAction string       `json:"market_maker_action"` // "BUYING" | "SELLING" | "NEUTRAL"
}
