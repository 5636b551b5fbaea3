package models

import "time"

// Response statuses. A degraded pipeline still answers; it never surfaces an
// HTTP error for a missing feature.
const (
	StatusSuccess  = "success"
	StatusPartial  = "partial"
	StatusFallback = "fallback"
)

// QuantReport is the prioritized output of the warning generator.
type QuantReport struct {
	Main      WarningEntry   `json:"main"`
	Secondary []string       `json:"secondary"` // up to 2 additional messages
	Details   []WarningEntry `json:"details"`
}

// SignalResponse is the consolidated per-ticker signal view. It is the shape
// that goes out over HTTP, Kafka, and websocket alike.
type SignalResponse struct {
	Ticker         string              `json:"ticker"`
	Timestamp      time.Time           `json:"timestamp"`
	Status         string              `json:"status"`
	ExpectedReturn float64             `json:"expected_return"`
	Features       FeatureSet          `json:"features"`
	Phase          PhaseClassification `json:"phase"`
	Warnings       QuantReport         `json:"warnings"`
	Sentiment      BlendedSentiment    `json:"sentiment"`
	Errors         map[string]string   `json:"errors,omitempty"`
}
