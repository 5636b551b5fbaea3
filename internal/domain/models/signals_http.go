package models

// Requests for signal HTTP endpoints. Defined in domain for consistency and reuse.

type AnalysisRequest struct {
	Ticker   string `param:"ticker" json:"ticker" validate:"required,alphanum,max=12"`
	Lookback int    `query:"lookback" json:"lookback" default:"60" validate:"gte=20,lte=250"`
}

type FlowRequest struct {
	PercentChange float64 `json:"percent_change"`
	VolumeRatio   float64 `json:"volume_ratio" validate:"gte=0"`
	VWAPDeviation float64 `json:"vwap_deviation"`
}

type WarningsRequest struct {
	ExpectedReturn float64             `json:"expected_return"`
	VolumeRatio    float64             `json:"volume_ratio" default:"1" validate:"gte=0"`
	RSI            float64             `json:"rsi" default:"50" validate:"gte=0,lte=100"`
	ForeignNetBuy  float64             `json:"foreign_net_buy"`
	SentimentScore float64             `json:"sentiment_score" validate:"gte=-1,lte=1"`
	ATRRatio       float64             `json:"atr_ratio" default:"1" validate:"gte=0"`
	BrokerActivity map[string][]string `json:"broker_activity"`
}

type SentimentRequest struct {
	BaselineProbUp float64 `json:"baseline_prob_up" default:"50" validate:"gte=0,lte=100"`
	GroupStatus    string  `json:"group_status" validate:"required"`
	HasCatalyst    bool    `json:"has_catalyst"`
}

type NewsRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,alphanum,max=12"`
	Limit  int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=50"`
}

type BrokersRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,alphanum,max=12"`
}

type HistoryRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,alphanum,max=12"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=200"`
}
