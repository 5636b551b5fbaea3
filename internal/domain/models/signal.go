package models

import "time"

// Phase is the discrete market-behavior label produced by the flow classifier.
type Phase string

const (
	PhaseBlockTrade      Phase = "block trade / jumbo transaction"
	PhaseMegalodonMarkup Phase = "megalodon markup"
	PhaseStrongMarkup    Phase = "strong markup"
	PhaseMarkup          Phase = "markup"
	PhaseSilentAccum     Phase = "silent accumulation"
	PhaseDistribution    Phase = "distribution"
	PhaseCapitulation    Phase = "capitulation / markdown"
	PhaseConsolidation   Phase = "consolidation"
)

// Sentiment is the overall read attached to a phase.
type Sentiment string

const (
	SentimentExtremeBullish  Sentiment = "EXTREME_BULLISH"
	SentimentStrongBullish   Sentiment = "STRONG_BULLISH"
	SentimentBullish         Sentiment = "BULLISH"
	SentimentModerateBullish Sentiment = "MODERATE_BULLISH"
	SentimentNeutralBullish  Sentiment = "NEUTRAL_BULLISH"
	SentimentNeutral         Sentiment = "NEUTRAL"
	SentimentBearish         Sentiment = "BEARISH"
	SentimentExtremeBearish  Sentiment = "EXTREME_BEARISH"
)

// Group statuses consumers pattern-match on. The blender keys its overrides
// off these exact strings, so they are fixed constants rather than free text.
const (
	GroupJumboTransaction   = "jumbo transaction"
	GroupInstitutionSupport = "institutional support"
	GroupSmartMoneyIn       = "smart money in"
	GroupSilentAccum        = "silent accumulation"
	GroupSmartMoneyExiting  = "smart money exiting"
	GroupWaitAndSee         = "wait and see"
	GroupPanicCapitulation  = "panic capitulation"
	GroupLargeFundsExiting  = "large funds exiting"
)

// Whale (market maker) statuses.
const (
	WhaleEntry        = "entry"
	WhaleAccumulation = "accumulation"
	WhaleDistribution = "distribution"
	WhaleNeutral      = "neutral"
)

// Retail statuses.
const (
	RetailFOMO         = "FOMO"
	RetailCapitulation = "capitulation"
	RetailWaitAndSee   = "wait-and-see"
)

// CohortStatus describes what one participant cohort is doing.
type CohortStatus struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// PhaseClassification is the full output of the flow classifier for one
// (percent change, volume ratio) observation. Purely a function of its inputs.
type PhaseClassification struct {
	Phase            Phase        `json:"phase"`
	OverallSentiment Sentiment    `json:"overall_sentiment"`
	Confidence       int          `json:"confidence"` // percent
	Narrative        string       `json:"narrative"`
	Institutional    CohortStatus `json:"institutional"`
	Whale            CohortStatus `json:"whale"`
	Retail           CohortStatus `json:"retail"`
}

// FeatureSet holds per-ticker derived observables. Recomputed per request,
// never persisted.
type FeatureSet struct {
	PercentChange    float64 `json:"percent_change"`
	VolumeRatio      float64 `json:"volume_ratio"`
	VWAPDeviationPct float64 `json:"vwap_deviation_pct"`
	RSI              float64 `json:"rsi"` // [0,100]
	ATRRatio         float64 `json:"atr_ratio"`
	NewsSentiment    float64 `json:"news_sentiment"` // [-100,100]
	HasCatalyst      bool    `json:"has_catalyst"`
}

// NeutralFeatures are the fallback values substituted when history is too
// short to derive real ratios.
func NeutralFeatures(percentChange float64) FeatureSet {
	return FeatureSet{
		PercentChange: percentChange,
		VolumeRatio:   1.0,
		RSI:           50,
		ATRRatio:      1.0,
	}
}

// WarningColor orders warning severity. Lower rank wins the "main" slot.
type WarningColor string

const (
	ColorDanger    WarningColor = "danger"
	ColorWarning   WarningColor = "warning"
	ColorSuccess   WarningColor = "success"
	ColorPrimary   WarningColor = "primary"
	ColorSecondary WarningColor = "secondary"
)

// WarningEntry is a single advisory produced by the quant warning generator.
type WarningEntry struct {
	Level   string       `json:"level"`
	Message string       `json:"message"`
	Color   WarningColor `json:"color"`
	Icon    string       `json:"icon"`
	Brokers []string     `json:"brokers,omitempty"`
}

// BlendedSentiment is the final bullish/bearish split. BullishPct and
// BearishPct always sum to exactly 100.
type BlendedSentiment struct {
	Label      string `json:"label"` // "Bullish" | "Bearish" | "Neutral"
	BullishPct int    `json:"bullish_pct"`
	BearishPct int    `json:"bearish_pct"`
}

// SignalRecord is the append-only audit row written per classification.
type SignalRecord struct {
	Ticker       string    `json:"ticker"`
	Timestamp    time.Time `json:"timestamp"`
	Phase        Phase     `json:"phase"`
	Confidence   int       `json:"confidence"`
	WarningLevel string    `json:"warning_level"`
	Label        string    `json:"label"`
	BullishPct   int       `json:"bullish_pct"`
	Status       string    `json:"status"`
}
