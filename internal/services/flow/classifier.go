package flow

import (
	"math"

	"SignalHub/internal/domain/models"
)

// rule pairs a predicate over (percent change, volume ratio) with the static
// phase data it produces. Rules are evaluated in order; the first match wins,
// so overlap is resolved purely by position.
type rule struct {
	match      func(pc, vr float64) bool
	phase      models.Phase
	sentiment  models.Sentiment
	confidence int
	narrative  string
	group      models.CohortStatus
}

var rules = []rule{
	{
		match:      func(pc, vr float64) bool { return vr > 3.0 },
		phase:      models.PhaseBlockTrade,
		sentiment:  models.SentimentStrongBullish,
		confidence: 95,
		narrative:  "Unusual block volume on the tape. Single large parties are dominating today's turnover.",
		group:      models.CohortStatus{Status: models.GroupJumboTransaction, Description: "crossing large blocks off-exchange"},
	},
	{
		match:      func(pc, vr float64) bool { return pc > 7.0 && vr > 1.8 },
		phase:      models.PhaseMegalodonMarkup,
		sentiment:  models.SentimentExtremeBullish,
		confidence: 92,
		narrative:  "Aggressive markup on heavy volume. Large players are lifting offers without waiting for pullbacks.",
		group:      models.CohortStatus{Status: models.GroupInstitutionSupport, Description: "buying every dip with size"},
	},
	{
		match:      func(pc, vr float64) bool { return pc > 3.5 && vr > 1.4 },
		phase:      models.PhaseStrongMarkup,
		sentiment:  models.SentimentBullish,
		confidence: 88,
		narrative:  "Sustained buying pressure with clear volume confirmation behind the move.",
		group:      models.CohortStatus{Status: models.GroupSmartMoneyIn, Description: "positioned and adding"},
	},
	{
		match:      func(pc, vr float64) bool { return pc > 1.2 && vr > 1.1 },
		phase:      models.PhaseMarkup,
		sentiment:  models.SentimentModerateBullish,
		confidence: 75,
		narrative:  "Early markup. Price is walking up on modestly above-average volume.",
		group:      models.CohortStatus{Status: models.GroupSmartMoneyIn, Description: "building positions gradually"},
	},
	{
		match:      func(pc, vr float64) bool { return pc > -1.2 && pc < 1.2 && vr < 0.85 },
		phase:      models.PhaseSilentAccum,
		sentiment:  models.SentimentNeutralBullish,
		confidence: 82,
		narrative:  "Quiet tape on shrinking volume. Inventory is likely changing hands without moving price.",
		group:      models.CohortStatus{Status: models.GroupSilentAccum, Description: "absorbing supply quietly"},
	},
	{
		match:      func(pc, vr float64) bool { return pc < -1.5 && vr > 1.5 },
		phase:      models.PhaseDistribution,
		sentiment:  models.SentimentBearish,
		confidence: 85,
		narrative:  "Supply hitting bids on elevated volume. Holders are unloading into remaining demand.",
		group:      models.CohortStatus{Status: models.GroupSmartMoneyExiting, Description: "distributing into strength"},
	},
	{
		match:      func(pc, vr float64) bool { return pc < -4.0 && vr > 1.7 },
		phase:      models.PhaseCapitulation,
		sentiment:  models.SentimentExtremeBearish,
		confidence: 90,
		narrative:  "Panic selling. Forced liquidation is driving price down on very heavy volume.",
		group:      models.CohortStatus{Status: models.GroupSmartMoneyExiting, Description: "stepped aside, waiting for flush to end"},
	},
	{
		match:      func(pc, vr float64) bool { return true },
		phase:      models.PhaseConsolidation,
		sentiment:  models.SentimentNeutral,
		confidence: 68,
		narrative:  "Sideways chop. No dominant flow in either direction.",
		group:      models.CohortStatus{Status: models.GroupWaitAndSee, Description: "no urgency on either side"},
	},
}

// Classifier implements service.FlowClassifier over the fixed rule table.
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

// Classify maps the observation to a phase, confidence, narrative and cohort
// statuses. vwapDeviation is carried in the signature for forward
// compatibility; no current rule branches on it.
func (c *Classifier) Classify(percentChange, volumeRatio, vwapDeviation float64) models.PhaseClassification {
	var matched rule
	for _, r := range rules {
		if r.match(percentChange, volumeRatio) {
			matched = r
			break
		}
	}

	return models.PhaseClassification{
		Phase:            matched.phase,
		OverallSentiment: matched.sentiment,
		Confidence:       matched.confidence,
		Narrative:        matched.narrative,
		Institutional:    matched.group,
		Whale:            whaleStatus(percentChange, volumeRatio, matched.phase),
		Retail:           retailStatus(percentChange, volumeRatio),
	}
}

func whaleStatus(pc, vr float64, phase models.Phase) models.CohortStatus {
	switch {
	case pc > 3.5 || phase == models.PhaseBlockTrade:
		return models.CohortStatus{Status: models.WhaleEntry, Description: "market maker lifting inventory aggressively"}
	case math.Abs(pc) < 1.5 && vr < 0.9:
		return models.CohortStatus{Status: models.WhaleAccumulation, Description: "inventory built below the radar"}
	case pc < -3.0:
		return models.CohortStatus{Status: models.WhaleDistribution, Description: "inventory dumped into the bid"}
	default:
		return models.CohortStatus{Status: models.WhaleNeutral, Description: "balanced two-sided flow"}
	}
}

func retailStatus(pc, vr float64) models.CohortStatus {
	switch {
	case pc > 4.0 && vr > 1.6:
		return models.CohortStatus{Status: models.RetailFOMO, Description: "chasing the move at any price"}
	case pc < -4.0:
		return models.CohortStatus{Status: models.RetailCapitulation, Description: "selling into the panic"}
	default:
		return models.CohortStatus{Status: models.RetailWaitAndSee, Description: "sitting on hands"}
	}
}
