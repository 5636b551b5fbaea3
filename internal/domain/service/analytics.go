package service

import (
	"SignalHub/internal/domain/models"
)

// FlowClassifier maps market observables to a phase classification.
// vwapDeviation is accepted for forward compatibility; current rules do not
// branch on it.
type FlowClassifier interface {
	Classify(percentChange, volumeRatio, vwapDeviation float64) models.PhaseClassification
}

// WarningGenerator produces prioritized quant warnings from scalar inputs.
// brokerActivity annotates matching entries with broker codes; it never
// affects which rules fire.
type WarningGenerator interface {
	Generate(expectedReturn, volumeRatio, rsi, foreignNetBuy, sentimentScore, atrRatio float64, brokerActivity map[string][]string) models.QuantReport
}

// SentimentBlender folds the flow classifier's group status into a baseline
// bullish probability.
type SentimentBlender interface {
	Blend(baselineProbUp float64, groupStatus string, hasCatalyst bool) models.BlendedSentiment
}

// BaselineEstimator supplies the opaque bullish-probability input the blender
// consumes. Implementations must be deterministic for identical bars.
type BaselineEstimator interface {
	ProbUp(bars []models.MarketBar) float64
}
