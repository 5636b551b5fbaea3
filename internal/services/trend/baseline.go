package trend

import (
	"math"

	"SignalHub/internal/domain/models"
)

// MomentumEstimator is the default baseline probability source: a fixed
// heuristic over recent return, volume change and distance from the
// 20-session mean. Deterministic for identical bars.
type MomentumEstimator struct{}

func NewMomentumEstimator() *MomentumEstimator { return &MomentumEstimator{} }

// ProbUp returns a bullish probability in [10,90], centered at 50.
func (e *MomentumEstimator) ProbUp(bars []models.MarketBar) float64 {
	if len(bars) < 2 {
		return 50
	}
	prob := 50.0

	// 5-session return, 2 points of probability per percent, capped.
	lookback := 5
	if len(bars)-1 < lookback {
		lookback = len(bars) - 1
	}
	base := bars[len(bars)-1-lookback].Close
	if base != 0 {
		r := (bars[len(bars)-1].Close - base) / base * 100
		prob += clampF(r*2, -15, 15)
	}

	// volume expansion vs the trailing mean leans the same way as price.
	var volSum float64
	for _, b := range bars[:len(bars)-1] {
		volSum += b.Volume
	}
	avgVol := volSum / float64(len(bars)-1)
	if avgVol > 0 {
		vr := bars[len(bars)-1].Volume / avgVol
		direction := 1.0
		if bars[len(bars)-1].Close < bars[len(bars)-2].Close {
			direction = -1.0
		}
		prob += direction * clampF((vr-1)*5, 0, 10)
	}

	// distance from the 20-session mean close.
	window := 20
	if len(bars) < window {
		window = len(bars)
	}
	var closeSum float64
	for _, b := range bars[len(bars)-window:] {
		closeSum += b.Close
	}
	ma := closeSum / float64(window)
	if ma != 0 {
		dist := (bars[len(bars)-1].Close - ma) / ma * 100
		prob += clampF(dist, -10, 10)
	}

	return clampF(prob, 10, 90)
}

func clampF(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
