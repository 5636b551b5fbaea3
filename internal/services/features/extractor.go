package features

import (
	"errors"
	"math"

	"SignalHub/internal/domain/models"
)

// ErrInsufficientHistory means the bar sequence is too short for the 14/20
// period indicators. Callers substitute models.NeutralFeatures instead of
// failing the pipeline.
var ErrInsufficientHistory = errors.New("insufficient price history")

const (
	rsiPeriod    = 14
	atrPeriod    = 14
	volumeWindow = 20

	// minBars covers the 14 deltas the RSI/ATR windows need plus the seed bar.
	minBars = 15
)

// Extract derives the full feature set from chronological bars and recent
// headlines. Bars must be ordered oldest first.
func Extract(bars []models.MarketBar, headlines []models.Headline) (models.FeatureSet, error) {
	if len(bars) < minBars {
		return models.FeatureSet{}, ErrInsufficientHistory
	}

	pc := PercentChange(bars)
	sentiment, catalyst := ScoreHeadlines(headlines)

	fs := models.FeatureSet{
		PercentChange:    pc,
		VolumeRatio:      VolumeRatio(bars),
		VWAPDeviationPct: VWAPDeviation(bars),
		RSI:              RSI(bars),
		ATRRatio:         ATRRatio(bars),
		NewsSentiment:    sentiment,
		HasCatalyst:      catalyst,
	}
	clamp(&fs)
	return fs, nil
}

// PercentChange is the last-session close change in percent.
func PercentChange(bars []models.MarketBar) float64 {
	if len(bars) < 2 {
		return 0
	}
	prev := bars[len(bars)-2].Close
	last := bars[len(bars)-1].Close
	if prev == 0 {
		return 0
	}
	return (last - prev) / prev * 100
}

// VolumeRatio divides the last bar's volume by the mean volume of the
// preceding window (20 sessions, or all available when fewer). A zero
// average yields the neutral ratio 1.0.
func VolumeRatio(bars []models.MarketBar) float64 {
	if len(bars) < 2 {
		return 1.0
	}
	window := volumeWindow
	if avail := len(bars) - 1; avail < window {
		window = avail
	}
	sum := 0.0
	for i := len(bars) - 1 - window; i < len(bars)-1; i++ {
		sum += bars[i].Volume
	}
	avg := sum / float64(window)
	if avg == 0 {
		return 1.0
	}
	return bars[len(bars)-1].Volume / avg
}

// RSI computes the 14-period relative strength index from closing prices.
// Degenerate windows (no gains and no losses) return the canonical 50; a
// gains-only window returns 100.
func RSI(bars []models.MarketBar) float64 {
	if len(bars) < rsiPeriod+1 {
		return 50
	}
	var gains, losses float64
	for i := len(bars) - rsiPeriod; i < len(bars); i++ {
		delta := bars[i].Close - bars[i-1].Close
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	gain := gains / rsiPeriod
	loss := losses / rsiPeriod
	if loss == 0 {
		if gain == 0 {
			return 50
		}
		return 100
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// VWAPDeviation is the percent distance of the last close from the
// volume-weighted typical price over the trailing window.
func VWAPDeviation(bars []models.MarketBar) float64 {
	if len(bars) == 0 {
		return 0
	}
	var pv, vol float64
	for _, b := range bars {
		typical := (b.High + b.Low + b.Close) / 3
		pv += typical * b.Volume
		vol += b.Volume
	}
	if vol == 0 {
		return 0
	}
	vwap := pv / vol
	if vwap == 0 {
		return 0
	}
	return (bars[len(bars)-1].Close - vwap) / vwap * 100
}

// ATRRatio divides the last true range by the 14-period mean true range.
func ATRRatio(bars []models.MarketBar) float64 {
	if len(bars) < atrPeriod+1 {
		return 1.0
	}
	var sum, last float64
	for i := len(bars) - atrPeriod; i < len(bars); i++ {
		tr := trueRange(bars[i], bars[i-1].Close)
		sum += tr
		last = tr
	}
	mean := sum / atrPeriod
	if mean == 0 {
		return 1.0
	}
	return last / mean
}

func trueRange(b models.MarketBar, prevClose float64) float64 {
	tr := b.High - b.Low
	if hc := math.Abs(b.High - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(b.Low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}

// clamp enforces the numeric invariants the classifiers assume. Validation
// happens here once; downstream rule tables trust their inputs.
func clamp(fs *models.FeatureSet) {
	if fs.VolumeRatio < 0 {
		fs.VolumeRatio = 0
	}
	if fs.ATRRatio < 0 {
		fs.ATRRatio = 0
	}
	fs.RSI = math.Max(0, math.Min(100, fs.RSI))
	fs.NewsSentiment = math.Max(-100, math.Min(100, fs.NewsSentiment))
}
