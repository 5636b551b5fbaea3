package repository

// Lookback window bounds in trading sessions. The extractor needs at least
// MinLookback closes before its ratios mean anything.
const (
	MinLookback     = 20
	DefaultLookback = 60
	MaxLookback     = 250
)

// NormalizeLookback clamps a requested session count into supported bounds.
func NormalizeLookback(n int) int {
	if n <= 0 {
		return DefaultLookback
	}
	if n < MinLookback {
		return MinLookback
	}
	if n > MaxLookback {
		return MaxLookback
	}
	return n
}
