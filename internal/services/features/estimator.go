package features

import (
	"SignalHub/internal/domain/models"
)

// forecastHorizon is how many sessions ahead the trend line is extrapolated
// when estimating expected return.
const forecastHorizon = 5

// ExpectedReturn fits a least-squares line through the closing prices and
// extrapolates it forecastHorizon sessions ahead, returning the implied
// percent move from the last close. Too little history yields 0.
func ExpectedReturn(bars []models.MarketBar) float64 {
	n := len(bars)
	if n < 2 {
		return 0
	}

	// x = 0..n-1, y = close
	var sumX, sumY, sumXY, sumXX float64
	for i, b := range bars {
		x := float64(i)
		sumX += x
		sumY += b.Close
		sumXY += x * b.Close
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	last := bars[n-1].Close
	if last == 0 {
		return 0
	}
	projected := intercept + slope*float64(n-1+forecastHorizon)
	return (projected - last) / last * 100
}
