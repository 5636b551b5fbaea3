package trend

import (
	"testing"
	"time"

	"SignalHub/internal/domain/models"
)

func seriesBars(closes []float64) []models.MarketBar {
	bars := make([]models.MarketBar, len(closes))
	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.MarketBar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return bars
}

func TestProbUpShortHistory(t *testing.T) {
	e := NewMomentumEstimator()
	if got := e.ProbUp(nil); got != 50 {
		t.Fatalf("prob = %v, want 50", got)
	}
}

func TestProbUpFlatSeries(t *testing.T) {
	e := NewMomentumEstimator()
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	if got := e.ProbUp(seriesBars(closes)); got != 50 {
		t.Fatalf("flat series prob = %v, want 50", got)
	}
}

func TestProbUpDirection(t *testing.T) {
	e := NewMomentumEstimator()

	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 130 - float64(i)
	}
	pUp := e.ProbUp(seriesBars(up))
	pDown := e.ProbUp(seriesBars(down))

	if pUp <= 50 {
		t.Errorf("uptrend prob = %v, want > 50", pUp)
	}
	if pDown >= 50 {
		t.Errorf("downtrend prob = %v, want < 50", pDown)
	}
}

func TestProbUpBounds(t *testing.T) {
	e := NewMomentumEstimator()
	extreme := make([]float64, 30)
	for i := range extreme {
		extreme[i] = float64(1 + i*i)
	}
	got := e.ProbUp(seriesBars(extreme))
	if got < 10 || got > 90 {
		t.Fatalf("prob = %v, want within [10,90]", got)
	}
}

func TestProbUpDeterministic(t *testing.T) {
	e := NewMomentumEstimator()
	bars := seriesBars([]float64{100, 102, 101, 103, 105, 104, 106})
	if a, b := e.ProbUp(bars), e.ProbUp(bars); a != b {
		t.Fatalf("prob not deterministic: %v vs %v", a, b)
	}
}
