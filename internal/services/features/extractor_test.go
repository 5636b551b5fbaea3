package features

import (
	"errors"
	"math"
	"testing"
	"time"

	"SignalHub/internal/domain/models"
)

func mkBars(closes []float64, volumes []float64) []models.MarketBar {
	bars := make([]models.MarketBar, len(closes))
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		v := 1000.0
		if volumes != nil {
			v = volumes[i]
		}
		bars[i] = models.MarketBar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    v,
		}
	}
	return bars
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPercentChange(t *testing.T) {
	bars := mkBars([]float64{100, 108}, nil)
	if got := PercentChange(bars); !almostEqual(got, 8.0) {
		t.Fatalf("percent change = %v, want 8.0", got)
	}
}

func TestPercentChangeZeroPrev(t *testing.T) {
	bars := mkBars([]float64{0, 108}, nil)
	if got := PercentChange(bars); got != 0 {
		t.Fatalf("percent change with zero prev = %v, want 0", got)
	}
}

func TestVolumeRatio(t *testing.T) {
	closes := make([]float64, 21)
	volumes := make([]float64, 21)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 1000
	}
	volumes[20] = 2000
	bars := mkBars(closes, volumes)
	if got := VolumeRatio(bars); !almostEqual(got, 2.0) {
		t.Fatalf("volume ratio = %v, want 2.0", got)
	}
}

func TestVolumeRatioShortHistory(t *testing.T) {
	// 5 preceding bars only: window shrinks to what is available.
	bars := mkBars([]float64{1, 1, 1, 1, 1, 1}, []float64{100, 100, 100, 100, 100, 300})
	if got := VolumeRatio(bars); !almostEqual(got, 3.0) {
		t.Fatalf("volume ratio = %v, want 3.0", got)
	}
}

func TestVolumeRatioZeroAverage(t *testing.T) {
	bars := mkBars([]float64{1, 1, 1}, []float64{0, 0, 500})
	if got := VolumeRatio(bars); got != 1.0 {
		t.Fatalf("volume ratio with zero average = %v, want 1.0", got)
	}
}

func TestRSIFlatSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	if got := RSI(mkBars(closes, nil)); got != 50 {
		t.Fatalf("flat RSI = %v, want 50", got)
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	if got := RSI(mkBars(closes, nil)); got != 100 {
		t.Fatalf("gains-only RSI = %v, want 100", got)
	}
}

func TestRSIBalanced(t *testing.T) {
	// Alternating +1/-1 deltas: mean gain == mean loss, rs = 1, RSI = 50.
	closes := []float64{100}
	for i := 0; i < 14; i++ {
		if i%2 == 0 {
			closes = append(closes, closes[len(closes)-1]+1)
		} else {
			closes = append(closes, closes[len(closes)-1]-1)
		}
	}
	if got := RSI(mkBars(closes, nil)); !almostEqual(got, 50) {
		t.Fatalf("balanced RSI = %v, want 50", got)
	}
}

func TestVWAPDeviationFlat(t *testing.T) {
	bars := mkBars([]float64{100, 100, 100}, nil)
	if got := VWAPDeviation(bars); !almostEqual(got, 0) {
		t.Fatalf("flat VWAP deviation = %v, want 0", got)
	}
}

func TestATRRatioConstantRange(t *testing.T) {
	bars := mkBars(make([]float64, 20), nil)
	for i := range bars {
		bars[i].High = 105
		bars[i].Low = 95
		bars[i].Close = 100
		bars[i].Open = 100
	}
	if got := ATRRatio(bars); !almostEqual(got, 1.0) {
		t.Fatalf("constant-range ATR ratio = %v, want 1.0", got)
	}
}

func TestTrueRangeGap(t *testing.T) {
	// Gap down: |low - prev close| dominates the intraday range.
	b := models.MarketBar{High: 90, Low: 85, Close: 86}
	if got := trueRange(b, 100); !almostEqual(got, 15) {
		t.Fatalf("true range = %v, want 15", got)
	}
}

func TestExtractInsufficientHistory(t *testing.T) {
	bars := mkBars([]float64{1, 2, 3, 4, 5}, nil)
	_, err := Extract(bars, nil)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("err = %v, want ErrInsufficientHistory", err)
	}
}

func TestExtractFull(t *testing.T) {
	closes := make([]float64, 30)
	volumes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.1
		volumes[i] = 1000
	}
	fs, err := Extract(mkBars(closes, volumes), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.RSI != 100 {
		t.Errorf("RSI = %v, want 100 for monotone gains", fs.RSI)
	}
	if !almostEqual(fs.VolumeRatio, 1.0) {
		t.Errorf("volume ratio = %v, want 1.0", fs.VolumeRatio)
	}
	if fs.HasCatalyst {
		t.Errorf("unexpected catalyst without headlines")
	}
}

func TestExpectedReturnLinearSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	// Perfect line with slope 1: five sessions ahead adds 5 from last close 129.
	got := ExpectedReturn(mkBars(closes, nil))
	want := 5.0 / 129.0 * 100
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected return = %v, want %v", got, want)
	}
}

func TestExpectedReturnShortSeries(t *testing.T) {
	if got := ExpectedReturn(mkBars([]float64{100}, nil)); got != 0 {
		t.Fatalf("expected return = %v, want 0", got)
	}
}
