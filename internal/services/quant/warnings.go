package quant

import (
	"sort"

	"SignalHub/internal/domain/models"
)

// colorRank orders severities for main-entry selection. Lower wins.
var colorRank = map[models.WarningColor]int{
	models.ColorDanger:    0,
	models.ColorWarning:   1,
	models.ColorSuccess:   2,
	models.ColorPrimary:   3,
	models.ColorSecondary: 4,
}

// input bundles the scalar observables so warning rules stay single-argument.
type input struct {
	ret       float64 // expected return, percent
	volume    float64
	rsi       float64
	foreign   float64 // billions, signed
	sentiment float64 // [-1,1]
	atr       float64
	brokers   map[string][]string
}

// warningRule appends zero or one entry for an input. Rules run in fixed
// order; the stable severity sort later preserves that order within a color.
type warningRule func(in input) *models.WarningEntry

// Generator implements service.WarningGenerator as an ordered rule table.
type Generator struct {
	rules []warningRule
}

func NewGenerator() *Generator {
	return &Generator{rules: []warningRule{
		returnBand,
		volumeSignal,
		rsiExtreme,
		foreignFlow,
		sentimentExtreme,
		volatilitySpike,
	}}
}

// Generate evaluates every rule group, collects all matches, then picks the
// main entry by severity. Pure computation; callers may log.
func (g *Generator) Generate(expectedReturn, volumeRatio, rsi, foreignNetBuy, sentimentScore, atrRatio float64, brokerActivity map[string][]string) models.QuantReport {
	in := input{
		ret:       expectedReturn,
		volume:    volumeRatio,
		rsi:       rsi,
		foreign:   foreignNetBuy,
		sentiment: sentimentScore,
		atr:       atrRatio,
		brokers:   brokerActivity,
	}

	var entries []models.WarningEntry
	for _, rule := range g.rules {
		if e := rule(in); e != nil {
			entries = append(entries, *e)
		}
	}

	if len(entries) == 0 {
		neutral := models.WarningEntry{
			Level:   "NEUTRAL",
			Message: "Ranging market, no strong signal. Wait for a clearer setup.",
			Color:   models.ColorSecondary,
			Icon:    "📊",
		}
		return models.QuantReport{Main: neutral, Details: []models.WarningEntry{neutral}}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return colorRank[entries[i].Color] < colorRank[entries[j].Color]
	})

	report := models.QuantReport{Main: entries[0], Details: entries}
	for _, e := range entries[1:] {
		if len(report.Secondary) == 2 {
			break
		}
		report.Secondary = append(report.Secondary, e.Icon+" "+e.Message)
	}
	return report
}

// returnBand maps the expected return into non-overlapping bands.
func returnBand(in input) *models.WarningEntry {
	switch {
	case in.ret > 40:
		return entry("EXTREME_BULLISH", "Extreme bullish projection. Moves this size are usually bull traps, size down.", models.ColorDanger, "🚨", in.buyers())
	case in.ret > 20:
		return entry("STRONG_BULLISH", "Strong bullish projection with room to run.", models.ColorSuccess, "🚀", in.buyers())
	case in.ret > 8:
		return entry("MODERATE_BULLISH", "Moderate bullish projection. Constructive but not compelling.", models.ColorPrimary, "📈", in.buyers())
	case in.ret < -40:
		return entry("EXTREME_BEARISH", "Extreme bearish projection. Expect disorderly selling.", models.ColorDanger, "🚨", in.sellers())
	case in.ret < -20:
		return entry("STRONG_BEARISH", "Strong bearish projection, downside momentum building.", models.ColorWarning, "📉", in.sellers())
	case in.ret < -8:
		return entry("MODERATE_BEARISH", "Moderate bearish projection. Caution on new longs.", models.ColorWarning, "⚠️", in.sellers())
	}
	return nil
}

// volumeSignal is an else-if chain: the strongest volume condition wins.
func volumeSignal(in input) *models.WarningEntry {
	switch {
	case in.volume > 3.0:
		return entry("MEGA_VOLUME", "Mega volume, likely block trade activity. Watch who is crossing the tape.", models.ColorWarning, "🐋", in.buyers())
	case in.volume > 2.0 && in.ret > 15:
		return entry("VOLUME_CONFIRMED", "Volume confirms the projected move.", models.ColorSuccess, "✅", in.buyers())
	case in.volume > 1.5 && in.ret < -10:
		return entry("HIGH_VOLUME_SELLOFF", "High-volume sell-off in progress.", models.ColorWarning, "📉", in.sellers())
	case in.volume < 0.7 && (in.ret > 10 || in.ret < -10):
		return entry("LOW_VOLUME_MOVE", "Big move on thin volume, classic bandar trap. Do not chase.", models.ColorDanger, "🪤", nil)
	}
	return nil
}

func rsiExtreme(in input) *models.WarningEntry {
	switch {
	case in.rsi > 75 && in.ret > 0:
		return entry("OVERBOUGHT", "RSI overbought while still projecting upside, pullback risk elevated.", models.ColorWarning, "🌡️", nil)
	case in.rsi < 25 && in.ret < 0:
		return entry("OVERSOLD", "RSI oversold, bounce candidates setting up.", models.ColorSuccess, "🧲", nil)
	}
	return nil
}

func foreignFlow(in input) *models.WarningEntry {
	switch {
	case in.foreign > 100:
		return entry("FOREIGN_NET_BUY", "Heavy foreign net buying supporting the book.", models.ColorSuccess, "🌏", in.buyers())
	case in.foreign < -100:
		return entry("FOREIGN_NET_SELL", "Heavy foreign net selling pressuring the book.", models.ColorDanger, "🌏", in.sellers())
	}
	return nil
}

func sentimentExtreme(in input) *models.WarningEntry {
	switch {
	case in.sentiment > 0.6:
		return entry("SENTIMENT_EUPHORIC", "Extremely positive news sentiment.", models.ColorSuccess, "📰", nil)
	case in.sentiment < -0.6:
		return entry("SENTIMENT_FEARFUL", "Extremely negative news sentiment.", models.ColorWarning, "📰", nil)
	}
	return nil
}

func volatilitySpike(in input) *models.WarningEntry {
	if in.atr > 1.8 {
		return entry("EXTREME_VOLATILITY", "True range far above normal, expect violent swings both ways.", models.ColorDanger, "⚡", nil)
	}
	return nil
}

func entry(level, message string, color models.WarningColor, icon string, brokers []string) *models.WarningEntry {
	return &models.WarningEntry{Level: level, Message: message, Color: color, Icon: icon, Brokers: brokers}
}

func (in input) buyers() []string  { return in.brokers["buyers"] }
func (in input) sellers() []string { return in.brokers["sellers"] }
