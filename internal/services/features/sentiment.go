package features

import (
	"strings"

	"SignalHub/internal/domain/models"
)

// Keyword dictionaries for headline scoring. Matching is case-insensitive
// substring, so "upgraded" counts as "upgrade".
var (
	bullishKeywords = []string{
		"surge", "rally", "soar", "jump", "gain", "record high",
		"beat", "upgrade", "profit", "growth", "expansion", "dividend",
		"buyback", "acquisition", "breakout", "accumulation",
	}

	bearishKeywords = []string{
		"drop", "fall", "plunge", "slump", "loss", "decline",
		"downgrade", "lawsuit", "probe", "bankruptcy", "default",
		"suspension", "sell-off", "warning", "miss", "dilution",
	}

	// catalystKeywords force the score to at least catalystFloor. These are
	// corporate actions that historically precede outsized moves.
	catalystKeywords = []string{
		"merger", "backdoor listing", "large block transaction", "takeover",
	}
)

const (
	maxScoredHeadlines = 10
	catalystFloor      = 85
)

// ScoreHeadlines turns up to the 10 most recent headlines into a sentiment
// score in [-100,100]. With no keyword hits the score is 0. A catalyst
// keyword floors the score at 85 and flags the catalyst.
func ScoreHeadlines(headlines []models.Headline) (score float64, catalyst bool) {
	if len(headlines) > maxScoredHeadlines {
		headlines = headlines[:maxScoredHeadlines]
	}

	var bullish, bearish int
	for _, h := range headlines {
		title := strings.ToLower(h.Title)
		for _, kw := range bullishKeywords {
			bullish += strings.Count(title, kw)
		}
		for _, kw := range bearishKeywords {
			bearish += strings.Count(title, kw)
		}
		for _, kw := range catalystKeywords {
			if strings.Contains(title, kw) {
				catalyst = true
			}
		}
	}

	if bullish+bearish > 0 {
		score = float64(bullish-bearish) / float64(bullish+bearish) * 100
	}
	if catalyst && score < catalystFloor {
		score = catalystFloor
	}
	return score, catalyst
}
