package trend

import (
	"math"
	"strings"

	"SignalHub/internal/domain/models"
)

// Group statuses that pull the baseline probability up or down. The jumbo
// transaction status carries a larger boost than the rest of the bullish set.
var (
	bullishGroups = map[string]bool{
		models.GroupSmartMoneyIn:       true,
		models.GroupSilentAccum:        true,
		models.GroupInstitutionSupport: true,
	}

	bearishGroups = map[string]bool{
		models.GroupPanicCapitulation: true,
		models.GroupWaitAndSee:        true,
		models.GroupLargeFundsExiting: true,
		models.GroupSmartMoneyExiting: true,
	}
)

const (
	probFloor = 5
	probCeil  = 98
)

// Blender implements service.SentimentBlender.
type Blender struct{}

func NewBlender() *Blender { return &Blender{} }

// Blend applies the flow-based override to the baseline probability, then the
// catalyst floor, then clamps and labels. BullishPct and BearishPct always sum
// to exactly 100.
func (b *Blender) Blend(baselineProbUp float64, groupStatus string, hasCatalyst bool) models.BlendedSentiment {
	prob := baselineProbUp
	group := strings.ToLower(strings.TrimSpace(groupStatus))

	switch {
	case group == models.GroupJumboTransaction:
		prob = math.Max(prob+25, 70)
	case bullishGroups[group]:
		prob = math.Max(prob+20, 65)
	case bearishGroups[group]:
		prob = math.Min(prob-20, 40)
	}

	if hasCatalyst {
		prob = math.Max(prob, 85)
	}

	prob = math.Max(probFloor, math.Min(probCeil, prob))

	bullish := int(math.Round(prob))
	label := "Neutral"
	if bullish >= 60 {
		label = "Bullish"
	} else if bullish <= 40 {
		label = "Bearish"
	}

	return models.BlendedSentiment{
		Label:      label,
		BullishPct: bullish,
		BearishPct: 100 - bullish,
	}
}
