package flow

import (
	"reflect"
	"testing"

	"SignalHub/internal/domain/models"
)

func TestClassifyPhases(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name       string
		pc, vr     float64
		phase      models.Phase
		sentiment  models.Sentiment
		confidence int
	}{
		{"block trade on volume alone", 0.1, 3.1, models.PhaseBlockTrade, models.SentimentStrongBullish, 95},
		{"volume ratio exactly 3.0 is not block trade", 8.0, 3.0, models.PhaseMegalodonMarkup, models.SentimentExtremeBullish, 92},
		{"megalodon markup", 7.5, 2.0, models.PhaseMegalodonMarkup, models.SentimentExtremeBullish, 92},
		{"boundary 7.0/1.8 falls to strong markup", 7.0, 1.8, models.PhaseStrongMarkup, models.SentimentBullish, 88},
		{"strong markup", 4.0, 1.5, models.PhaseStrongMarkup, models.SentimentBullish, 88},
		{"markup", 2.0, 1.2, models.PhaseMarkup, models.SentimentModerateBullish, 75},
		{"silent accumulation", 0.5, 0.5, models.PhaseSilentAccum, models.SentimentNeutralBullish, 82},
		{"boundary vr 0.85 is consolidation", 0.5, 0.85, models.PhaseConsolidation, models.SentimentNeutral, 68},
		{"distribution", -2.0, 1.6, models.PhaseDistribution, models.SentimentBearish, 85},
		{"deep drop on volume still hits distribution first", -5.0, 2.0, models.PhaseDistribution, models.SentimentBearish, 85},
		{"consolidation fallback", 0.0, 1.0, models.PhaseConsolidation, models.SentimentNeutral, 68},
		{"drop without volume is consolidation", -3.0, 1.0, models.PhaseConsolidation, models.SentimentNeutral, 68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.pc, tt.vr, 0)
			if got.Phase != tt.phase {
				t.Fatalf("phase = %q, want %q", got.Phase, tt.phase)
			}
			if got.OverallSentiment != tt.sentiment {
				t.Errorf("sentiment = %q, want %q", got.OverallSentiment, tt.sentiment)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("confidence = %d, want %d", got.Confidence, tt.confidence)
			}
			if got.Narrative == "" {
				t.Errorf("empty narrative")
			}
		})
	}
}

func TestClassifyExampleScenario(t *testing.T) {
	c := NewClassifier()
	got := c.Classify(8.0, 2.0, 0)

	if got.Phase != models.PhaseMegalodonMarkup {
		t.Fatalf("phase = %q, want megalodon markup", got.Phase)
	}
	if got.Confidence != 92 {
		t.Errorf("confidence = %d, want 92", got.Confidence)
	}
	if got.Whale.Status != models.WhaleEntry {
		t.Errorf("whale status = %q, want %q", got.Whale.Status, models.WhaleEntry)
	}
	if got.Retail.Status != models.RetailFOMO {
		t.Errorf("retail status = %q, want %q", got.Retail.Status, models.RetailFOMO)
	}
	if got.Institutional.Status != models.GroupInstitutionSupport {
		t.Errorf("group status = %q, want %q", got.Institutional.Status, models.GroupInstitutionSupport)
	}
}

func TestClassifyCohorts(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name   string
		pc, vr float64
		whale  string
		retail string
		group  string
	}{
		{"block trade forces whale entry", 0.1, 3.5, models.WhaleEntry, models.RetailWaitAndSee, models.GroupJumboTransaction},
		{"quiet tape accumulation", 0.5, 0.5, models.WhaleAccumulation, models.RetailWaitAndSee, models.GroupSilentAccum},
		{"heavy drop distribution", -3.5, 1.6, models.WhaleDistribution, models.RetailWaitAndSee, models.GroupSmartMoneyExiting},
		{"panic drop retail capitulation", -4.5, 1.6, models.WhaleDistribution, models.RetailCapitulation, models.GroupSmartMoneyExiting},
		{"retail FOMO needs both clauses", 4.5, 1.5, models.WhaleEntry, models.RetailWaitAndSee, models.GroupSmartMoneyIn},
		{"neutral everything", 0.0, 1.0, models.WhaleNeutral, models.RetailWaitAndSee, models.GroupWaitAndSee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.pc, tt.vr, 0)
			if got.Whale.Status != tt.whale {
				t.Errorf("whale = %q, want %q", got.Whale.Status, tt.whale)
			}
			if got.Retail.Status != tt.retail {
				t.Errorf("retail = %q, want %q", got.Retail.Status, tt.retail)
			}
			if got.Institutional.Status != tt.group {
				t.Errorf("group = %q, want %q", got.Institutional.Status, tt.group)
			}
		})
	}
}

func TestClassifyPure(t *testing.T) {
	c := NewClassifier()
	inputs := [][2]float64{{8, 2}, {0, 1}, {-5, 2}, {0.5, 0.5}, {1.2, 1.1}}
	for _, in := range inputs {
		a := c.Classify(in[0], in[1], 1.23)
		b := c.Classify(in[0], in[1], 1.23)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("classification not deterministic for %v", in)
		}
	}
}

func TestClassifyIgnoresVWAPDeviation(t *testing.T) {
	c := NewClassifier()
	a := c.Classify(2.0, 1.2, -10)
	b := c.Classify(2.0, 1.2, 10)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("vwap deviation must not affect classification")
	}
}
