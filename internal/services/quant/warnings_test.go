package quant

import (
	"reflect"
	"strings"
	"testing"

	"SignalHub/internal/domain/models"
)

func TestGenerateAllNeutral(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(0, 1.0, 50, 0, 0, 1.0, nil)

	if got.Main.Level != "NEUTRAL" {
		t.Fatalf("main level = %q, want NEUTRAL", got.Main.Level)
	}
	if got.Main.Color != models.ColorSecondary {
		t.Errorf("main color = %q, want secondary", got.Main.Color)
	}
	if len(got.Secondary) != 0 {
		t.Errorf("secondary = %v, want none", got.Secondary)
	}
	if len(got.Details) != 1 {
		t.Errorf("details = %d entries, want 1", len(got.Details))
	}
}

func TestGenerateBullTrapScenario(t *testing.T) {
	// Extreme projected return on thin volume: both rules are danger, and the
	// stable sort keeps the return-band entry (appended first) as main.
	g := NewGenerator()
	got := g.Generate(45, 0.5, 50, 0, 0, 1.0, nil)

	if len(got.Details) != 2 {
		t.Fatalf("details = %d entries, want 2", len(got.Details))
	}
	for _, e := range got.Details {
		if e.Color != models.ColorDanger {
			t.Errorf("entry %q color = %q, want danger", e.Level, e.Color)
		}
	}
	if got.Main.Level != "EXTREME_BULLISH" {
		t.Errorf("main = %q, want EXTREME_BULLISH (insertion order tiebreak)", got.Main.Level)
	}
	if len(got.Secondary) != 1 || !strings.Contains(got.Secondary[0], "bandar trap") {
		t.Errorf("secondary = %v, want the low-volume trap message", got.Secondary)
	}
}

func TestGenerateSeverityOrdering(t *testing.T) {
	// Success-colored return band vs danger-colored volatility: danger wins.
	g := NewGenerator()
	got := g.Generate(25, 1.0, 50, 0, 0, 2.0, nil)

	if got.Main.Level != "EXTREME_VOLATILITY" {
		t.Fatalf("main = %q, want EXTREME_VOLATILITY", got.Main.Level)
	}
	if got.Main.Color != models.ColorDanger {
		t.Errorf("main color = %q, want danger", got.Main.Color)
	}
}

func TestGenerateVolumeChainFirstMatch(t *testing.T) {
	// vr 3.5 with ret 20 satisfies both the mega-volume and volume-confirmed
	// predicates; the else-if chain only emits the first.
	g := NewGenerator()
	got := g.Generate(20, 3.5, 50, 0, 0, 1.0, nil)

	var levels []string
	for _, e := range got.Details {
		levels = append(levels, e.Level)
	}
	want := []string{"MEGA_VOLUME", "STRONG_BULLISH"}
	if !reflect.DeepEqual(levels, want) {
		t.Fatalf("levels = %v, want %v", levels, want)
	}
	if got.Main.Level != "MEGA_VOLUME" {
		t.Errorf("main = %q, want MEGA_VOLUME (warning outranks success)", got.Main.Level)
	}
}

func TestGenerateRSIExtremes(t *testing.T) {
	g := NewGenerator()

	got := g.Generate(10, 1.0, 80, 0, 0, 1.0, nil)
	if got.Main.Level != "OVERBOUGHT" {
		t.Fatalf("main = %q, want OVERBOUGHT", got.Main.Level)
	}

	got = g.Generate(-10, 1.0, 20, 0, 0, 1.0, nil)
	found := false
	for _, e := range got.Details {
		if e.Level == "OVERSOLD" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OVERSOLD entry, got %+v", got.Details)
	}
}

func TestGenerateForeignFlow(t *testing.T) {
	g := NewGenerator()

	got := g.Generate(0, 1.0, 50, 150, 0, 1.0, nil)
	if got.Main.Level != "FOREIGN_NET_BUY" || got.Main.Color != models.ColorSuccess {
		t.Fatalf("main = %q/%q, want FOREIGN_NET_BUY/success", got.Main.Level, got.Main.Color)
	}

	got = g.Generate(0, 1.0, 50, -150, 0, 1.0, nil)
	if got.Main.Level != "FOREIGN_NET_SELL" || got.Main.Color != models.ColorDanger {
		t.Fatalf("main = %q/%q, want FOREIGN_NET_SELL/danger", got.Main.Level, got.Main.Color)
	}
}

func TestGenerateSecondaryCapped(t *testing.T) {
	// Four entries fire; only two secondary messages are exposed.
	g := NewGenerator()
	got := g.Generate(-45, 1.6, 50, 0, -0.7, 2.0, nil)

	if len(got.Details) != 4 {
		t.Fatalf("details = %d entries, want 4", len(got.Details))
	}
	if len(got.Secondary) != 2 {
		t.Fatalf("secondary = %d messages, want 2", len(got.Secondary))
	}
}

func TestGenerateBrokerAnnotation(t *testing.T) {
	g := NewGenerator()
	activity := map[string][]string{
		"buyers":  {"YP", "PD"},
		"sellers": {"KZ"},
	}

	got := g.Generate(25, 1.0, 50, 0, 0, 1.0, activity)
	if !reflect.DeepEqual(got.Main.Brokers, []string{"YP", "PD"}) {
		t.Fatalf("main brokers = %v, want buyers", got.Main.Brokers)
	}

	got = g.Generate(-25, 1.0, 50, 0, 0, 1.0, activity)
	if !reflect.DeepEqual(got.Main.Brokers, []string{"KZ"}) {
		t.Fatalf("main brokers = %v, want sellers", got.Main.Brokers)
	}
}

func TestGeneratePure(t *testing.T) {
	g := NewGenerator()
	a := g.Generate(45, 0.5, 80, 150, 0.7, 2.0, nil)
	b := g.Generate(45, 0.5, 80, 150, 0.7, 2.0, nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("report not deterministic")
	}
}
