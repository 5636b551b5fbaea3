package brokers

import (
	"testing"

	"SignalHub/internal/domain/models"
)

func flow(code string, v float64) models.BrokerFlow {
	return models.BrokerFlow{Code: code, Value: v}
}

func TestTopBuyersSortedAndCapped(t *testing.T) {
	flows := []models.BrokerFlow{
		flow("YP", 1.2), flow("PD", 8.4), flow("AK", -2.0),
		flow("BK", 3.3), flow("KZ", 0.5), flow("CC", 6.1),
		flow("YU", 2.2), flow("DR", -0.1),
	}

	buyers := topBuyers(flows)
	if len(buyers) != 5 {
		t.Fatalf("got %d buyers, want 5", len(buyers))
	}
	want := []string{"PD", "CC", "BK", "YU", "YP"}
	for i, code := range want {
		if buyers[i].Code != code {
			t.Errorf("buyers[%d] = %s, want %s", i, buyers[i].Code, code)
		}
	}
}

func TestTopSellersSortedByMagnitude(t *testing.T) {
	flows := []models.BrokerFlow{
		flow("YP", 1.0), flow("AK", -7.5), flow("BK", -0.3), flow("MG", -2.2),
	}

	sellers := topSellers(flows)
	if len(sellers) != 3 {
		t.Fatalf("got %d sellers, want 3", len(sellers))
	}
	want := []string{"AK", "MG", "BK"}
	for i, code := range want {
		if sellers[i].Code != code {
			t.Errorf("sellers[%d] = %s, want %s", i, sellers[i].Code, code)
		}
	}
}

func TestActionThresholds(t *testing.T) {
	tests := []struct {
		net  float64
		want string
	}{
		{12.0, "BUYING"},
		{5.1, "BUYING"},
		{5.0, "NEUTRAL"},
		{0, "NEUTRAL"},
		{-5.0, "NEUTRAL"},
		{-5.1, "SELLING"},
		{-20.0, "SELLING"},
	}
	for _, tt := range tests {
		if got := action(tt.net); got != tt.want {
			t.Errorf("action(%v) = %s, want %s", tt.net, got, tt.want)
		}
	}
}
