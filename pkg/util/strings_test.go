package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("empty string: got %d", got)
	}
	if got := ParseIntDefault("12", 7); got != 12 {
		t.Fatalf("valid int: got %d", got)
	}
	if got := ParseIntDefault("abc", 7); got != 7 {
		t.Fatalf("invalid int: got %d", got)
	}
}

func TestNormalizeTicker(t *testing.T) {
	if got := NormalizeTicker("  bbca "); got != "BBCA" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatBillions(t *testing.T) {
	if got := FormatBillions(12.44); got != "12.4B" {
		t.Fatalf("got %q", got)
	}
	if got := FormatBillions(-3); got != "-3.0B" {
		t.Fatalf("got %q", got)
	}
}
