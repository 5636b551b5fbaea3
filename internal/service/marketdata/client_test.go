package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SignalHub/internal/domain/repository"
	"SignalHub/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestGetRecentBarsSortsAndTrims(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "k123" {
			t.Errorf("api key header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		// Out of order on purpose.
		_, _ = w.Write([]byte(`{"ticker":"BBCA","bars":[
			{"t":1756300000,"o":10,"h":11,"l":9,"c":10.5,"v":1000},
			{"t":1756100000,"o":9,"h":10,"l":8,"c":9.5,"v":900},
			{"t":1756200000,"o":9.5,"h":10.5,"l":9,"c":10,"v":950}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k123", testLogger(t))
	bars, err := c.GetRecentBars(context.Background(), "BBCA", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Errorf("bars not chronological: %v then %v", bars[0].Timestamp, bars[1].Timestamp)
	}
	if bars[1].Close != 10.5 {
		t.Errorf("latest close = %v, want 10.5", bars[1].Close)
	}
}

func TestGetRecentBarsEmptyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ticker":"ZZZZ","bars":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", testLogger(t))
	if _, err := c.GetRecentBars(context.Background(), "ZZZZ", 60); !errors.Is(err, repository.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestGetRecentBarsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", testLogger(t), WithTimeout(time.Second))
	if _, err := c.GetRecentBars(context.Background(), "BBCA", 60); !errors.Is(err, repository.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}
