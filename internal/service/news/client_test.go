package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

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

func TestFirstImage(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"plain text", "Shares rallied on volume.", ""},
		{"single image", `<p>text</p><img src="https://cdn.example.com/a.jpg" alt="">`, "https://cdn.example.com/a.jpg"},
		{"first of many", `<img src="first.png"><img src="second.png">`, "first.png"},
		{"img without src", `<img alt="broken">`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstImage(tt.html); got != tt.want {
				t.Errorf("firstImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetRecentHeadlinesCachesAndFallsBack(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"title":"Company posts record profit","link":"https://n/1","description":"<img src=\"https://n/1.jpg\">","source":"wire","published_at":"2026-08-30T09:00:00Z"},
			{"title":"","link":"https://n/skip"},
			{"title":"Board approves buyback","link":"https://n/2","source":"wire","published_at":"2026-08-30T08:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, testLogger(t))
	ctx := context.Background()

	got := c.GetRecentHeadlines(ctx, "BBCA", 10)
	if len(got) != 2 {
		t.Fatalf("got %d headlines, want 2", len(got))
	}
	if got[0].Title != "Company posts record profit" || got[0].ImageURL != "https://n/1.jpg" {
		t.Errorf("unexpected first headline: %+v", got[0])
	}

	// Fresh cache hit serves without touching the feed.
	fail.Store(true)
	if again := c.GetRecentHeadlines(ctx, "BBCA", 10); len(again) != 2 {
		t.Errorf("cached read returned %d headlines, want 2", len(again))
	}

	// A different ticker misses the cache, hits the dead feed, and falls
	// back to empty (no stale copy exists for it).
	if cold := c.GetRecentHeadlines(ctx, "TLKM", 10); cold != nil {
		t.Errorf("expected nil headlines for cold ticker on dead feed, got %v", cold)
	}
}

func TestGetRecentHeadlinesLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"title":"one"},{"title":"two"},{"title":"three"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, testLogger(t))
	if got := c.GetRecentHeadlines(context.Background(), "BBRI", 2); len(got) != 2 {
		t.Fatalf("got %d headlines, want 2", len(got))
	}
}

func TestGetRecentHeadlinesSmallLimitDoesNotPinCache(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"title":"one"},{"title":"two"},{"title":"three"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, testLogger(t))
	ctx := context.Background()

	if got := c.GetRecentHeadlines(ctx, "ASII", 1); len(got) != 1 {
		t.Fatalf("limit 1 returned %d headlines", len(got))
	}

	// The full fetch is cached, so a wider read on a dead feed still sees
	// everything the first request pulled.
	fail.Store(true)
	if got := c.GetRecentHeadlines(ctx, "ASII", 10); len(got) != 3 {
		t.Errorf("limit 10 after limit 1 returned %d headlines, want 3", len(got))
	}
}
