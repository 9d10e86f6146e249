package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/phuocthuan2203/libhub-microservices/internal/gateway"
)

type memStats struct {
	mu     sync.Mutex
	events []gateway.StatsEvent
}

func (s *memStats) Record(_ context.Context, ev gateway.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	stats := &memStats{}
	limit := gateway.RateLimitMiddleware(gateway.RateLimitOptions{
		Store: gateway.NewLimiterStore(0.001, 1),
		Stats: stats,
	})
	h := limit(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %v", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %v", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	if len(stats.events) != 2 {
		t.Fatalf("expected 2 stats events, got %d", len(stats.events))
	}
	if !stats.events[0].Allowed || stats.events[1].Allowed {
		t.Error("expected allowed then denied")
	}
}

func TestRateLimitMiddleware_SeparateClients(t *testing.T) {
	limit := gateway.RateLimitMiddleware(gateway.RateLimitOptions{
		Store: gateway.NewLimiterStore(0.001, 1),
	})
	h := limit(okHandler())

	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.RemoteAddr = addr

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("expected first request from %s to pass, got %v", addr, w.Code)
		}
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := gateway.ClientKey(req); got != "10.0.0.1" {
		t.Errorf("expected remote addr host, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := gateway.ClientKey(req); got != "203.0.113.9" {
		t.Errorf("expected first forwarded ip, got %q", got)
	}
}
