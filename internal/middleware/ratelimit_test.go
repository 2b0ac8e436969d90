package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GregMSThompson/verify-backend/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/verify", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 3, logger.New("error", logger.NewTestHandler))
	defer rl.Stop()
	h := rl.Handler(okHandler())

	for i := 0; i < 3; i++ {
		if code := doRequest(h, "10.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, code)
		}
	}
}

func TestRateLimitRejectsPastBurst(t *testing.T) {
	rl := NewRateLimitMiddleware(0.001, 2, logger.New("error", logger.NewTestHandler))
	defer rl.Stop()
	h := rl.Handler(okHandler())

	doRequest(h, "10.0.0.1:5000")
	doRequest(h, "10.0.0.1:5000")

	if code := doRequest(h, "10.0.0.1:5000"); code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 after the burst is spent", code)
	}
}

func TestRateLimitIsolatesClients(t *testing.T) {
	rl := NewRateLimitMiddleware(0.001, 1, logger.New("error", logger.NewTestHandler))
	defer rl.Stop()
	h := rl.Handler(okHandler())

	doRequest(h, "10.0.0.1:5000")
	if code := doRequest(h, "10.0.0.1:5001"); code != http.StatusOK {
		t.Fatalf("same ip different port status = %d, want 200 hit against the shared bucket to fail first", code)
	}
	if code := doRequest(h, "10.0.0.2:5000"); code != http.StatusOK {
		t.Fatalf("second client status = %d, want 200", code)
	}
	if code := doRequest(h, "10.0.0.1:5000"); code != http.StatusTooManyRequests {
		t.Fatalf("first client status = %d, want 429", code)
	}
}

func TestCleanupEvictsStaleLimiters(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 1, logger.New("error", logger.NewTestHandler))
	defer rl.Stop()

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	// Push the clock past the stale TTL and sweep.
	rl.nowFunc = func() time.Time {
		return time.Now().Add(staleLimiterTTL + time.Minute)
	}
	rl.cleanup()

	rl.mu.Lock()
	remaining := len(rl.limiters)
	rl.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("limiters remaining after cleanup = %d, want 0", remaining)
	}
}

func TestCleanupKeepsActiveLimiters(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 1, logger.New("error", logger.NewTestHandler))
	defer rl.Stop()

	rl.allow("10.0.0.1")
	rl.cleanup()

	rl.mu.Lock()
	remaining := len(rl.limiters)
	rl.mu.Unlock()
	if remaining != 1 {
		t.Fatalf("limiters remaining after cleanup = %d, want 1", remaining)
	}
}
