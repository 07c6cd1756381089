package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"monreg/internal/platform/net/middleware"
)

func limitedHandler(opt middleware.RateLimitOptions) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})
	return middleware.RateLimit(opt)(next)
}

func hit(h http.Handler, remote, header, key string) int {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = remote
	if header != "" {
		req.Header.Set(header, key)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	h := limitedHandler(middleware.RateLimitOptions{RPS: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		if code := hit(h, "10.0.0.1:5555", "", ""); code != 200 {
			t.Fatalf("request %d expected 200 got %d", i, code)
		}
	}
	if code := hit(h, "10.0.0.1:5555", "", ""); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", code)
	}
}

func TestRateLimit_RetryAfterHeader(t *testing.T) {
	h := limitedHandler(middleware.RateLimitOptions{RPS: 1, Burst: 1})

	if code := hit(h, "10.0.0.2:5555", "", ""); code != 200 {
		t.Fatalf("first request expected 200 got %d", code)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After on rejects")
	}
}

func TestRateLimit_BucketsArePerClient(t *testing.T) {
	h := limitedHandler(middleware.RateLimitOptions{RPS: 1, Burst: 1})

	if code := hit(h, "10.0.0.3:1111", "", ""); code != 200 {
		t.Fatalf("client a expected 200 got %d", code)
	}
	if code := hit(h, "10.0.0.3:1111", "", ""); code != http.StatusTooManyRequests {
		t.Fatalf("client a expected 429 got %d", code)
	}
	// a different IP keeps its own bucket
	if code := hit(h, "10.0.0.4:1111", "", ""); code != 200 {
		t.Fatalf("client b expected 200 got %d", code)
	}
}

func TestRateLimit_KeyHeaderPreferred(t *testing.T) {
	h := limitedHandler(middleware.RateLimitOptions{RPS: 1, Burst: 1, KeyHeader: "X-API-Key"})

	// same remote addr, different api keys: separate buckets
	if code := hit(h, "10.0.0.5:2222", "X-API-Key", "alpha"); code != 200 {
		t.Fatalf("alpha expected 200 got %d", code)
	}
	if code := hit(h, "10.0.0.5:2222", "X-API-Key", "beta"); code != 200 {
		t.Fatalf("beta expected 200 got %d", code)
	}
	if code := hit(h, "10.0.0.5:2222", "X-API-Key", "alpha"); code != http.StatusTooManyRequests {
		t.Fatalf("alpha second expected 429 got %d", code)
	}
}

func TestRateLimit_ForwardedForUsedWhenTrusted(t *testing.T) {
	h := limitedHandler(middleware.RateLimitOptions{RPS: 1, Burst: 1, TrustForwarded: true})

	if code := hit(h, "10.0.0.6:3333", "X-Forwarded-For", "203.0.113.9, 10.0.0.6"); code != 200 {
		t.Fatalf("expected 200 got %d", code)
	}
	// same forwarded client via a different proxy hop shares the bucket
	if code := hit(h, "10.0.0.7:4444", "X-Forwarded-For", "203.0.113.9"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", code)
	}
}
