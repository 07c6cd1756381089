package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	perr "monreg/internal/platform/errors"

	"golang.org/x/time/rate"
)

// RateLimitOptions tunes the per-client token bucket
type RateLimitOptions struct {
	// RPS is the sustained refill rate per client, default 10
	RPS float64

	// Burst is the bucket size per client, default 20
	Burst int

	// KeyHeader, when set and present, is preferred over the client IP
	KeyHeader string

	// TrustForwarded enables X-Forwarded-For for key derivation
	TrustForwarded bool

	// IdleTTL evicts client buckets not seen for this long, default 10m
	IdleTTL time.Duration
}

func (o *RateLimitOptions) defaults() {
	if o.RPS <= 0 {
		o.RPS = 10
	}
	if o.Burst <= 0 {
		o.Burst = 20
	}
	if o.IdleTTL <= 0 {
		o.IdleTTL = 10 * time.Minute
	}
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimit applies a per-client token bucket and rejects with 429
func RateLimit(opt RateLimitOptions) func(http.Handler) http.Handler {
	opt.defaults()

	var (
		mu      sync.Mutex
		clients = map[string]*client{}
		sweep   time.Time
	)

	take := func(key string) bool {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.Sub(sweep) > opt.IdleTTL {
			for k, c := range clients {
				if now.Sub(c.seen) > opt.IdleTTL {
					delete(clients, k)
				}
			}
			sweep = now
		}

		c, ok := clients[key]
		if !ok {
			c = &client{lim: rate.NewLimiter(rate.Limit(opt.RPS), opt.Burst)}
			clients[key] = c
		}
		c.seen = now
		return c.lim.Allow()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !take(clientKey(r, opt)) {
				w.Header().Set("Retry-After", "1")
				writeEnvelope(w, r, perr.Newf(perr.ErrorCodeTooManyRequests, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey derives the bucket key: header, then forwarded IP, then remote addr
func clientKey(r *http.Request, opt RateLimitOptions) string {
	if opt.KeyHeader != "" {
		if v := r.Header.Get(opt.KeyHeader); v != "" {
			return v
		}
	}
	if opt.TrustForwarded {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := xff
			if idx := strings.IndexByte(xff, ','); idx >= 0 {
				first = xff[:idx]
			}
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}
