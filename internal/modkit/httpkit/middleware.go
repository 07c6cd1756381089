package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"monreg/internal/platform/net/middleware"
)

// CommonStack returns a baseline per module middleware slice
// compose with your auth or rate limit middleware as needed in main
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLog(middleware.AccessLogOptions{Slow: 2 * time.Second}),

		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// Auth re-exports the bearer auth middleware for module wiring
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p)
}

// Protected groups routes under bearer auth
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
