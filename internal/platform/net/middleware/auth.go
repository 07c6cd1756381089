package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	perr "monreg/internal/platform/errors"
	pnet "monreg/internal/platform/net"
)

// AuthPort resolves a bearer token into a principal identity
type AuthPort interface {
	// Authenticate returns the principal for token, or an error for rejects
	Authenticate(token string) (string, error)
}

// AuthFunc adapts a func into an AuthPort
type AuthFunc func(token string) (string, error)

// Authenticate implements AuthPort
func (f AuthFunc) Authenticate(token string) (string, error) { return f(token) }

// StaticToken returns an AuthPort that accepts exactly one token
func StaticToken(token, principal string) AuthPort {
	return AuthFunc(func(got string) (string, error) {
		if token == "" || got != token {
			return "", perr.Unauthorizedf("invalid token")
		}
		return principal, nil
	})
}

// Auth requires a Bearer token and stores the principal on the context
func Auth(port AuthPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(raw, "Bearer ")
			if !ok || token == "" {
				writeEnvelope(w, r, perr.Unauthorizedf("missing bearer token"))
				return
			}
			principal, err := port.Authenticate(token)
			if err != nil {
				writeEnvelope(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithPrincipal(r.Context(), principal)))
		})
	}
}

// writeEnvelope writes the project error envelope from middleware, where
// the handler pipeline's responder is not in play
func writeEnvelope(w http.ResponseWriter, r *http.Request, err error) {
	status, body := pnet.Error(err, pnet.RequestID(r.Context()))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
