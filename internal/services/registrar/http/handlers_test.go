package http_test

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"monreg/internal/core/pricing"
	"monreg/internal/modkit/httpkit"
	"monreg/internal/platform/clock"
	phttp "monreg/internal/platform/net/http"
	"monreg/internal/platform/net/middleware"
	reghttp "monreg/internal/services/registrar/http"
	"monreg/internal/services/registrar/repo"
	"monreg/internal/services/registrar/service"
)

const (
	adminToken = "hunter2"
	secretHex  = "0x1111111111111111111111111111111111111111111111111111111111111111"
)

type fixture struct {
	mux *chi.Mux
	clk *clock.Manual
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	oracle, err := pricing.NewOracle([]*big.Int{big.NewInt(5)})
	if err != nil {
		t.Fatalf("oracle: %v", err)
	}
	clk := clock.NewManual(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	svc := service.New(repo.NewMemory(), oracle, clk, nil, service.Collaborators{}, service.Config{})

	mux := chi.NewMux()
	r := phttp.AdaptChi(mux)
	reghttp.Register(r, svc)
	httpkit.Protected(r, middleware.StaticToken(adminToken, "owner"), func(gr httpkit.Router) {
		reghttp.RegisterAdmin(gr, svc)
	})
	return &fixture{mux: mux, clk: clk}
}

// envelope mirrors the response body shape for asserts
type envelope struct {
	StatusCode int             `json:"status_code"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

func (f *fixture) post(t *testing.T, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %s: %v (body %q)", path, err, rr.Body.String())
	}
	return rr.Code, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v (raw %s)", err, env.Data)
	}
	return out
}

func (f *fixture) commitFor(t *testing.T, reveal map[string]any) string {
	t.Helper()

	code, env := f.post(t, "/names/commitment", "", reveal)
	if code != 200 {
		t.Fatalf("commitment failed: %d %s", code, env.Error)
	}
	out := decodeData[struct {
		Commitment string `json:"commitment"`
	}](t, env)

	code, env = f.post(t, "/names/commit", "", map[string]any{"commitment": out.Commitment})
	if code != 200 {
		t.Fatalf("commit failed: %d %s", code, env.Error)
	}
	return out.Commitment
}

func TestCommitRevealRegisterOverHTTP(t *testing.T) {
	f := newFixture(t)
	year := int64(31556926)

	reveal := map[string]any{
		"name":     "monadns",
		"owner":    "alice",
		"duration": year,
		"secret":   secretHex,
	}
	f.commitFor(t, reveal)

	// revealing immediately is too early
	register := map[string]any{
		"name":     "monadns",
		"owner":    "alice",
		"duration": year,
		"secret":   secretHex,
		"payment":  "157784630",
	}
	code, env := f.post(t, "/names/register", "", register)
	if code != http.StatusTooEarly {
		t.Fatalf("early reveal status = %d (%s), want 425", code, env.Error)
	}

	f.clk.Advance(2 * time.Minute)

	code, env = f.post(t, "/names/register", "", register)
	if code != 200 {
		t.Fatalf("register failed: %d %s", code, env.Error)
	}
	got := decodeData[struct {
		Name   string `json:"name"`
		Owner  string `json:"owner"`
		Cost   string `json:"cost"`
		Refund string `json:"refund"`
	}](t, env)
	if got.Name != "monadns.mon" || got.Owner != "alice" {
		t.Fatalf("unexpected registration: %+v", got)
	}
	if got.Cost != "157784630" || got.Refund != "0" {
		t.Fatalf("unexpected funds math: %+v", got)
	}

	// availability flips after registration
	code, env = f.post(t, "/names/available", "", map[string]any{"name": "MonaDNS"})
	if code != 200 {
		t.Fatalf("available failed: %d %s", code, env.Error)
	}
	avail := decodeData[struct {
		Available bool `json:"available"`
	}](t, env)
	if avail.Available {
		t.Fatal("name should be taken after registration")
	}
}

func TestRegisterValidationOverHTTP(t *testing.T) {
	f := newFixture(t)

	// malformed payment string is rejected before the service runs
	code, env := f.post(t, "/names/register", "", map[string]any{
		"name":     "monadns",
		"owner":    "alice",
		"duration": 31556926,
		"secret":   secretHex,
		"payment":  "1.5e9",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("bad payment status = %d (%s), want 400", code, env.Error)
	}

	// malformed digest is rejected on commit
	code, env = f.post(t, "/names/commit", "", map[string]any{"commitment": "abc"})
	if code != http.StatusBadRequest {
		t.Fatalf("bad digest status = %d (%s), want 400", code, env.Error)
	}
}

func TestUnderpaymentOverHTTP(t *testing.T) {
	f := newFixture(t)
	year := int64(31556926)

	f.commitFor(t, map[string]any{
		"name":     "cheap",
		"owner":    "alice",
		"duration": year,
		"secret":   secretHex,
	})
	f.clk.Advance(2 * time.Minute)

	code, env := f.post(t, "/names/register", "", map[string]any{
		"name":     "cheap",
		"owner":    "alice",
		"duration": year,
		"secret":   secretHex,
		"payment":  "1",
	})
	if code != http.StatusPaymentRequired {
		t.Fatalf("underpay status = %d (%s), want 402", code, env.Error)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := newFixture(t)

	code, _ := f.post(t, "/admin/withdraw", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("anonymous withdraw status = %d, want 401", code)
	}

	code, _ = f.post(t, "/admin/withdraw", "wrong", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("bad token withdraw status = %d, want 401", code)
	}

	code, env := f.post(t, "/admin/withdraw", adminToken, nil)
	if code != 200 {
		t.Fatalf("owner withdraw failed: %d %s", code, env.Error)
	}
	out := decodeData[struct {
		Amount string `json:"amount"`
	}](t, env)
	if out.Amount != "0" {
		t.Fatalf("fresh ledger withdraw = %s, want 0", out.Amount)
	}
}

func TestAdminSetRatesOverHTTP(t *testing.T) {
	f := newFixture(t)

	code, env := f.post(t, "/admin/rates", adminToken, map[string]any{
		"rates": []string{"100", "50", "10"},
	})
	if code != 200 {
		t.Fatalf("set rates failed: %d %s", code, env.Error)
	}

	// a 2-char label now prices at 50 per second
	code, env = f.post(t, "/names/rent-price", "", map[string]any{
		"name":     "ab",
		"duration": 10,
	})
	if code != 200 {
		t.Fatalf("rent-price failed: %d %s", code, env.Error)
	}
	priced := decodeData[struct {
		Price string `json:"price"`
	}](t, env)
	if priced.Price != "500" {
		t.Fatalf("price = %s, want 500", priced.Price)
	}

	// empty table is rejected by validation
	code, _ = f.post(t, "/admin/rates", adminToken, map[string]any{"rates": []string{}})
	if code != http.StatusBadRequest {
		t.Fatalf("empty rates status = %d, want 400", code)
	}
}
