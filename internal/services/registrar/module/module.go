// Package module wires the registrar into the API using modkit
package module

import (
	"context"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"monreg/internal/adapters/naming"
	"monreg/internal/core/pricing"
	"monreg/internal/modkit"
	"monreg/internal/modkit/httpkit"
	"monreg/internal/modkit/repokit"
	"monreg/internal/platform/clock"
	"monreg/internal/platform/net/middleware"
	str "monreg/internal/platform/strings"
	"monreg/internal/services/registrar/domain"
	"monreg/internal/services/registrar/events"
	reghttp "monreg/internal/services/registrar/http"
	"monreg/internal/services/registrar/repo"
	"monreg/internal/services/registrar/service"
)

// Ports exposed by the registrar module
type Ports struct {
	Registrar domain.RegistrarPort
	Admin     domain.AdminPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps modkit.Deps
	opts Options
	name string

	mws      []func(http.Handler) http.Handler
	ports    Ports
	register func(httpkit.Router)
}

// New constructs a registrar module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("registrar")}, opts...)...)
	cfg := FromConfig(deps.Cfg)

	oracle, err := pricing.NewOracle(parseRates(deps, cfg.Rates))
	if err != nil {
		deps.Log.Panic().Err(err).Msg("registrar rate table rejected")
	}

	var runner repo.Runner
	switch cfg.Store {
	case "memory":
		runner = repo.NewMemory()
	default:
		if deps.PG == nil {
			deps.Log.Panic().Str("store", cfg.Store).Msg("registrar store requires postgres")
		}
		runner = repo.NewPGRunner(repokit.WithBeginHooks(deps.PG, txTimeoutHook(cfg.TxTimeout)))
	}

	svc := service.New(
		runner,
		oracle,
		clock.System{},
		events.NewCH(deps.CH, deps.Log),
		collaborators(cfg),
		service.Config{
			TLD:              cfg.TLD,
			MinCommitmentAge: cfg.MinCommitmentAge,
			MaxCommitmentAge: cfg.MaxCommitmentAge,
			GracePeriod:      cfg.GracePeriod,
			MinDuration:      cfg.MinDuration,
			OwnerPrincipal:   cfg.OwnerPrincipal,
		},
	)

	m := &Module{
		deps: deps,
		opts: cfg,
		name: b.Name,
		mws:  b.Mw,
	}
	m.ports = Ports{
		Registrar: svc,
		Admin:     svc,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		reghttp.Register(r, m.ports.Registrar)
		m.mountAdmin(r)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Group(func(gr httpkit.Router) {
		for _, mw := range m.mws {
			gr.Use(mw)
		}
		if m.opts.RateRPS > 0 {
			gr.Use(middleware.RateLimit(middleware.RateLimitOptions{
				RPS:   m.opts.RateRPS,
				Burst: m.opts.RateBurst,
			}))
		}
		m.register(gr)
	})
}

func (m *Module) mountAdmin(r httpkit.Router) {
	if m.opts.AdminToken == "" {
		m.deps.Log.Warn().Msg("registrar admin token unset; admin routes not mounted")
		return
	}
	httpkit.Protected(r, middleware.StaticToken(m.opts.AdminToken, m.opts.OwnerPrincipal), func(gr httpkit.Router) {
		reghttp.RegisterAdmin(gr, m.ports.Admin)
	})
}

// txTimeoutHook bounds every ledger transaction; SET LOCAL scopes the
// setting to the transaction so pooled sessions stay clean
func txTimeoutHook(d time.Duration) repokit.BeginHook {
	ms := strconv.FormatInt(d.Milliseconds(), 10)
	return func(ctx context.Context, q repokit.Queryer) error {
		_, err := q.Exec(ctx, "SET LOCAL statement_timeout = "+ms)
		return err
	}
}

func parseRates(deps modkit.Deps, raw []string) []*big.Int {
	out := make([]*big.Int, 0, len(raw))
	for _, s := range raw {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			deps.Log.Panic().Str("rate", s).Msg("registrar rate is not a base-unit integer")
		}
		out = append(out, v)
	}
	return out
}

func collaborators(opts Options) service.Collaborators {
	var c service.Collaborators
	if opts.TreeURL != "" {
		c.Tree = naming.NewClient(naming.Options{BaseURL: opts.TreeURL})
	}
	if opts.ResolverURL != "" {
		c.Resolver = naming.NewClient(naming.Options{BaseURL: opts.ResolverURL})
	}
	if opts.ReverseURL != "" {
		c.Reverse = naming.NewClient(naming.Options{BaseURL: opts.ReverseURL})
	}
	return c
}
