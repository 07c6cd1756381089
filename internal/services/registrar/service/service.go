// Package service implements the registration controller
//
// Every mutating operation runs inside one Runner.Atomic call, so a failure
// at any validation step leaves the ledger, the commitments, and the funds
// balance exactly as they were. Collaborator notifications happen after the
// atomic section and surface as warnings, never as rollbacks.
package service

import (
	"context"
	"encoding/hex"
	"math"
	"math/big"
	"strings"
	"time"

	"monreg/internal/adapters/naming"
	"monreg/internal/core/commitment"
	"monreg/internal/core/label"
	"monreg/internal/core/pricing"
	"monreg/internal/platform/clock"
	perr "monreg/internal/platform/errors"
	"monreg/internal/platform/logger"
	pnet "monreg/internal/platform/net"
	"monreg/internal/services/registrar/domain"
	"monreg/internal/services/registrar/events"
	"monreg/internal/services/registrar/repo"
)

// Config tunes the protocol windows and ownership
type Config struct {
	// TLD is the suffix names register under, without the dot
	TLD string

	// MinCommitmentAge is how long a commitment must rest before reveal
	MinCommitmentAge time.Duration

	// MaxCommitmentAge is how long a commitment stays consumable
	MaxCommitmentAge time.Duration

	// GracePeriod keeps an expired name reserved for its prior owner
	GracePeriod time.Duration

	// MinDuration is the shortest rental register accepts
	MinDuration time.Duration

	// OwnerPrincipal is the authenticated identity allowed to run
	// owner-only operations
	OwnerPrincipal string
}

func (c *Config) defaults() {
	if c.TLD == "" {
		c.TLD = "mon"
	}
	if c.MinCommitmentAge <= 0 {
		c.MinCommitmentAge = time.Minute
	}
	if c.MaxCommitmentAge <= 0 {
		c.MaxCommitmentAge = 24 * time.Hour
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = 90 * 24 * time.Hour
	}
	if c.MinDuration <= 0 {
		c.MinDuration = 28 * 24 * time.Hour
	}
	if c.OwnerPrincipal == "" {
		c.OwnerPrincipal = "owner"
	}
}

// Collaborators are the external naming services notified on registration
type Collaborators struct {
	Tree     naming.TreeRegistry
	Resolver naming.Resolver
	Reverse  naming.ReverseRegistrar
}

func (c *Collaborators) defaults() {
	if c.Tree == nil {
		c.Tree = naming.Noop{}
	}
	if c.Resolver == nil {
		c.Resolver = naming.Noop{}
	}
	if c.Reverse == nil {
		c.Reverse = naming.Noop{}
	}
}

// Service orchestrates the oracle, the commitment window, and the ledger
type Service struct {
	store  repo.Runner
	oracle *pricing.Oracle
	clk    clock.Clock
	sink   events.Sink
	collab Collaborators
	cfg    Config
	log    logger.Logger
}

// New constructs the controller
func New(store repo.Runner, oracle *pricing.Oracle, clk clock.Clock, sink events.Sink, collab Collaborators, cfg Config) *Service {
	cfg.defaults()
	collab.defaults()
	if clk == nil {
		clk = clock.System{}
	}
	if sink == nil {
		sink = events.Noop{}
	}
	return &Service{
		store:  store,
		oracle: oracle,
		clk:    clk,
		sink:   sink,
		collab: collab,
		cfg:    cfg,
		log:    *logger.Named("registrar"),
	}
}

func (s *Service) window() commitment.Window {
	return commitment.Window{MinAge: s.cfg.MinCommitmentAge, MaxAge: s.cfg.MaxCommitmentAge}
}

// Available implements domain.RegistrarPort
func (s *Service) Available(ctx context.Context, in domain.AvailableInput) (domain.AvailableOutput, error) {
	lbl, err := label.Normalize(in.Name)
	if err != nil {
		return domain.AvailableOutput{}, err
	}

	out := domain.AvailableOutput{Name: lbl}
	err = s.store.View(ctx, func(l repo.Ledger) error {
		avail, err := s.available(ctx, l, lbl)
		if err != nil {
			return err
		}
		out.Available = avail
		return nil
	})
	return out, err
}

// available applies the grace-period policy against the ledger record
func (s *Service) available(ctx context.Context, l repo.Ledger, lbl string) (bool, error) {
	reg, err := l.Registration(ctx, lbl)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return reg.FullyExpired(s.clk.Now(), s.cfg.GracePeriod), nil
}

// RentPrice implements domain.RegistrarPort
func (s *Service) RentPrice(ctx context.Context, in domain.RentPriceInput) (domain.RentPriceOutput, error) {
	lbl, err := label.Normalize(in.Name)
	if err != nil {
		return domain.RentPriceOutput{}, err
	}
	price := s.oracle.Price(lbl, in.Duration)
	return domain.RentPriceOutput{Name: lbl, Duration: in.Duration, Price: price.String()}, nil
}

// MakeCommitment implements domain.RegistrarPort
// pure: exposes the digest so clients can pre-image the hash they will commit
func (s *Service) MakeCommitment(ctx context.Context, in domain.CommitmentInput) (domain.CommitmentOutput, error) {
	rev, err := s.reveal(in.Name, in.Owner, in.Duration, in.Secret, in.Resolver, in.Records, in.ReverseRecord)
	if err != nil {
		return domain.CommitmentOutput{}, err
	}
	d := commitment.Compute(rev)
	return domain.CommitmentOutput{Commitment: "0x" + hex.EncodeToString(d[:])}, nil
}

// Commit implements domain.RegistrarPort
func (s *Service) Commit(ctx context.Context, in domain.CommitInput) (domain.CommitOutput, error) {
	d, err := parseDigest(in.Commitment)
	if err != nil {
		return domain.CommitOutput{}, err
	}

	now := s.clk.Now()
	err = s.store.Atomic(ctx, func(l repo.Ledger) error {
		// expired commitments are dead weight, sweep them on the way in
		// so a re-commit of a stale digest is not rejected as a duplicate
		if _, err := l.PurgeCommitmentsBefore(ctx, now.Add(-s.cfg.MaxCommitmentAge)); err != nil {
			return err
		}
		if err := l.PutCommitment(ctx, d, now); err != nil {
			if perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
				// explicit rejection: overwriting would reset the timer
				// of a commitment somebody else is waiting on
				return perr.Conflictf("commitment already pending")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.CommitOutput{}, err
	}
	return domain.CommitOutput{Commitment: in.Commitment, CommittedAt: now}, nil
}

// Register implements domain.RegistrarPort per the commit-reveal protocol
func (s *Service) Register(ctx context.Context, in domain.RegisterInput) (domain.RegisterOutput, error) {
	rev, err := s.reveal(in.Name, in.Owner, in.Duration, in.Secret, in.Resolver, in.Records, in.ReverseRecord)
	if err != nil {
		return domain.RegisterOutput{}, err
	}
	payment, err := parseAmount(in.Payment)
	if err != nil {
		return domain.RegisterOutput{}, err
	}

	duration, err := rentalDuration(in.Duration)
	if err != nil {
		return domain.RegisterOutput{}, err
	}

	now := s.clk.Now()
	cost := s.oracle.Price(rev.Label, in.Duration)
	var expiresAt time.Time

	err = s.store.Atomic(ctx, func(l repo.Ledger) error {
		// 1+2: recompute the digest from the reveal and consume it
		if err := s.consume(ctx, l, commitment.Compute(rev), now); err != nil {
			return err
		}

		// 3: payment must cover the price; overpayment is refunded below
		if payment.Cmp(cost) < 0 {
			return perr.InsufficientPaymentf("payment %s below price %s", payment, cost)
		}

		// 4: ledger mutation
		avail, err := s.available(ctx, l, rev.Label)
		if err != nil {
			return err
		}
		if !avail {
			return perr.NotAvailablef("name %q is not available", rev.Label)
		}
		if duration < s.cfg.MinDuration {
			return perr.InvalidDurationf("duration below minimum of %s", s.cfg.MinDuration)
		}
		expiresAt = now.Add(duration)
		if err := l.PutRegistration(ctx, domain.Registration{
			Name:      rev.Label,
			Owner:     rev.Owner,
			ExpiresAt: expiresAt,
		}); err != nil {
			return err
		}

		// 6: credit only the cost; the refund never enters Funds
		return l.AddFunds(ctx, cost)
	})
	if err != nil {
		return domain.RegisterOutput{}, err
	}

	// 5: auxiliary metadata, after the source of truth is durable
	warnings := s.notify(ctx, rev)

	s.sink.Emit(ctx, domain.Event{
		Kind:      domain.EventRegistered,
		Name:      rev.Label,
		Owner:     rev.Owner,
		Cost:      cost.String(),
		ExpiresAt: expiresAt,
		At:        now,
	})

	return domain.RegisterOutput{
		Name:      rev.Label,
		Owner:     rev.Owner,
		ExpiresAt: expiresAt,
		Cost:      cost.String(),
		Refund:    new(big.Int).Sub(payment, cost).String(),
		Warnings:  warnings,
	}, nil
}

// consume enforces the single-use commitment window
func (s *Service) consume(ctx context.Context, l repo.Ledger, d domain.Digest, now time.Time) error {
	at, err := l.Commitment(ctx, d)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return perr.CommitmentNotFoundf("no matching commitment")
	}
	if err != nil {
		return err
	}
	switch s.window().Check(at, now) {
	case commitment.StatusTooNew:
		return perr.CommitmentTooNewf("commitment must rest %s", s.cfg.MinCommitmentAge)
	case commitment.StatusTooOld:
		return perr.CommitmentTooOldf("commitment older than %s", s.cfg.MaxCommitmentAge)
	}
	return l.DeleteCommitment(ctx, d)
}

// Renew implements domain.RegistrarPort
func (s *Service) Renew(ctx context.Context, in domain.RenewInput) (domain.RenewOutput, error) {
	lbl, err := label.Normalize(in.Name)
	if err != nil {
		return domain.RenewOutput{}, err
	}
	payment, err := parseAmount(in.Payment)
	if err != nil {
		return domain.RenewOutput{}, err
	}
	duration, err := rentalDuration(in.Duration)
	if err != nil {
		return domain.RenewOutput{}, err
	}

	now := s.clk.Now()
	cost := s.oracle.Price(lbl, in.Duration)
	var expiresAt time.Time

	err = s.store.Atomic(ctx, func(l repo.Ledger) error {
		reg, err := l.Registration(ctx, lbl)
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return perr.NotFoundf("name %q is not registered", lbl)
		}
		if err != nil {
			return err
		}
		// past the grace window the record is dead; renewal would resurrect
		// a name that is publicly available again
		if reg.FullyExpired(now, s.cfg.GracePeriod) {
			return perr.NotFoundf("registration for %q has fully expired", lbl)
		}

		if payment.Cmp(cost) < 0 {
			return perr.InsufficientPaymentf("payment %s below price %s", payment, cost)
		}

		// extend, never reset: unused paid time is preserved
		reg.ExpiresAt = reg.ExpiresAt.Add(duration)
		expiresAt = reg.ExpiresAt
		if err := l.PutRegistration(ctx, reg); err != nil {
			return err
		}
		return l.AddFunds(ctx, cost)
	})
	if err != nil {
		return domain.RenewOutput{}, err
	}

	s.sink.Emit(ctx, domain.Event{
		Kind:      domain.EventRenewed,
		Name:      lbl,
		Cost:      cost.String(),
		ExpiresAt: expiresAt,
		At:        now,
	})

	return domain.RenewOutput{
		Name:      lbl,
		ExpiresAt: expiresAt,
		Cost:      cost.String(),
		Refund:    new(big.Int).Sub(payment, cost).String(),
	}, nil
}

// Withdraw implements domain.AdminPort
func (s *Service) Withdraw(ctx context.Context) (domain.WithdrawOutput, error) {
	if err := s.requireOwner(ctx); err != nil {
		return domain.WithdrawOutput{}, err
	}

	var amount *big.Int
	err := s.store.Atomic(ctx, func(l repo.Ledger) error {
		bal, err := l.Funds(ctx)
		if err != nil {
			return err
		}
		amount = bal
		return l.SetFunds(ctx, new(big.Int))
	})
	if err != nil {
		return domain.WithdrawOutput{}, err
	}

	s.sink.Emit(ctx, domain.Event{
		Kind: domain.EventWithdrawn,
		Cost: amount.String(),
		At:   s.clk.Now(),
	})
	return domain.WithdrawOutput{Amount: amount.String()}, nil
}

// SetRates implements domain.AdminPort
func (s *Service) SetRates(ctx context.Context, in domain.SetRatesInput) error {
	if err := s.requireOwner(ctx); err != nil {
		return err
	}
	rates := make([]*big.Int, len(in.Rates))
	for i, raw := range in.Rates {
		r, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return perr.WithField(perr.InvalidArgf("rate %q is not a base unit amount", raw), "rates")
		}
		rates[i] = r
	}
	return s.oracle.SetRates(rates)
}

// SetBaseURI implements domain.AdminPort
func (s *Service) SetBaseURI(ctx context.Context, in domain.SetBaseURIInput) error {
	if err := s.requireOwner(ctx); err != nil {
		return err
	}
	return s.store.Atomic(ctx, func(l repo.Ledger) error {
		return l.SetBaseURI(ctx, in.BaseURI)
	})
}

// Reclaim implements domain.AdminPort
// reassigns ownership without touching the expiry clock
func (s *Service) Reclaim(ctx context.Context, in domain.ReclaimInput) (domain.ReclaimOutput, error) {
	if err := s.requireOwner(ctx); err != nil {
		return domain.ReclaimOutput{}, err
	}
	lbl, err := label.Normalize(in.Name)
	if err != nil {
		return domain.ReclaimOutput{}, err
	}

	now := s.clk.Now()
	var out domain.ReclaimOutput
	err = s.store.Atomic(ctx, func(l repo.Ledger) error {
		reg, err := l.Registration(ctx, lbl)
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return perr.NotFoundf("name %q is not registered", lbl)
		}
		if err != nil {
			return err
		}
		if reg.FullyExpired(now, s.cfg.GracePeriod) {
			return perr.NotFoundf("registration for %q has fully expired", lbl)
		}
		reg.Owner = in.Owner
		if err := l.PutRegistration(ctx, reg); err != nil {
			return err
		}
		out = domain.ReclaimOutput{Name: lbl, Owner: reg.Owner, ExpiresAt: reg.ExpiresAt}
		return nil
	})
	if err != nil {
		return domain.ReclaimOutput{}, err
	}

	s.sink.Emit(ctx, domain.Event{
		Kind:      domain.EventReclaimed,
		Name:      lbl,
		Owner:     in.Owner,
		ExpiresAt: out.ExpiresAt,
		At:        now,
	})
	return out, nil
}

// requireOwner gates the owner-only surface on the authenticated principal
func (s *Service) requireOwner(ctx context.Context) error {
	if pnet.Principal(ctx) != s.cfg.OwnerPrincipal {
		return perr.Unauthorizedf("owner-only operation")
	}
	return nil
}

// notify pushes auxiliary metadata to the collaborators, collecting warnings
func (s *Service) notify(ctx context.Context, rev domain.Reveal) []string {
	var warnings []string
	warn := func(who string, err error) {
		s.log.Warn().Err(err).Str("collaborator", who).Str("name", rev.Label).Msg("collaborator notify failed")
		warnings = append(warnings, who+": "+perr.Root(err).Error())
	}

	parent := label.Namehash(s.cfg.TLD)
	lh := label.Hash(rev.Label)
	node := label.Node(rev.Label, s.cfg.TLD)

	if err := s.collab.Tree.SetSubnodeOwner(ctx, parent, lh, rev.Owner); err != nil {
		warn("tree registry", err)
	}
	if rev.Resolver != "" {
		if err := s.collab.Tree.SetResolver(ctx, node, rev.Resolver); err != nil {
			warn("tree registry", err)
		}
		if len(rev.Records) > 0 {
			if err := s.collab.Resolver.BindRecords(ctx, node, rev.Resolver, rev.Records); err != nil {
				warn("resolver", err)
			}
		}
	}
	if rev.ReverseRecord {
		if err := s.collab.Reverse.SetName(ctx, rev.Owner, rev.Label+"."+s.cfg.TLD); err != nil {
			warn("reverse registrar", err)
		}
	}
	return warnings
}

// reveal assembles and validates the canonical reveal from request fields
func (s *Service) reveal(name, owner string, duration int64, secret, resolver string, records []string, reverse bool) (domain.Reveal, error) {
	lbl, err := label.Normalize(name)
	if err != nil {
		return domain.Reveal{}, err
	}
	sec, err := parseSecret(secret)
	if err != nil {
		return domain.Reveal{}, err
	}
	if _, err := rentalDuration(duration); err != nil {
		return domain.Reveal{}, err
	}
	return domain.Reveal{
		Label:         lbl,
		Owner:         owner,
		Duration:      duration,
		Secret:        sec,
		Resolver:      resolver,
		Records:       records,
		ReverseRecord: reverse,
	}, nil
}

func parseSecret(raw string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	if err != nil || len(b) != 32 {
		return out, perr.WithField(perr.InvalidArgf("secret must be 32 bytes of hex"), "secret")
	}
	copy(out[:], b)
	return out, nil
}

func parseDigest(raw string) (domain.Digest, error) {
	var out domain.Digest
	b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	if err != nil || len(b) != 32 {
		return out, perr.WithField(perr.InvalidArgf("commitment must be 32 bytes of hex"), "commitment")
	}
	copy(out[:], b)
	return out, nil
}

// maxRentalSeconds is the longest rental the int64 nanosecond clock can hold;
// anything above it would wrap negative when converted to a time.Duration
const maxRentalSeconds = math.MaxInt64 / int64(time.Second)

// rentalDuration converts a rental length in whole seconds to a time.Duration
func rentalDuration(secs int64) (time.Duration, error) {
	if secs <= 0 || secs > maxRentalSeconds {
		return 0, perr.WithField(
			perr.InvalidDurationf("duration must be between 1 and %d seconds", maxRentalSeconds), "duration")
	}
	return time.Duration(secs) * time.Second, nil
}

func parseAmount(raw string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, perr.WithField(perr.InvalidArgf("amount must be a non-negative integer in base units"), "payment")
	}
	return v, nil
}
