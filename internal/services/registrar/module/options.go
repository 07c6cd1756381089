package module

import (
	"time"

	"monreg/internal/platform/config"
)

// Options holds configuration settings for the registrar module
type Options struct {
	// TLD names register under, without the dot
	TLD string

	// commit-reveal window
	MinCommitmentAge time.Duration
	MaxCommitmentAge time.Duration

	// expiry policy
	GracePeriod time.Duration
	MinDuration time.Duration

	// Rates are decimal base-unit prices per second, index 0 covers
	// one-character labels; the last entry floors everything longer
	Rates []string

	// Store selects the ledger backend, "pg" or "memory"
	Store string

	// TxTimeout caps each ledger transaction on the pg backend
	TxTimeout time.Duration

	// AdminToken guards the /admin routes; empty disables them
	AdminToken string

	// OwnerPrincipal is the identity the admin token authenticates as
	OwnerPrincipal string

	// collaborator base URLs; empty means no-op
	TreeURL     string
	ResolverURL string
	ReverseURL  string

	// per client rate limit on mutating endpoints; 0 disables
	RateRPS   float64
	RateBurst int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	rf := cfg.Prefix("REGISTRAR_")
	return Options{
		TLD:              rf.MayString("TLD", "mon"),
		MinCommitmentAge: rf.MayDuration("MIN_COMMITMENT_AGE", time.Minute),
		MaxCommitmentAge: rf.MayDuration("MAX_COMMITMENT_AGE", 24*time.Hour),
		GracePeriod:      rf.MayDuration("GRACE_PERIOD", 90*24*time.Hour),
		MinDuration:      rf.MayDuration("MIN_DURATION", 28*24*time.Hour),
		Rates:            rf.MayCSV("RATES", []string{"5"}),
		Store:            rf.MayString("STORE", "pg"),
		TxTimeout:        rf.MayDuration("TX_TIMEOUT", 5*time.Second),
		AdminToken:       rf.MayString("ADMIN_TOKEN", ""),
		OwnerPrincipal:   rf.MayString("OWNER_PRINCIPAL", "owner"),
		TreeURL:          rf.MayString("TREE_URL", ""),
		ResolverURL:      rf.MayString("RESOLVER_URL", ""),
		ReverseURL:       rf.MayString("REVERSE_URL", ""),
		RateRPS:          float64(rf.MayInt("RATE_RPS", 0)),
		RateBurst:        rf.MayInt("RATE_BURST", 20),
	}
}
