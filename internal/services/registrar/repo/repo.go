// Package repo provides the registrar storage implementations
package repo

import (
	"context"
	"math/big"
	"time"

	"monreg/internal/services/registrar/domain"
)

// Ledger is the storage surface a single registrar operation sees
//
// Registration and Commitment return perr.ErrNotFound when the row is absent
type Ledger interface {
	Registration(ctx context.Context, name string) (domain.Registration, error)
	PutRegistration(ctx context.Context, reg domain.Registration) error

	Commitment(ctx context.Context, d domain.Digest) (time.Time, error)
	PutCommitment(ctx context.Context, d domain.Digest, submittedAt time.Time) error
	DeleteCommitment(ctx context.Context, d domain.Digest) error
	PurgeCommitmentsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	Funds(ctx context.Context) (*big.Int, error)
	AddFunds(ctx context.Context, delta *big.Int) error
	SetFunds(ctx context.Context, balance *big.Int) error

	BaseURI(ctx context.Context) (string, error)
	SetBaseURI(ctx context.Context, uri string) error
}

// Runner executes ledger access with the atomicity the protocol requires:
// Atomic applies fn all-or-nothing, View is a plain read path
type Runner interface {
	View(ctx context.Context, fn func(Ledger) error) error
	Atomic(ctx context.Context, fn func(Ledger) error) error
}
