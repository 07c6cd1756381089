package domain

import "context"

// RegistrarPort is the public protocol surface
type RegistrarPort interface {
	Available(ctx context.Context, in AvailableInput) (AvailableOutput, error)
	RentPrice(ctx context.Context, in RentPriceInput) (RentPriceOutput, error)
	MakeCommitment(ctx context.Context, in CommitmentInput) (CommitmentOutput, error)
	Commit(ctx context.Context, in CommitInput) (CommitOutput, error)
	Register(ctx context.Context, in RegisterInput) (RegisterOutput, error)
	Renew(ctx context.Context, in RenewInput) (RenewOutput, error)
}

// AdminPort is the owner-only surface
type AdminPort interface {
	Withdraw(ctx context.Context) (WithdrawOutput, error)
	SetRates(ctx context.Context, in SetRatesInput) error
	SetBaseURI(ctx context.Context, in SetBaseURIInput) error
	Reclaim(ctx context.Context, in ReclaimInput) (ReclaimOutput, error)
}
