package repo

import (
	"context"
	"math/big"
	"time"

	"monreg/internal/modkit/repokit"
	perr "monreg/internal/platform/errors"
	"monreg/internal/platform/store"
	"monreg/internal/services/registrar/domain"
)

type (
	pgLedger struct{ q repokit.Queryer }
	binder   struct{}
)

// NewPG constructs a ledger binder for Postgres
func NewPG() repokit.Binder[Ledger] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Ledger { return &pgLedger{q: q} }

// PGRunner runs ledger functions against Postgres, using one transaction
// per Atomic call so a failed operation leaves no partial writes
type PGRunner struct {
	db repokit.TxRunner
}

// NewPGRunner wraps a TxRunner in the registrar Runner contract
func NewPGRunner(db repokit.TxRunner) *PGRunner { return &PGRunner{db: db} }

// View implements Runner
func (r *PGRunner) View(ctx context.Context, fn func(Ledger) error) error {
	return fn(repokit.MustBind(NewPG(), r.db))
}

// Atomic implements Runner
func (r *PGRunner) Atomic(ctx context.Context, fn func(Ledger) error) error {
	return r.db.Tx(ctx, func(q repokit.Queryer) error {
		return fn(repokit.MustBind(NewPG(), q))
	})
}

// Registration implements Ledger
func (s *pgLedger) Registration(ctx context.Context, name string) (domain.Registration, error) {
	reg, err := store.One(ctx, s.q, func(r store.Row) (domain.Registration, error) {
		var out domain.Registration
		err := r.Scan(&out.Name, &out.Owner, &out.ExpiresAt)
		return out, err
	}, `SELECT name, owner, expires_at FROM registrations WHERE name = $1`, name)
	if err != nil {
		return domain.Registration{}, perr.FromPG(err)
	}
	return reg, nil
}

// PutRegistration implements Ledger, overwriting any stale record for name
func (s *pgLedger) PutRegistration(ctx context.Context, reg domain.Registration) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO registrations (name, owner, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET owner = EXCLUDED.owner, expires_at = EXCLUDED.expires_at`,
		reg.Name, reg.Owner, reg.ExpiresAt,
	)
	return perr.FromPG(err)
}

// Commitment implements Ledger
func (s *pgLedger) Commitment(ctx context.Context, d domain.Digest) (time.Time, error) {
	at, err := store.One(ctx, s.q, func(r store.Row) (time.Time, error) {
		var t time.Time
		err := r.Scan(&t)
		return t, err
	}, `SELECT submitted_at FROM commitments WHERE digest = $1`, d[:])
	if err != nil {
		return time.Time{}, perr.FromPG(err)
	}
	return at, nil
}

// PutCommitment implements Ledger; a duplicate digest surfaces as DuplicateKey
func (s *pgLedger) PutCommitment(ctx context.Context, d domain.Digest, submittedAt time.Time) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO commitments (digest, submitted_at) VALUES ($1, $2)`,
		d[:], submittedAt,
	)
	return perr.FromPG(err)
}

// DeleteCommitment implements Ledger
func (s *pgLedger) DeleteCommitment(ctx context.Context, d domain.Digest) error {
	_, err := s.q.Exec(ctx, `DELETE FROM commitments WHERE digest = $1`, d[:])
	return perr.FromPG(err)
}

// PurgeCommitmentsBefore implements Ledger
func (s *pgLedger) PurgeCommitmentsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM commitments WHERE submitted_at < $1`, cutoff)
	if err != nil {
		return 0, perr.FromPG(err)
	}
	return tag.RowsAffected(), nil
}

// Funds implements Ledger
func (s *pgLedger) Funds(ctx context.Context) (*big.Int, error) {
	raw, err := store.Scalar[string](ctx, s.q,
		`SELECT COALESCE((SELECT balance::text FROM registrar_funds WHERE id = 1), '0')`)
	if err != nil {
		return nil, perr.FromPG(err)
	}
	bal, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, perr.DBf("registrar_funds holds a non-integer balance %q", raw)
	}
	return bal, nil
}

// AddFunds implements Ledger
func (s *pgLedger) AddFunds(ctx context.Context, delta *big.Int) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO registrar_funds (id, balance) VALUES (1, $1::numeric)
		ON CONFLICT (id) DO UPDATE SET balance = registrar_funds.balance + EXCLUDED.balance`,
		delta.String(),
	)
	return perr.FromPG(err)
}

// SetFunds implements Ledger
func (s *pgLedger) SetFunds(ctx context.Context, balance *big.Int) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO registrar_funds (id, balance) VALUES (1, $1::numeric)
		ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance`,
		balance.String(),
	)
	return perr.FromPG(err)
}

// BaseURI implements Ledger, empty string when unset
func (s *pgLedger) BaseURI(ctx context.Context) (string, error) {
	uri, err := store.Scalar[string](ctx, s.q,
		`SELECT COALESCE((SELECT value FROM registrar_meta WHERE key = 'base_uri'), '')`)
	if err != nil {
		return "", perr.FromPG(err)
	}
	return uri, nil
}

// SetBaseURI implements Ledger
func (s *pgLedger) SetBaseURI(ctx context.Context, uri string) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO registrar_meta (key, value) VALUES ('base_uri', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		uri,
	)
	return perr.FromPG(err)
}
