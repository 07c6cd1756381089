package repo

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	perr "monreg/internal/platform/errors"
	"monreg/internal/services/registrar/domain"
)

func TestMemoryAtomicCommitsOnSuccess(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()
	exp := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	err := m.Atomic(ctx, func(l Ledger) error {
		if err := l.PutRegistration(ctx, domain.Registration{Name: "monadns", Owner: "alice", ExpiresAt: exp}); err != nil {
			return err
		}
		return l.AddFunds(ctx, big.NewInt(500))
	})
	if err != nil {
		t.Fatalf("Atomic: %v", err)
	}

	err = m.View(ctx, func(l Ledger) error {
		reg, err := l.Registration(ctx, "monadns")
		if err != nil {
			return err
		}
		if reg.Owner != "alice" || !reg.ExpiresAt.Equal(exp) {
			t.Errorf("unexpected registration %+v", reg)
		}
		bal, err := l.Funds(ctx)
		if err != nil {
			return err
		}
		if bal.Cmp(big.NewInt(500)) != 0 {
			t.Errorf("funds=%s want 500", bal)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestMemoryAtomicRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()
	boom := errors.New("boom")

	err := m.Atomic(ctx, func(l Ledger) error {
		if err := l.PutRegistration(ctx, domain.Registration{Name: "monadns", Owner: "alice"}); err != nil {
			return err
		}
		if err := l.AddFunds(ctx, big.NewInt(500)); err != nil {
			return err
		}
		var d domain.Digest
		if err := l.PutCommitment(ctx, d, time.Now()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Atomic err=%v want boom", err)
	}

	// nothing from the failed mutation may be visible
	err = m.View(ctx, func(l Ledger) error {
		if _, err := l.Registration(ctx, "monadns"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Errorf("registration leaked from rolled back tx: %v", err)
		}
		var d domain.Digest
		if _, err := l.Commitment(ctx, d); !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Errorf("commitment leaked from rolled back tx: %v", err)
		}
		bal, err := l.Funds(ctx)
		if err != nil {
			return err
		}
		if bal.Sign() != 0 {
			t.Errorf("funds leaked from rolled back tx: %s", bal)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestMemoryDuplicateCommitmentRejected(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()
	var d domain.Digest
	d[0] = 7

	first := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if err := m.Atomic(ctx, func(l Ledger) error {
		return l.PutCommitment(ctx, d, first)
	}); err != nil {
		t.Fatalf("first commit: %v", err)
	}

	err := m.Atomic(ctx, func(l Ledger) error {
		return l.PutCommitment(ctx, d, first.Add(time.Hour))
	})
	if !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		t.Fatalf("duplicate commit err=%v want DuplicateKey", err)
	}

	// timer must not have been reset by the rejected overwrite
	_ = m.View(ctx, func(l Ledger) error {
		at, err := l.Commitment(ctx, d)
		if err != nil {
			t.Fatalf("Commitment: %v", err)
		}
		if !at.Equal(first) {
			t.Errorf("submittedAt=%v want %v", at, first)
		}
		return nil
	})
}

func TestMemoryPurgeCommitmentsBefore(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	var old, fresh domain.Digest
	old[0], fresh[0] = 1, 2

	_ = m.Atomic(ctx, func(l Ledger) error {
		_ = l.PutCommitment(ctx, old, base)
		_ = l.PutCommitment(ctx, fresh, base.Add(48*time.Hour))
		return nil
	})

	err := m.Atomic(ctx, func(l Ledger) error {
		n, err := l.PurgeCommitmentsBefore(ctx, base.Add(24*time.Hour))
		if err != nil {
			return err
		}
		if n != 1 {
			t.Errorf("purged %d want 1", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Atomic: %v", err)
	}

	_ = m.View(ctx, func(l Ledger) error {
		if _, err := l.Commitment(ctx, old); !perr.IsCode(err, perr.ErrorCodeNotFound) {
			t.Errorf("stale commitment survived purge: %v", err)
		}
		if _, err := l.Commitment(ctx, fresh); err != nil {
			t.Errorf("fresh commitment lost in purge: %v", err)
		}
		return nil
	})
}
