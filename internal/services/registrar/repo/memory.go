package repo

import (
	"context"
	"math/big"
	"sync"
	"time"

	perr "monreg/internal/platform/errors"
	"monreg/internal/services/registrar/domain"
)

// Memory is an in-process Runner for tests and dev mode
//
// Atomic runs fn against a deep copy of the state and swaps it in only when
// fn succeeds, so a failed operation leaves nothing behind. A single mutex
// serializes all mutations, which is exactly the sequential state machine
// the commit-reveal protocol assumes.
type Memory struct {
	mu sync.RWMutex
	st *memState
}

type memState struct {
	regs    map[string]domain.Registration
	commits map[domain.Digest]time.Time
	funds   *big.Int
	baseURI string
}

// NewMemory returns an empty in-memory runner
func NewMemory() *Memory {
	return &Memory{st: &memState{
		regs:    map[string]domain.Registration{},
		commits: map[domain.Digest]time.Time{},
		funds:   new(big.Int),
	}}
}

func (s *memState) clone() *memState {
	regs := make(map[string]domain.Registration, len(s.regs))
	for k, v := range s.regs {
		regs[k] = v
	}
	commits := make(map[domain.Digest]time.Time, len(s.commits))
	for k, v := range s.commits {
		commits[k] = v
	}
	return &memState{
		regs:    regs,
		commits: commits,
		funds:   new(big.Int).Set(s.funds),
		baseURI: s.baseURI,
	}
}

// View implements Runner
func (m *Memory) View(ctx context.Context, fn func(Ledger) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memLedger{st: m.st})
}

// Atomic implements Runner with snapshot-or-rollback semantics
func (m *Memory) Atomic(ctx context.Context, fn func(Ledger) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := m.st.clone()
	if err := fn(&memLedger{st: staged}); err != nil {
		return err
	}
	m.st = staged
	return nil
}

// memLedger implements Ledger over a memState
type memLedger struct{ st *memState }

func (l *memLedger) Registration(_ context.Context, name string) (domain.Registration, error) {
	reg, ok := l.st.regs[name]
	if !ok {
		return domain.Registration{}, perr.ErrNotFound
	}
	return reg, nil
}

func (l *memLedger) PutRegistration(_ context.Context, reg domain.Registration) error {
	l.st.regs[reg.Name] = reg
	return nil
}

func (l *memLedger) Commitment(_ context.Context, d domain.Digest) (time.Time, error) {
	at, ok := l.st.commits[d]
	if !ok {
		return time.Time{}, perr.ErrNotFound
	}
	return at, nil
}

func (l *memLedger) PutCommitment(_ context.Context, d domain.Digest, submittedAt time.Time) error {
	if _, ok := l.st.commits[d]; ok {
		return perr.DuplicateKeyf("commitment already exists")
	}
	l.st.commits[d] = submittedAt
	return nil
}

func (l *memLedger) DeleteCommitment(_ context.Context, d domain.Digest) error {
	delete(l.st.commits, d)
	return nil
}

func (l *memLedger) PurgeCommitmentsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for d, at := range l.st.commits {
		if at.Before(cutoff) {
			delete(l.st.commits, d)
			n++
		}
	}
	return n, nil
}

func (l *memLedger) Funds(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(l.st.funds), nil
}

func (l *memLedger) AddFunds(_ context.Context, delta *big.Int) error {
	l.st.funds.Add(l.st.funds, delta)
	return nil
}

func (l *memLedger) SetFunds(_ context.Context, balance *big.Int) error {
	l.st.funds.Set(balance)
	return nil
}

func (l *memLedger) BaseURI(_ context.Context) (string, error) {
	return l.st.baseURI, nil
}

func (l *memLedger) SetBaseURI(_ context.Context, uri string) error {
	l.st.baseURI = uri
	return nil
}
