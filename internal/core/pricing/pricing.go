// Package pricing computes rental prices from a per-length rate table
package pricing

import (
	"math/big"
	"sync"

	perr "monreg/internal/platform/errors"
)

// Oracle prices a label by length and rental duration
//
// The table holds per-second rates in base units: index 0 is the rate for
// 1-character labels, the last index is the floor applied to every longer
// label. Price is linear in duration.
type Oracle struct {
	mu    sync.RWMutex
	rates []*big.Int
}

// NewOracle builds an oracle from an initial rate table
func NewOracle(rates []*big.Int) (*Oracle, error) {
	o := &Oracle{}
	if err := o.SetRates(rates); err != nil {
		return nil, err
	}
	return o, nil
}

// Price returns rate(len(label)) * seconds in base units
// label length is clamped to the table, so exotic lengths hit the floor rate
func (o *Oracle) Price(label string, seconds int64) *big.Int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	idx := len(label) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(o.rates) {
		idx = len(o.rates) - 1
	}
	return new(big.Int).Mul(o.rates[idx], big.NewInt(seconds))
}

// SetRates replaces the whole table atomically
// an empty table is rejected, negative rates are rejected
func (o *Oracle) SetRates(rates []*big.Int) error {
	if len(rates) == 0 {
		return perr.InvalidArgf("rate table cannot be empty")
	}
	next := make([]*big.Int, len(rates))
	for i, r := range rates {
		if r == nil || r.Sign() < 0 {
			return perr.InvalidArgf("rate at index %d is invalid", i)
		}
		next[i] = new(big.Int).Set(r)
	}

	o.mu.Lock()
	o.rates = next
	o.mu.Unlock()
	return nil
}

// Rates returns a copy of the current table
func (o *Oracle) Rates() []*big.Int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]*big.Int, len(o.rates))
	for i, r := range o.rates {
		out[i] = new(big.Int).Set(r)
	}
	return out
}
