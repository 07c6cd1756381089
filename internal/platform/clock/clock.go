// Package clock injects time into the registrar so the commit-reveal windows
// and expiry arithmetic stay deterministic under test
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC
type System struct{}

// Now implements Clock
func (System) Now() time.Time { return time.Now().UTC() }

// Manual is a hand-advanced clock for tests and replay.
// It never moves backwards; Set with an earlier instant is ignored.
type Manual struct {
	mu sync.Mutex
	t  time.Time
}

// NewManual returns a Manual clock starting at t
func NewManual(t time.Time) *Manual { return &Manual{t: t.UTC()} }

// Now implements Clock
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

// Advance moves the clock forward by d; negative d is ignored
func (m *Manual) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	m.mu.Lock()
	m.t = m.t.Add(d)
	m.mu.Unlock()
}

// Set jumps to t when t is not before the current instant
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	if t.After(m.t) {
		m.t = t.UTC()
	}
	m.mu.Unlock()
}
