// Package domain defines the types and interfaces for the registrar service
package domain

import (
	"time"

	"monreg/internal/core/commitment"
)

// Registration is the ownership record for one name
type Registration struct {
	Name      string
	Owner     string
	ExpiresAt time.Time
}

// FullyExpired reports whether the grace window has also lapsed, making the
// name available to anyone
func (r Registration) FullyExpired(now time.Time, grace time.Duration) bool {
	return now.After(r.ExpiresAt.Add(grace))
}

// Commitment re-exports the stored commitment record
type Commitment = commitment.Record

// Reveal re-exports the commitment reveal parameter set
type Reveal = commitment.Reveal

// Digest re-exports the commitment digest
type Digest = commitment.Digest

// Event kinds emitted to the analytics feed
const (
	EventRegistered = "registered"
	EventRenewed    = "renewed"
	EventWithdrawn  = "withdrawn"
	EventReclaimed  = "reclaimed"
)

// Event is one row in the registrar activity feed
type Event struct {
	ID        string
	Kind      string
	Name      string
	Owner     string
	Cost      string
	ExpiresAt time.Time
	At        time.Time
}
