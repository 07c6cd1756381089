// Package commitment implements the blinded-intent digest for commit-reveal
//
// A client hashes its full reveal off-band, submits only the digest, then
// later reveals the fields. The digest must be reproducible bit-for-bit
// from the reveal, so the encoding below is canonical: fixed field order,
// big-endian integers, length-prefixed strings.
package commitment

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/sha3"
)

// Digest is a 32-byte commitment hash
type Digest [32]byte

// Reveal is the full parameter set a commitment blinds
type Reveal struct {
	Label         string
	Owner         string
	Duration      int64 // seconds
	Secret        [32]byte
	Resolver      string
	Records       []string
	ReverseRecord bool
}

// Compute returns the keccak-256 digest of the canonical encoding of r
func Compute(r Reveal) Digest {
	h := sha3.NewLegacyKeccak256()

	writeString(h, r.Label)
	writeString(h, r.Owner)

	var u64 [8]byte
	binary.BigEndian.PutUint64(u64[:], uint64(r.Duration))
	h.Write(u64[:])

	h.Write(r.Secret[:])
	writeString(h, r.Resolver)

	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], uint32(len(r.Records)))
	h.Write(u32[:])
	for _, rec := range r.Records {
		writeString(h, rec)
	}

	if r.ReverseRecord {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	var out Digest
	h.Sum(out[:0])
	return out
}

func writeString(h interface{ Write([]byte) (int, error) }, s string) {
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], uint32(len(s)))
	h.Write(u32[:])
	h.Write([]byte(s))
}

// Record is a stored commitment: the digest and when it was submitted
type Record struct {
	Digest      Digest
	SubmittedAt time.Time
}

// Window bounds the age inside which a commitment is consumable
type Window struct {
	MinAge time.Duration
	MaxAge time.Duration
}

// Status classifies a stored commitment against the window at time now
type Status int

// Status values, in chronological order of a commitment's life
const (
	StatusTooNew Status = iota
	StatusReady
	StatusTooOld
)

// Check returns where a commitment submitted at submittedAt sits in the
// window as of now
func (w Window) Check(submittedAt, now time.Time) Status {
	switch {
	case now.Before(submittedAt.Add(w.MinAge)):
		return StatusTooNew
	case now.After(submittedAt.Add(w.MaxAge)):
		return StatusTooOld
	default:
		return StatusReady
	}
}
