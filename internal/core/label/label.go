// Package label normalizes and hashes name labels
//
// A label is the human readable segment registered under the service TLD,
// e.g. "monadns" in monadns.mon. Hashing follows the namehash algorithm so
// node references line up with the tree registry and resolver collaborators.
package label

import (
	"strings"

	perr "monreg/internal/platform/errors"

	"golang.org/x/crypto/sha3"
	"golang.org/x/text/unicode/norm"
)

// MaxLen is the longest label we accept
const MaxLen = 63

// Normalize folds a raw label into canonical form: NFC, lowercased, and
// validated against the registrable charset (a-z, 0-9, hyphen, no hyphen
// at either end)
func Normalize(raw string) (string, error) {
	s := strings.ToLower(norm.NFC.String(strings.TrimSpace(raw)))
	if s == "" {
		return "", perr.InvalidArgf("empty label")
	}
	if len(s) > MaxLen {
		return "", perr.InvalidArgf("label exceeds %d characters", MaxLen)
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return "", perr.InvalidArgf("label cannot start or end with a hyphen")
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return "", perr.InvalidArgf("label contains invalid character %q", c)
		}
	}
	return s, nil
}

// Hash returns the keccak-256 labelhash of a normalized label
func Hash(label string) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(label))
	h.Sum(out[:0])
	return out
}

// Namehash computes the recursive node hash for a dotted name,
// e.g. Namehash("monadns.mon")
func Namehash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}
	parts := strings.Split(name, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		lh := Hash(parts[i])
		h := sha3.NewLegacyKeccak256()
		h.Write(node[:])
		h.Write(lh[:])
		h.Sum(node[:0])
	}
	return node
}

// Node returns the tree node for label under the given TLD
func Node(lbl, tld string) [32]byte {
	return Namehash(lbl + "." + tld)
}
