// Package checksum fingerprints note collections.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Fields accumulates string fields into a SHA-256 digest. Each field is
// terminated by a NUL byte so ("ab", "c") and ("a", "bc") differ.
type Fields struct {
	h hash.Hash
}

// New returns an empty Fields digest.
func New() *Fields {
	return &Fields{h: sha256.New()}
}

// Add appends fields to the digest.
func (f *Fields) Add(fields ...string) {
	for _, s := range fields {
		f.h.Write([]byte(s))
		f.h.Write([]byte{0})
	}
}

// Hex returns the hex-encoded digest of everything added so far.
func (f *Fields) Hex() string {
	return hex.EncodeToString(f.h.Sum(nil))
}
