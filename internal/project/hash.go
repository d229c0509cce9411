package project

import (
	"crypto/sha256"
)

// Digest is a fixed 256-bit hash, layout-compatible with source.File.Hash.
type Digest [32]byte

// HashBytes digests raw file content.
func HashBytes(b []byte) Digest {
	return sha256.Sum256(b)
}

// Combine builds a composite digest: H(content || extra1 || extra2 ...).
// Callers must pass extras in a deterministic order.
func Combine(content Digest, extras ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range extras {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Zero reports whether the digest is all zeroes, the not-computed marker.
func (d Digest) Zero() bool {
	var z Digest
	return d == z
}
