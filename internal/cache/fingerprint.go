package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint derives the deterministic cache key for a differentiation
// request. normalized must be the canonical rendering of the expression
// (expr.Node.Normalize), not the raw input text: two spellings of the same
// expression hash identically only because normalization is stable.
func Fingerprint(normalized, variable, mode string) string {
	h := sha256.New()
	h.Write([]byte(normalized))
	h.Write([]byte{0})
	h.Write([]byte(variable))
	h.Write([]byte{0})
	h.Write([]byte(mode))
	return hex.EncodeToString(h.Sum(nil))
}
