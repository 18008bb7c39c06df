// Package checksum computes the content hashes used for media integrity
// and as the building block of manifest checksums.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Size is the length of a hex-encoded checksum.
const Size = sha256.Size * 2

// Sum returns the lowercase hex SHA-256 of b. The result is always Size characters.
func Sum(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// SumString returns Sum over the UTF-8 bytes of s.
func SumString(s string) string {
	return Sum([]byte(s))
}

// Valid reports whether s has the shape of a checksum: exactly Size lowercase hex characters.
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
