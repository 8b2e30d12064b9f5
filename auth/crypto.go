package auth

import "crypto/sha256"

// HashSecret returns the SHA-256 digest of a secret. Deterministic on purpose:
// the digest is what gets stored, so a presented secret can be verified later
// without the raw secret ever being written anywhere.
func HashSecret(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// ConstantTimeEqual reports whether a and b are equal without leaking where
// they differ. Only the length check may short-circuit; the loop always visits
// every byte and folds the differences into a single accumulator.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var c byte
	for i := range a {
		c |= a[i] ^ b[i]
	}
	return c == 0
}
