package auth

import (
	"crypto/rand"

	"github.com/pkg/errors"
)

// randomAlphabet is the character set for generated identifiers and secrets.
// Lowercase letters and digits with the ambiguous characters removed, so the
// strings survive being read aloud or retyped from an email.
const randomAlphabet = "abcdefghijklmnpqrstuvwxyz23456789"

// randomChunkSize is how many bytes are drawn from the CSPRNG per round.
const randomChunkSize = 24

// GenerateSecureRandomString returns a string of exactly n characters drawn
// uniformly from randomAlphabet. Bytes at or above the largest multiple of the
// alphabet size are rejected before the modulo step, so no character is more
// likely than any other.
func GenerateSecureRandomString(n int) (string, error) {
	if n < 0 {
		return "", errors.New("[GenerateSecureRandomString] length must be non-negative")
	}
	if n == 0 {
		return "", nil
	}

	threshold := 256 - (256 % len(randomAlphabet))

	out := make([]byte, 0, n)
	buf := make([]byte, randomChunkSize)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Wrap(err, "[GenerateSecureRandomString] rand.Read")
		}
		for _, b := range buf {
			if int(b) >= threshold {
				continue
			}
			out = append(out, randomAlphabet[int(b)%len(randomAlphabet)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}
