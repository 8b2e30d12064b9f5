package auth_test

import (
	"strings"
	"testing"

	"github.com/lynkr/lynkr-server/auth"
	"github.com/stretchr/testify/require"
)

const randomAlphabet = "abcdefghijklmnpqrstuvwxyz23456789"

func TestGenerateSecureRandomStringLengths(t *testing.T) {
	for _, n := range []int{0, 1, 7, 24, 33, 100, 257} {
		s, err := auth.GenerateSecureRandomString(n)
		require.NoError(t, err)
		require.Len(t, s, n)
		for _, r := range s {
			require.Contains(t, randomAlphabet, string(r))
		}
	}
}

func TestGenerateSecureRandomStringZeroLength(t *testing.T) {
	s, err := auth.GenerateSecureRandomString(0)
	require.NoError(t, err)
	require.Equal(t, "", s)
}

func TestGenerateSecureRandomStringNegativeLength(t *testing.T) {
	_, err := auth.GenerateSecureRandomString(-1)
	require.Error(t, err)
}

func TestGenerateSecureRandomStringUniqueness(t *testing.T) {
	// Two 24-char draws colliding would mean a broken random source.
	a, err := auth.GenerateSecureRandomString(24)
	require.NoError(t, err)
	b, err := auth.GenerateSecureRandomString(24)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestGenerateSecureRandomStringCoversAlphabet(t *testing.T) {
	// A long enough draw should touch most of the alphabet; a stuck
	// generator (repeating one character) fails this immediately.
	s, err := auth.GenerateSecureRandomString(2000)
	require.NoError(t, err)

	seen := make(map[rune]bool)
	for _, r := range s {
		seen[r] = true
	}
	require.Greater(t, len(seen), len(randomAlphabet)/2)
	require.False(t, strings.ContainsAny(s, "01olABC:$"))
}
