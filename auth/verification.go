package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/lynkr/lynkr-server/cache"
	"github.com/pkg/errors"
)

const (
	verificationTokenLength = 24
	verificationTTL         = 15 * time.Minute

	// verificationKeyPrefix keeps verification tokens in their own key
	// space, disjoint from session ids.
	verificationKeyPrefix = "verify:"
)

// VerificationManager issues and redeems single-use, time-boxed
// email-verification tokens. Only the SHA-256 of a token is stored; the raw
// token travels in the email link.
type VerificationManager struct {
	store cache.Store
}

// NewVerificationManager initializes a VerificationManager with its cache
// dependency.
func NewVerificationManager(store cache.Store) (*VerificationManager, error) {
	if store == nil {
		return nil, errors.New("[NewVerificationManager] cache store is required")
	}
	return &VerificationManager{store: store}, nil
}

// CreateVerificationToken issues a token for userID, valid for 15 minutes.
// The write is conditional on absence: an existing entry under the same key is
// never overwritten, and the caller gets ErrVerificationPending instead of a
// silently reissued link.
func (vm *VerificationManager) CreateVerificationToken(ctx context.Context, userID string) (string, error) {
	token, err := GenerateSecureRandomString(verificationTokenLength)
	if err != nil {
		return "", errors.Wrap(err, "[VerificationManager.CreateVerificationToken] generate token")
	}

	stored, err := vm.store.SetNX(ctx, verificationKey(token), userID, verificationTTL)
	if err != nil {
		return "", errors.Wrap(err, "[VerificationManager.CreateVerificationToken] store.SetNX")
	}
	if !stored {
		return "", ErrVerificationPending
	}

	return token, nil
}

// RedeemVerificationToken exchanges a raw token for its user id, consuming it.
// The cache entry is removed atomically with the read, so concurrent
// redemptions of the same token succeed at most once; the caller performs the
// actual verification-state update afterwards.
func (vm *VerificationManager) RedeemVerificationToken(ctx context.Context, token string) (string, error) {
	userID, ok, err := vm.store.GetDel(ctx, verificationKey(token))
	if err != nil {
		return "", errors.Wrap(err, "[VerificationManager.RedeemVerificationToken] store.GetDel")
	}
	if !ok {
		return "", ErrVerificationInvalid
	}
	return userID, nil
}

// verificationKey hashes the raw token so a cache dump does not expose live
// verification links.
func verificationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return verificationKeyPrefix + hex.EncodeToString(sum[:])
}
