package auth

import "errors"

var (
	// ErrSessionInvalid covers every way a session token can fail
	// authentication: malformed shape, unknown or expired id, secret
	// mismatch. One value for all of them so callers cannot tell (and
	// cannot leak) which half of the token was wrong. Infrastructure
	// faults are never mapped to this error.
	ErrSessionInvalid = errors.New("invalid session token")

	// ErrVerificationPending means an unexpired verification token already
	// exists for the user. The outstanding link stays valid; issuing a
	// second one is refused rather than silently dropped.
	ErrVerificationPending = errors.New("verification token already pending")

	// ErrVerificationInvalid means the presented verification token is
	// unknown, expired, or already redeemed.
	ErrVerificationInvalid = errors.New("invalid verification token")
)
