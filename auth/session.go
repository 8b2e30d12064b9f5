// Package auth implements session-token authentication with hashed-secret
// storage and single-use email-verification tokens. Session and token state
// lives in an external cache; nothing in this package holds mutable state
// between calls.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/lynkr/lynkr-server/cache"
	"github.com/pkg/errors"
)

const (
	sessionIDLength     = 24
	sessionSecretLength = 24

	// SessionTTL is the session lifetime. The cache entry expires with it,
	// so there is no cleanup job; it is exported because the cookie
	// max-age must match.
	SessionTTL = 24 * time.Hour
)

// Session is the server-side session record as stored in the cache. Only the
// SHA-256 digest of the secret is kept; the raw secret exists solely in the
// token handed to the client at creation time.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	HashedSecret string    `json:"hashedSecret"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionWithToken is a freshly created session plus the composite client
// token "id:secret". The token is never persisted or serialized.
type SessionWithToken struct {
	Session
	Token string `json:"-"`
}

// SessionManager creates, validates, and deletes sessions against the cache.
// Safe for concurrent use.
type SessionManager struct {
	store   cache.Store
	nowTime func() time.Time
}

// SessionManagerOption modifies a SessionManager.
type SessionManagerOption func(*SessionManager)

// WithSessionNowTime sets the clock function (primarily for testing).
func WithSessionNowTime(nowFunc func() time.Time) SessionManagerOption {
	return func(sm *SessionManager) {
		sm.nowTime = nowFunc
	}
}

// NewSessionManager initializes a SessionManager with its cache dependency.
func NewSessionManager(store cache.Store, options ...SessionManagerOption) (*SessionManager, error) {
	if store == nil {
		return nil, errors.New("[NewSessionManager] cache store is required")
	}

	sm := &SessionManager{
		store:   store,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(sm)
	}
	return sm, nil
}

// CreateSession mints a session for userID and stores its record under the
// public id with a 24h expiry. The returned token is the only copy of the raw
// secret that will ever exist.
func (sm *SessionManager) CreateSession(ctx context.Context, userID string) (*SessionWithToken, error) {
	id, err := GenerateSecureRandomString(sessionIDLength)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionManager.CreateSession] generate id")
	}
	secret, err := GenerateSecureRandomString(sessionSecretLength)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionManager.CreateSession] generate secret")
	}

	session := Session{
		ID:           id,
		UserID:       userID,
		HashedSecret: base64.StdEncoding.EncodeToString(HashSecret(secret)),
		CreatedAt:    sm.nowTime().UTC(),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionManager.CreateSession] marshal session")
	}
	if err := sm.store.Set(ctx, id, string(payload), SessionTTL); err != nil {
		return nil, errors.Wrap(err, "[SessionManager.CreateSession] store.Set")
	}

	return &SessionWithToken{Session: session, Token: id + ":" + secret}, nil
}

// ValidateSessionToken resolves a client token back to its session. Every
// authentication failure returns ErrSessionInvalid; a cache fault propagates
// as a distinct error and must not be treated as "unauthenticated".
func (sm *SessionManager) ValidateSessionToken(ctx context.Context, token string) (*Session, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return nil, ErrSessionInvalid
	}
	sessionID, sessionSecret := parts[0], parts[1]

	payload, ok, err := sm.store.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionManager.ValidateSessionToken] store.Get")
	}
	if !ok {
		return nil, ErrSessionInvalid
	}

	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, errors.Wrap(err, "[SessionManager.ValidateSessionToken] unmarshal session")
	}
	storedHash, err := base64.StdEncoding.DecodeString(session.HashedSecret)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionManager.ValidateSessionToken] decode stored hash")
	}

	if !ConstantTimeEqual(HashSecret(sessionSecret), storedHash) {
		return nil, ErrSessionInvalid
	}

	return &session, nil
}

// DeleteSession removes the session record. Deleting an unknown or already
// expired session is not an error.
func (sm *SessionManager) DeleteSession(ctx context.Context, sessionID string) error {
	if err := sm.store.Del(ctx, sessionID); err != nil {
		return errors.Wrap(err, "[SessionManager.DeleteSession] store.Del")
	}
	return nil
}
