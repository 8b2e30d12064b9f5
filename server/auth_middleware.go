package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lynkr/lynkr-server/auth"
	"github.com/lynkr/lynkr-server/internal/errors"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the authenticated *auth.Session
const ContextKeySession ContextKey = "session"

// sessionCookieName is the cookie carrying the composite "id:secret" token.
const sessionCookieName = "session_token"

// RequireSession is middleware for API routes that validates the session
// cookie and injects the session into the request context. Invalid or missing
// credentials get 401; a cache fault is a 500, never a 401.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			session, err := s.sessions.ValidateSessionToken(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, auth.ErrSessionInvalid) {
					writeError(w, http.StatusUnauthorized, "invalid session")
					return
				}
				log.Error().Err(err).Msg("session validation failed")
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}

// SessionFromContext retrieves the session injected by RequireSession.
func SessionFromContext(ctx context.Context) (*auth.Session, bool) {
	session, ok := ctx.Value(ContextKeySession).(*auth.Session)
	return session, ok
}

// sessionFromRequest resolves the session cookie without requiring it. Used
// by routes where authentication is optional: no cookie means anonymous, a
// bad cookie is still rejected so a client never silently loses ownership.
func (s *Server) sessionFromRequest(r *http.Request) (*auth.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, nil
	}
	return s.sessions.ValidateSessionToken(r.Context(), cookie.Value)
}
