package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lynkr/lynkr-server/auth"
	"github.com/lynkr/lynkr-server/internal/errors"
	"github.com/lynkr/lynkr-server/mailer"
	"github.com/lynkr/lynkr-server/users"
)

// VerifyEmailHandler redeems the token from the emailed link and redirects
// back to the frontend login page. The token is consumed before the user
// record is touched, so a replayed link can never re-trigger the update.
func (s *Server) VerifyEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invalidURL := s.config.GetFrontendURL() + "/login?verify=invalid"
		successURL := s.config.GetFrontendURL() + "/login?verify=success"

		token := r.URL.Query().Get("token")
		if token == "" {
			http.Redirect(w, r, invalidURL, http.StatusFound)
			return
		}

		userID, err := s.verifications.RedeemVerificationToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrVerificationInvalid) {
				http.Redirect(w, r, invalidURL, http.StatusFound)
				return
			}
			log.Error().Err(err).Msg("verification redemption failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		rows, err := s.users.SetVerifiedByID(r.Context(), userID)
		if err != nil {
			log.Error().Err(err).Str("userId", userID).Msg("verification update failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if rows == 0 {
			// Already verified, or the account is gone. Either way the
			// outcome the user cares about holds.
			log.Debug().Str("userId", userID).Msg("verification update touched no rows")
		}

		http.Redirect(w, r, successURL, http.StatusFound)
	}
}

func (s *Server) ResendVerificationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := s.users.GetByID(r.Context(), session.UserID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid session")
				return
			}
			log.Error().Err(err).Msg("user lookup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if user.Verified {
			writeError(w, http.StatusBadRequest, "email already verified")
			return
		}

		token, err := s.verifications.CreateVerificationToken(r.Context(), user.ID)
		if err != nil {
			if errors.Is(err, auth.ErrVerificationPending) {
				writeError(w, http.StatusConflict, "verification already pending")
				return
			}
			log.Error().Err(err).Msg("verification token creation failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		subject, htmlBody, textBody := mailer.VerificationEmail(s.config.GetAppName(), s.verifyURL(token))
		if err := s.mail.Send(r.Context(), user.Email, subject, htmlBody, textBody); err != nil {
			log.Error().Err(err).Str("email", maskEmail(user.Email)).Msg("verification email send failed")
			writeError(w, http.StatusInternalServerError, "failed to send verification email")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "verification email sent"})
	}
}

// sendVerificationEmail issues a token for a new user and emails the link.
// Failures are logged, never fatal: registration already succeeded.
func (s *Server) sendVerificationEmail(r *http.Request, user *users.User) {
	token, err := s.verifications.CreateVerificationToken(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("email", maskEmail(user.Email)).Msg("verification token creation failed")
		return
	}

	subject, htmlBody, textBody := mailer.VerificationEmail(s.config.GetAppName(), s.verifyURL(token))
	if err := s.mail.Send(r.Context(), user.Email, subject, htmlBody, textBody); err != nil {
		log.Error().Err(err).Str("email", maskEmail(user.Email)).Msg("verification email send failed")
	}
}

func (s *Server) verifyURL(token string) string {
	return s.config.GetBaseURL() + RouteVerifyEmail + "?token=" + token
}
