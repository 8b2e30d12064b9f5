package server

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lynkr/lynkr-server/auth"
	"github.com/lynkr/lynkr-server/internal/errors"
	"github.com/lynkr/lynkr-server/users"
)

// maxUsernameAttempts bounds the generated-username retry loop on register.
const maxUsernameAttempts = 10

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		email := normalizeEmail(req.Email)
		if msg := validateRegistration(req.Name, email, req.Password); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		passwordHash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Error().Err(err).Msg("password hashing failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		user := &users.User{
			Name:         req.Name,
			Email:        email,
			PasswordHash: passwordHash,
			Role:         users.RoleUser,
		}

		created := false
		for attempt := 1; attempt <= maxUsernameAttempts; attempt++ {
			username, err := generateUsername(email)
			if err != nil {
				log.Error().Err(err).Msg("username generation failed")
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			user.Username = username

			err = s.users.Create(r.Context(), user)
			if err == nil {
				created = true
				break
			}
			if errors.Is(err, users.ErrDuplicateEmail) {
				writeError(w, http.StatusConflict, "email already registered")
				return
			}
			if errors.Is(err, users.ErrDuplicateUsername) {
				log.Warn().Int("attempt", attempt).Msg("username collision, retrying")
				continue
			}
			log.Error().Err(err).Msg("user creation failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !created {
			log.Error().Str("email", maskEmail(email)).Msg("username attempts exhausted")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		// Verification email delivery is best effort: the account exists
		// either way, and the user can request a resend.
		s.sendVerificationEmail(r, user)

		writeJSON(w, http.StatusCreated, user.Safe())
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		email := normalizeEmail(req.Email)

		user, err := s.users.GetByEmail(r.Context(), email)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				// Same response as a bad password: no account probing.
				writeError(w, http.StatusUnauthorized, "invalid email or password")
				return
			}
			log.Error().Err(err).Msg("user lookup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
		if err != nil {
			log.Error().Err(err).Msg("password verification failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		session, err := s.sessions.CreateSession(r.Context(), user.ID)
		if err != nil {
			log.Error().Err(err).Msg("session creation failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		s.setSessionCookie(w, session.Token)
		writeJSON(w, http.StatusOK, user.Safe())
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			// The session record is keyed by the public id half of the
			// token; no need to validate the secret to delete it.
			sessionID, _, _ := strings.Cut(cookie.Value, ":")
			if err := s.sessions.DeleteSession(r.Context(), sessionID); err != nil {
				log.Error().Err(err).Msg("session deletion failed")
			}
		}

		s.clearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := s.users.GetByID(r.Context(), session.UserID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				// Session outlived the account.
				writeError(w, http.StatusUnauthorized, "invalid session")
				return
			}
			log.Error().Err(err).Msg("user lookup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, user.Safe())
	}
}

func (s *Server) CheckEmailHandler() http.HandlerFunc {
	type checkEmailRequest struct {
		Email string `json:"email"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkEmailRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		email := normalizeEmail(req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			writeError(w, http.StatusBadRequest, "invalid email address")
			return
		}

		_, err := s.users.GetByEmail(r.Context(), email)
		available := false
		switch {
		case errors.Is(err, users.ErrNotFound):
			available = true
		case err != nil:
			log.Error().Err(err).Msg("email availability lookup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		log.Info().Str("email", maskEmail(email)).Bool("available", available).Msg("email availability check")
		writeJSON(w, http.StatusOK, map[string]bool{"available": available})
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password string) string {
	if len(name) < 2 || len(name) > 255 {
		return "name must be between 2 and 255 characters"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "invalid email address"
	}
	if len(password) < 8 || len(password) > 64 {
		return "password must be between 8 and 64 characters"
	}
	return ""
}

// generateUsername derives a username from the email local part plus a random
// suffix, so two registrations from similar addresses do not fight over the
// same name.
func generateUsername(email string) (string, error) {
	local, _, _ := strings.Cut(email, "@")

	var base strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			base.WriteRune(r)
		}
		if base.Len() == 10 {
			break
		}
	}
	if base.Len() == 0 {
		base.WriteString("user")
	}

	suffix, err := auth.GenerateSecureRandomString(4)
	if err != nil {
		return "", err
	}
	return base.String() + suffix, nil
}
