package server

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lynkr/lynkr-server/auth"
	"github.com/lynkr/lynkr-server/internal/errors"
	"github.com/lynkr/lynkr-server/links"
)

const (
	// redirectKeyPrefix namespaces redirect-cache entries away from
	// session and verification keys.
	redirectKeyPrefix = "slug:"
	redirectCacheTTL  = time.Hour
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

type shortenRequest struct {
	URL      string `json:"url"`
	Slug     string `json:"slug,omitempty"`
	Password string `json:"password,omitempty"`
}

type shortenResponse struct {
	Slug     string `json:"slug"`
	ShortURL string `json:"shortUrl"`
	Target   string `json:"targetUrl"`
}

func (s *Server) ShortenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Authentication is optional here. Anonymous links have no owner;
		// a present but invalid cookie is still rejected so a logged-in
		// client never silently creates links it cannot manage.
		session, err := s.sessionFromRequest(r)
		if err != nil {
			if errors.Is(err, auth.ErrSessionInvalid) {
				writeError(w, http.StatusUnauthorized, "invalid session")
				return
			}
			log.Error().Err(err).Msg("session validation failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		var req shortenRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		target, err := normalizeTargetURL(req.URL)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid url")
			return
		}

		link := &links.Link{TargetURL: target}
		if session != nil {
			link.UserID = session.UserID
		}
		if req.Password != "" {
			passwordHash, err := auth.HashPassword(req.Password)
			if err != nil {
				log.Error().Err(err).Msg("password hashing failed")
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			link.PasswordProtected = true
			link.PasswordHash = passwordHash
		}

		if req.Slug != "" {
			if !slugPattern.MatchString(req.Slug) || req.Slug == "api" {
				writeError(w, http.StatusBadRequest, "invalid slug")
				return
			}
			link.Slug = req.Slug
			err = s.shortener.CreateCustom(r.Context(), link)
		} else {
			err = s.shortener.CreateGenerated(r.Context(), link)
		}
		if err != nil {
			switch {
			case errors.Is(err, links.ErrDuplicateSlug):
				writeError(w, http.StatusConflict, "slug already taken")
			case errors.Is(err, links.ErrSlugExhausted):
				log.Error().Err(err).Msg("generated slug budget exhausted")
				writeError(w, http.StatusInternalServerError, "internal server error")
			default:
				log.Error().Err(err).Msg("link creation failed")
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, shortenResponse{
			Slug:     link.Slug,
			ShortURL: s.config.GetBaseURL() + "/" + link.Slug,
			Target:   link.TargetURL,
		})
	}
}

// RedirectHandler serves the public short URL. The cache is consulted first;
// on a miss the database answers and the cache is refilled off the request
// path.
func (s *Server) RedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("slug")

		target, ok, err := s.store.Get(r.Context(), redirectKeyPrefix+slug)
		if err != nil {
			log.Error().Err(err).Str("slug", slug).Msg("redirect cache lookup failed")
		}
		if ok {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}

		link, err := s.links.GetBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, links.ErrNotFound) {
				writeError(w, http.StatusNotFound, "link not found")
				return
			}
			log.Error().Err(err).Str("slug", slug).Msg("link lookup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if link.PasswordProtected {
			// Protected targets never enter the cache and never leak via a
			// bare redirect; the frontend collects the password first.
			http.Redirect(w, r, s.config.GetFrontendURL()+"/protected/"+slug, http.StatusFound)
			return
		}

		go func(slug, target string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.store.Set(ctx, redirectKeyPrefix+slug, target, redirectCacheTTL); err != nil {
				log.Warn().Err(err).Str("slug", slug).Msg("redirect cache fill failed")
			}
		}(slug, link.TargetURL)

		http.Redirect(w, r, link.TargetURL, http.StatusFound)
	}
}

// ResolveSlugHandler exchanges a password for the target of a protected link.
func (s *Server) ResolveSlugHandler() http.HandlerFunc {
	type resolveRequest struct {
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("slug")

		var req resolveRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		link, err := s.links.GetBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, links.ErrNotFound) {
				writeError(w, http.StatusNotFound, "link not found")
				return
			}
			log.Error().Err(err).Str("slug", slug).Msg("link lookup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if link.PasswordProtected {
			ok, err := auth.VerifyPassword(link.PasswordHash, req.Password)
			if err != nil {
				log.Error().Err(err).Msg("password verification failed")
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !ok {
				writeError(w, http.StatusUnauthorized, "incorrect password")
				return
			}
		}

		writeJSON(w, http.StatusOK, map[string]string{"targetUrl": link.TargetURL})
	}
}

func (s *Server) UpdateSlugHandler() http.HandlerFunc {
	type updateSlugRequest struct {
		ID      string `json:"id"`
		NewSlug string `json:"newSlug"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req updateSlugRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !slugPattern.MatchString(req.NewSlug) || req.NewSlug == "api" {
			writeError(w, http.StatusBadRequest, "invalid slug")
			return
		}

		// Fetch first for the old slug; the rename itself checks ownership
		// in the same statement, so a non-owner always lands on zero rows.
		link, err := s.links.GetByID(r.Context(), req.ID)
		if err != nil {
			if errors.Is(err, links.ErrNotFound) {
				writeError(w, http.StatusNotFound, "link not found")
				return
			}
			log.Error().Err(err).Msg("link lookup failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		rows, err := s.links.UpdateSlug(r.Context(), req.ID, session.UserID, req.NewSlug)
		if err != nil {
			if errors.Is(err, links.ErrDuplicateSlug) {
				writeError(w, http.StatusConflict, "slug already taken")
				return
			}
			log.Error().Err(err).Msg("slug update failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if rows == 0 {
			writeError(w, http.StatusNotFound, "link not found")
			return
		}

		// Drop the stale cache entry; the next redirect repopulates it.
		if err := s.store.Del(r.Context(), redirectKeyPrefix+link.Slug); err != nil {
			log.Warn().Err(err).Str("slug", link.Slug).Msg("redirect cache invalidation failed")
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"slug":     req.NewSlug,
			"shortUrl": s.config.GetBaseURL() + "/" + req.NewSlug,
		})
	}
}

func (s *Server) SlugsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		userLinks, err := s.links.ListByUser(r.Context(), session.UserID)
		if err != nil {
			log.Error().Err(err).Msg("link listing failed")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"links": userLinks,
			"count": len(userLinks),
		})
	}
}

// normalizeTargetURL trims the input, defaults the scheme to https, and
// rejects anything that does not parse to an absolute http(s) URL.
func normalizeTargetURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errURLEmpty
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", errURLInvalid
	}

	// A bare trailing slash is noise; deeper paths are kept verbatim.
	if parsed.Path == "/" && parsed.RawQuery == "" && parsed.Fragment == "" {
		parsed.Path = ""
	}
	return parsed.String(), nil
}

var (
	errURLEmpty   = errors.New("url is empty")
	errURLInvalid = errors.New("url is not an absolute http(s) url")
)
