// Package server is the HTTP surface: JSON API handlers, the public redirect
// route, and the middleware stack wiring them to the auth, users, and links
// services.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/lynkr/lynkr-server/auth"
	"github.com/lynkr/lynkr-server/cache"
	"github.com/lynkr/lynkr-server/internal/config"
	"github.com/lynkr/lynkr-server/links"
	"github.com/lynkr/lynkr-server/mailer"
	"github.com/lynkr/lynkr-server/users"
)

// Dependencies are the external collaborators the server needs. Everything is
// an interface so tests can swap in fakes.
type Dependencies struct {
	Users users.Repo
	Links links.Repo
	Store cache.Store
	Mail  mailer.Mailer
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config

	sessions      *auth.SessionManager
	verifications *auth.VerificationManager
	shortener     *links.Shortener
	users         users.Repo
	links         links.Repo
	store         cache.Store
	mail          mailer.Mailer
}

func New(cfg config.Config, deps Dependencies) (*Server, error) {
	if deps.Users == nil || deps.Links == nil || deps.Store == nil || deps.Mail == nil {
		return nil, errors.New("[Server New] missing dependency")
	}

	sessionManager, err := auth.NewSessionManager(deps.Store)
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create session manager")
	}
	verificationManager, err := auth.NewVerificationManager(deps.Store)
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create verification manager")
	}
	shortener, err := links.NewShortener(deps.Links, cfg.GetGeneratedSlugLength(), cfg.GetMaxSlugAttempts())
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create shortener")
	}

	s := &Server{
		env:           cfg.GetEnv(),
		mux:           http.NewServeMux(),
		config:        cfg,
		sessions:      sessionManager,
		verifications: verificationManager,
		shortener:     shortener,
		users:         deps.Users,
		links:         deps.Links,
		store:         deps.Store,
		mail:          deps.Mail,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
