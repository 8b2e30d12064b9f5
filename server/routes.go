package server

import "net/http"

func (s *Server) initRoutes() {
	// Public auth endpoints, rate limited per IP
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), s.withRateLimit(s.APIMiddleware())...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.withRateLimit(s.APIMiddleware())...))
	s.RegisterRouteHandler("POST "+RouteCheckEmail, ChainMiddleware(s.CheckEmailHandler(), s.withRateLimit(s.APIMiddleware())...))

	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteVerifyEmail, ChainMiddleware(s.VerifyEmailHandler(), s.APIMiddleware()...))

	// Session-protected endpoints
	s.RegisterRouteHandler("GET "+RouteMe, ChainMiddleware(s.MeHandler(), s.withSession(s.APIMiddleware())...))
	s.RegisterRouteHandler("POST "+RouteResendVerification, ChainMiddleware(s.ResendVerificationHandler(), s.withSession(s.APIMiddleware())...))
	s.RegisterRouteHandler("PATCH "+RouteUpdateSlug, ChainMiddleware(s.UpdateSlugHandler(), s.withSession(s.APIMiddleware())...))
	s.RegisterRouteHandler("GET "+RouteSlugs, ChainMiddleware(s.SlugsHandler(), s.withSession(s.APIMiddleware())...))

	// Link creation authenticates opportunistically inside the handler
	s.RegisterRouteHandler("POST "+RouteShorten, ChainMiddleware(s.ShortenHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteResolveSlug, ChainMiddleware(s.ResolveSlugHandler(), s.APIMiddleware()...))

	// Public redirect, most generic pattern last
	s.RegisterRouteHandler("GET "+RouteRedirectSlug, ChainMiddleware(s.RedirectHandler(), s.APIMiddleware()...))
}

func (s *Server) withRateLimit(mw []func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	return append(mw, s.RateLimitMiddleware())
}

func (s *Server) withSession(mw []func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	return append(mw, s.RequireSession())
}
