package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteRegister   = "/api/register"
	RouteLogin      = "/api/login"
	RouteLogout     = "/api/logout"
	RouteMe         = "/api/me"
	RouteCheckEmail = "/api/check-email"

	// Email Verification Routes
	RouteVerifyEmail        = "/api/verify"
	RouteResendVerification = "/api/resend-verification"

	// Link Routes
	RouteShorten      = "/api/shorten"
	RouteUpdateSlug   = "/api/update-slug"
	RouteSlugs        = "/api/slugs"
	RouteResolveSlug  = "/api/redirect/{slug}"
	RouteRedirectSlug = "/{slug}"
)
