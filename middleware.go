package multiplicity

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// contentSecurityPolicy allows only same-origin scripts; site.js reads its
// tuning from a JSON data block rather than inline code.
const contentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' https: data:; font-src 'self'; connect-src 'self'; frame-ancestors 'none'"

func (a *App) setupMiddleware() {
	e := a.Echo

	// Behind a reverse proxy on the same host or private network.
	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())
	e.Use(
		requestLogger(),
		middleware.Recover(),
		compress(),
		securityHeaders(),
		session.Middleware(a.newSessionStore()),
		a.csrf(),
		canonicalSlash(),
		cacheControl,
	)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	})
}

// compress gzips pages and feeds. Uploaded images and assets are served
// as-is.
func compress() echo.MiddlewareFunc {
	return middleware.GzipWithConfig(middleware.GzipConfig{
		Level:   5,
		Skipper: func(c echo.Context) bool { return isAssetPath(c.Request().URL.Path) },
	})
}

func securityHeaders() echo.MiddlewareFunc {
	return middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
	})
}

// csrf protects the admin forms. The subscribe API carries no session and
// is rate limited instead.
func (a *App) csrf() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		Skipper:        func(c echo.Context) bool { return isAPIPath(c.Request().URL.Path) },
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	})
}

// canonicalSlash redirects page URLs to their trailing-slash form. Files,
// feeds, the API and the /events anchor redirect keep their exact path.
func canonicalSlash() echo.MiddlewareFunc {
	return middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasPrefix(path, "/public") || isAPIPath(path) ||
				isFeedPath(path) || path == "/favicon.svg" || path == "/events"
		},
	})
}

// cachePolicies are checked in order; the first match sets Cache-Control.
var cachePolicies = []struct {
	match func(path string) bool
	value string
}{
	{isAssetPath, "public, max-age=31536000, immutable"},
	{isFeedPath, "public, max-age=3600"},
	{isPrivatePath, "no-store"},
	{func(string) bool { return true }, "public, max-age=300"},
}

func cacheControl(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		for _, p := range cachePolicies {
			if p.match(path) {
				c.Response().Header().Set("Cache-Control", p.value)
				break
			}
		}
		return next(c)
	}
}

// rateLimitJSON rejects callers over l's budget with a JSON 429.
func rateLimitJSON(l *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, errorResponse{MsgTooManyRequests})
			}
			return next(c)
		}
	}
}

func isAssetPath(path string) bool { return strings.HasPrefix(path, "/public/") }

func isAPIPath(path string) bool { return strings.HasPrefix(path, "/api/") }

func isPrivatePath(path string) bool {
	return strings.HasPrefix(path, "/admin") || isAPIPath(path)
}

func isFeedPath(path string) bool {
	switch path {
	case "/sitemap.xml", "/feed.xml", "/robots.txt", "/events.ics":
		return true
	}
	return false
}
