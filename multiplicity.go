// Package multiplicity is the website of the Multiplicity event series,
// built with Go, Echo, and templ. It serves the home page, event pages and
// feeds, proxies mailing list sign-ups, and includes a small admin for
// editing events and site settings stored in SQLite.
//
// Templates are provided through the ViewFuncs struct; the package owns
// handler logic, middleware, and database operations.
package multiplicity

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/multiplicity/mailinglist"
)

// ViewFuncs holds the templ components the App renders pages with.
type ViewFuncs struct {
	Home           func(content HomeContent, cfg SiteConfig) templ.Component
	Event          func(event Event, settings SiteSettings, cfg SiteConfig) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(events []Event, message string, csrfToken string) templ.Component
	AdminEventForm func(event Event, message string, csrfToken string) templ.Component
	AdminSettings  func(settings SiteSettings, message string, csrfToken string) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central application. It wires together the store, cache,
// handlers, middleware, and templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *ContentCache
	Views  ViewFuncs

	loginLimiter     *RateLimiter
	subscribeLimiter *RateLimiter
	subscriber       Subscriber
	customRoutes     []func(*App)
	staticDir        string
	ownsStore        bool
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.subscriber == nil {
		a.subscriber = mailinglist.New(cfg.MailingList, nil)
	}

	return a
}

// Setup opens the store and registers middleware and routes. Start calls
// it; tests call it directly and drive a.Echo with httptest.
func (a *App) Setup() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("multiplicity: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("multiplicity: SessionSecret is required")
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("multiplicity: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}

	a.Cache = NewContentCache(a.Store, a.Config.ContentCacheTTL, a.Config.PastEventsLimit)
	a.loginLimiter = NewRateLimiter(a.Config.LoginLimit, time.Minute)
	a.subscribeLimiter = NewRateLimiter(a.Config.SubscribeLimit, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones within
// the configured timeout.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.Config.ShutdownTimeout)
	defer cancel()
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded site assets are served under /public/ ahead of the static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	for _, name := range embeddedNames {
		e.GET("/public/"+name, echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	}

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/events.ics", a.handleCalendar)
	e.GET("/", a.handleHome)
	e.GET("/events", handleEventsRedirect)
	e.GET("/events/:slug/", a.handleEvent)
	e.POST("/api/subscribe", a.handleSubscribe, rateLimitJSON(a.subscribeLimiter))

	// Admin routes. The dashboard shows the login form to visitors.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/events/new/", a.handleAdminNewEvent, requireAdmin)
	e.GET("/admin/events/:slug/", a.handleAdminEvent, requireAdmin)
	e.POST("/admin/events/save/", a.handleAdminSave, requireAdmin)
	e.POST("/admin/events/:slug/delete/", a.handleAdminDelete, requireAdmin)
	e.GET("/admin/settings/", a.handleAdminSettings, requireAdmin)
	e.POST("/admin/settings/", a.handleAdminSaveSettings, requireAdmin)
	e.GET("/admin/images/", a.handleImageList, requireAdmin)
	e.POST("/admin/images/upload/", a.handleImageUpload, requireAdmin)
	e.POST("/admin/images/:filename/delete/", a.handleImageDelete, requireAdmin)
}

// Close releases the limiters and, when the app opened it, the store.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.subscribeLimiter != nil {
		a.subscribeLimiter.Stop()
	}
	if a.Store != nil && a.ownsStore {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
