package multiplicity

import (
	"time"

	"github.com/eringen/multiplicity/mailinglist"
)

// SiteConfig holds all configuration for a Multiplicity site.
type SiteConfig struct {
	Name        string // Site name (default "Multiplicity")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Organizer   string // Organizer name for JSON-LD (default "Foilco")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/multiplicity.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	MailingList mailinglist.Config // Mailchimp credentials; empty disables subscribe

	ContentCacheTTL time.Duration // Content cache TTL (default 5min)
	PastEventsLimit int           // Past events on the home page (default 20)
	SubscribeLimit  int           // Subscribe requests per IP per minute (default 10)
	LoginLimit      int           // Login attempts per IP per minute (default 5)
	ShutdownTimeout time.Duration // Graceful shutdown window (default 10s)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Multiplicity"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = "A recurring evening of talks from the creative industries."
	}
	if c.Organizer == "" {
		c.Organizer = "Foilco"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/multiplicity.db"
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
	if c.PastEventsLimit == 0 {
		c.PastEventsLimit = 20
	}
	if c.SubscribeLimit == 0 {
		c.SubscribeLimit = 10
	}
	if c.LoginLimit == 0 {
		c.LoginLimit = 5
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithSubscriber replaces the mailing list client, for tests and
// alternative providers.
func WithSubscriber(s Subscriber) Option {
	return func(a *App) {
		a.subscriber = s
	}
}

// WithStore uses an already opened store instead of opening DatabasePath.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}
