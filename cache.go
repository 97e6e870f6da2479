package multiplicity

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when a requested event does not exist.
var ErrNotFound = sql.ErrNoRows

// ContentSource is the read side of the content store.
type ContentSource interface {
	GetSettings(ctx context.Context) (SiteSettings, error)
	FindEvents(ctx context.Context, q EventQuery) ([]Event, error)
}

// Home page queries.
var (
	NextEventQuery = EventQuery{Status: StatusUpcoming, Sort: DateAsc, Limit: 1}
	allEventsQuery = EventQuery{Sort: DateDesc}
)

// PastEventsQuery returns the past-events query capped at limit.
func PastEventsQuery(limit int) EventQuery {
	return EventQuery{Status: StatusPast, Sort: DateDesc, Limit: limit}
}

// ContentCache is an in-memory cache of site content with TTL.
type ContentCache struct {
	mu        sync.RWMutex
	home      *HomeContent
	events    []Event
	fetched   time.Time
	ttl       time.Duration
	pastLimit int
	src       ContentSource
}

// NewContentCache creates a ContentCache backed by src.
func NewContentCache(src ContentSource, ttl time.Duration, pastLimit int) *ContentCache {
	return &ContentCache{src: src, ttl: ttl, pastLimit: pastLimit}
}

func (c *ContentCache) valid() bool {
	return c.home != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.home = nil
	c.events = nil
	c.mu.Unlock()
}

// load runs the home page reads concurrently; any failure fails the load.
func (c *ContentCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	var (
		settings SiteSettings
		next     []Event
		past     []Event
		all      []Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = c.src.GetSettings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		next, err = c.src.FindEvents(gctx, NextEventQuery)
		return err
	})
	g.Go(func() error {
		var err error
		past, err = c.src.FindEvents(gctx, PastEventsQuery(c.pastLimit))
		return err
	})
	g.Go(func() error {
		var err error
		all, err = c.src.FindEvents(gctx, allEventsQuery)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	home := &HomeContent{Settings: settings, PastEvents: past}
	if len(next) > 0 {
		home.NextEvent = &next[0]
	}
	c.home = home
	c.events = all
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached content after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) ensureLoaded(ctx context.Context) (*HomeContent, []Event, error) {
	c.mu.RLock()
	if c.valid() {
		home, events := c.home, c.events
		c.mu.RUnlock()
		return home, events, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.home, c.events, nil
}

// Home returns the home page content.
func (c *ContentCache) Home(ctx context.Context) (HomeContent, error) {
	home, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return HomeContent{}, err
	}
	return *home, nil
}

// Settings returns the cached site settings.
func (c *ContentCache) Settings(ctx context.Context) (SiteSettings, error) {
	home, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return SiteSettings{}, err
	}
	return home.Settings, nil
}

// Events returns every event, newest first.
func (c *ContentCache) Events(ctx context.Context) ([]Event, error) {
	_, events, err := c.ensureLoaded(ctx)
	return events, err
}

// GetEvent returns a single event by slug from the cache.
func (c *ContentCache) GetEvent(ctx context.Context, slug string) (Event, error) {
	_, events, err := c.ensureLoaded(ctx)
	if err != nil {
		return Event{}, err
	}
	for _, e := range events {
		if e.Slug == slug {
			return e, nil
		}
	}
	return Event{}, ErrNotFound
}
