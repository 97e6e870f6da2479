// Package seed loads demo content into an empty site so a fresh checkout
// has something to show.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/multiplicity"
)

//go:embed demo.yaml
var demo []byte

// ErrNotEmpty is returned by Apply when the store already has events and
// force was not set.
var ErrNotEmpty = errors.New("seed: store already has events")

// Content is a settings document plus a list of events.
type Content struct {
	Settings multiplicity.SiteSettings `yaml:"settings"`
	Events   []Event                   `yaml:"events"`
}

// Event is the YAML form of an event.
type Event struct {
	Slug        string                    `yaml:"slug"`
	Title       string                    `yaml:"title"`
	Date        time.Time                 `yaml:"date"`
	Status      multiplicity.EventStatus  `yaml:"status"`
	TicketURL   string                    `yaml:"ticketUrl"`
	Host        string                    `yaml:"host"`
	Location    multiplicity.Location     `yaml:"location"`
	Description string                    `yaml:"description"`
	Images      []multiplicity.EventImage `yaml:"images"`
	Speakers    []multiplicity.Speaker    `yaml:"speakers"`
	Sponsors    []multiplicity.Sponsor    `yaml:"sponsors"`
}

func (e Event) event() multiplicity.Event {
	return multiplicity.Event{
		Slug:        e.Slug,
		Title:       e.Title,
		Date:        e.Date.UTC(),
		Status:      e.Status,
		TicketURL:   e.TicketURL,
		Host:        e.Host,
		Location:    e.Location,
		Description: e.Description,
		Images:      e.Images,
		Speakers:    e.Speakers,
		Sponsors:    e.Sponsors,
	}
}

// Store is the part of the content store that seeding writes through.
type Store interface {
	CountEvents(ctx context.Context) (int, error)
	GetEvent(ctx context.Context, slug string) (multiplicity.Event, error)
	SaveEvent(ctx context.Context, e multiplicity.Event) (multiplicity.Event, error)
	SaveSettings(ctx context.Context, st multiplicity.SiteSettings) error
}

// Load decodes a content document. Unknown keys are rejected so typos in
// hand-written files surface.
func Load(r io.Reader) (Content, error) {
	var c Content
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Content{}, fmt.Errorf("seed: decode: %w", err)
	}
	for i, e := range c.Events {
		if err := e.event().Validate(); err != nil {
			return Content{}, fmt.Errorf("seed: event %d (%s): %w", i, e.Slug, err)
		}
	}
	return c, nil
}

// Demo returns the embedded demo content.
func Demo() (Content, error) {
	return Load(bytes.NewReader(demo))
}

// Apply writes c to s and returns the number of events saved. An event
// whose slug already exists is updated in place when force is set.
func Apply(ctx context.Context, s Store, c Content, force bool) (int, error) {
	n, err := s.CountEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: count events: %w", err)
	}
	if n > 0 && !force {
		return 0, ErrNotEmpty
	}

	if err := s.SaveSettings(ctx, c.Settings); err != nil {
		return 0, fmt.Errorf("seed: save settings: %w", err)
	}
	saved := 0
	for _, se := range c.Events {
		e := se.event()
		existing, err := s.GetEvent(ctx, e.Slug)
		switch {
		case err == nil:
			e.ID = existing.ID
		case !errors.Is(err, multiplicity.ErrNotFound):
			return saved, fmt.Errorf("seed: look up %s: %w", e.Slug, err)
		}
		if _, err := s.SaveEvent(ctx, e); err != nil {
			return saved, fmt.Errorf("seed: save %s: %w", e.Slug, err)
		}
		saved++
	}
	return saved, nil
}
