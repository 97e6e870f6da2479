package multiplicity

import (
	"fmt"
	"time"
)

// EventStatus is the lifecycle state of an event. Events move from upcoming
// to past by editorial action only.
type EventStatus string

const (
	StatusUpcoming EventStatus = "upcoming"
	StatusPast     EventStatus = "past"
)

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	return s == StatusUpcoming || s == StatusPast
}

// AspectRatio is the display shape of an event image.
type AspectRatio string

const (
	Portrait  AspectRatio = "portrait"
	Landscape AspectRatio = "landscape"
	Square    AspectRatio = "square"
)

// Normalize returns r, or Landscape when r is empty or unknown.
func (r AspectRatio) Normalize() AspectRatio {
	switch r {
	case Portrait, Landscape, Square:
		return r
	}
	return Landscape
}

// CSSClass returns the aspect-ratio utility class for r.
func (r AspectRatio) CSSClass() string {
	switch r.Normalize() {
	case Portrait:
		return "aspect-[3/4]"
	case Square:
		return "aspect-square"
	}
	return "aspect-[4/3]"
}

// AspectFor derives the aspect ratio hint of an image from its dimensions.
// Images within 10% of square are Square.
func AspectFor(width, height int) AspectRatio {
	if width <= 0 || height <= 0 {
		return Landscape
	}
	ratio := float64(width) / float64(height)
	switch {
	case ratio > 1.1:
		return Landscape
	case ratio < 0.9:
		return Portrait
	}
	return Square
}

// Media is a referenced image.
type Media struct {
	Src string `yaml:"src"`
	Alt string `yaml:"alt"`
}

// EventImage is an image in an event gallery.
type EventImage struct {
	Src         string      `yaml:"src"`
	Alt         string      `yaml:"alt"`
	AspectRatio AspectRatio `yaml:"aspectRatio"`
}

// Speaker appears in an event line-up. Bio and Socials are rich text.
type Speaker struct {
	Names      string `yaml:"names"`
	StudioName string `yaml:"studioName"`
	Bio        string `yaml:"bio"`
	Socials    string `yaml:"socials"`
	Image      Media  `yaml:"image"`
}

// Sponsor is a logo shown under an event.
type Sponsor struct {
	Image Media `yaml:"image"`
}

// Location is where an event takes place.
type Location struct {
	Address     string `yaml:"address"`
	AddressLink string `yaml:"addressLink"`
}

// IsZero reports whether no location was given.
func (l Location) IsZero() bool {
	return l.Address == "" && l.AddressLink == ""
}

// Event is one edition of the series. Description and Host are rich text.
type Event struct {
	ID          string
	Slug        string
	Title       string
	Date        time.Time
	Status      EventStatus
	TicketURL   string
	Host        string
	Location    Location
	Description string
	Images      []EventImage
	Speakers    []Speaker
	Sponsors    []Sponsor
	UpdatedAt   time.Time
}

// Link returns the site-relative path of the event page.
func (e Event) Link() string {
	return "/events/" + e.Slug + "/"
}

// ValidationError reports invalid event input. Its message is shown to
// editors as is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Validate checks required fields.
func (e Event) Validate() error {
	switch {
	case e.Title == "":
		return invalid("Title is required.")
	case e.Date.IsZero():
		return invalid("Date is required.")
	case !e.Status.Valid():
		return invalid("Unknown status %q.", e.Status)
	case e.Description == "":
		return invalid("Description is required.")
	}
	for i, sp := range e.Speakers {
		if sp.Names == "" {
			return invalid("Speaker %d needs a name.", i+1)
		}
	}
	return nil
}

// Social holds the series' social profile links.
type Social struct {
	Instagram string `json:"instagram" yaml:"instagram"`
	LinkedIn  string `json:"linkedin" yaml:"linkedin"`
}

// Footer holds the contact shown in the footer.
type Footer struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

const (
	DefaultFooterName  = "Sam"
	DefaultFooterEmail = "sam.williams@foilco.com"
)

// SiteSettings is the singleton content shared by every page.
type SiteSettings struct {
	HeroImages      []Media  `json:"heroImages" yaml:"heroImages"`
	AboutParagraphs []string `json:"aboutParagraphs" yaml:"aboutParagraphs"`
	Social          Social   `json:"social" yaml:"social"`
	Footer          Footer   `json:"footer" yaml:"footer"`
}

// WithDefaults fills the footer contact when unset.
func (s SiteSettings) WithDefaults() SiteSettings {
	if s.Footer.Name == "" {
		s.Footer.Name = DefaultFooterName
	}
	if s.Footer.Email == "" {
		s.Footer.Email = DefaultFooterEmail
	}
	return s
}

// SortOrder orders events by date.
type SortOrder int

const (
	DateAsc SortOrder = iota
	DateDesc
)

// EventQuery selects events by status, ordered by date. A zero Limit means
// no limit; an empty Status matches every event.
type EventQuery struct {
	Status EventStatus
	Sort   SortOrder
	Limit  int
}

// Image is an uploaded media file.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// Aspect returns the aspect-ratio hint for the image.
func (i Image) Aspect() AspectRatio {
	return AspectFor(i.Width, i.Height)
}

// HomeContent is everything the home page renders.
type HomeContent struct {
	Settings   SiteSettings
	NextEvent  *Event
	PastEvents []Event
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "event"
	Image       string
}
