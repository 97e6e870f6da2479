package views

import (
	"html/template"
	"strconv"
	"time"

	"github.com/eringen/multiplicity"
	"github.com/eringen/multiplicity/carousel"
	"github.com/eringen/multiplicity/markdown"
	"github.com/eringen/multiplicity/motion"
	"github.com/eringen/multiplicity/overlay"
)

// Page is shared by every public page.
type Page struct {
	Meta     multiplicity.PageMeta
	Site     multiplicity.SiteConfig
	Settings multiplicity.SiteSettings
	Nav      []overlay.NavItem
	Menu     string
	JSONLD   template.JS
	Motion   MotionConfig
	Year     int
}

// MotionConfig carries the reveal bands, spring and carousel falloff to
// the browser runtime so both sides use one set of values.
type MotionConfig struct {
	FadeInEnd      float64      `json:"fadeInEnd"`
	FadeOutStart   float64      `json:"fadeOutStart"`
	ExitScale      float64      `json:"exitScale"`
	RevealEnd      float64      `json:"revealEnd"`
	RevealRise     float64      `json:"revealRise"`
	WordMinOpacity float64      `json:"wordMinOpacity"`
	Spring         SpringConfig `json:"spring"`
	Falloff        [][2]float64 `json:"falloff"`
}

// SpringConfig is motion.Spring with browser field names.
type SpringConfig struct {
	Stiffness float64 `json:"stiffness"`
	Damping   float64 `json:"damping"`
	Mass      float64 `json:"mass"`
	RestDelta float64 `json:"restDelta"`
}

func newMotionConfig() MotionConfig {
	sp := motion.DefaultSpring
	m := MotionConfig{
		FadeInEnd:      motion.FadeInEnd,
		FadeOutStart:   motion.FadeOutStart,
		ExitScale:      motion.ExitScale,
		RevealEnd:      motion.RevealEnd,
		RevealRise:     motion.RevealRise,
		WordMinOpacity: motion.WordMinOpacity,
		Spring:         SpringConfig{sp.Stiffness, sp.Damping, sp.Mass, sp.RestDelta},
	}
	// Distances past 2 share the receded style.
	for d := 0; d <= 2; d++ {
		st := carousel.StyleForDistance(d)
		m.Falloff = append(m.Falloff, [2]float64{st.Scale, st.Opacity})
	}
	return m
}

func newPage(cfg multiplicity.SiteConfig, settings multiplicity.SiteSettings, meta multiplicity.PageMeta, jsonLD string) Page {
	var m overlay.Menu
	return Page{
		Meta:     meta,
		Site:     cfg,
		Settings: settings,
		Nav:      overlay.NavItems,
		Menu:     m.Label(),
		JSONLD:   template.JS(jsonLD),
		Motion:   newMotionConfig(),
		Year:     time.Now().Year(),
	}
}

// Slide is a carousel slide with its initial falloff style.
type Slide struct {
	Src     string
	Alt     string
	Scale   float64
	Opacity float64
}

// Hero is the auto-advancing image carousel under the logo.
type Hero struct {
	Slides     []Slide
	IntervalMS int64
	DurationMS int64
}

func newHero(images []multiplicity.Media) Hero {
	c := carousel.New(len(images))
	h := Hero{
		IntervalMS: carousel.HeroInterval.Milliseconds(),
		DurationMS: carousel.HeroScrollDuration.Milliseconds(),
	}
	for j, img := range images {
		st := c.SlideStyle(j)
		h.Slides = append(h.Slides, Slide{Src: img.Src, Alt: img.Alt, Scale: st.Scale, Opacity: st.Opacity})
	}
	return h
}

// Word is one word of a word-by-word reveal with its progress range.
type Word struct {
	Text       string
	Start, End float64
}

// Block is a paragraph revealed inside a sticky scroll stage.
type Block struct {
	Words      []Word
	Start, End float64
	Variant    string
	IsLast     bool
}

// About is the sticky stage that reveals the about paragraphs and hands
// off to the next event title.
type About struct {
	StageHeight int // vh
	Blocks      []Block
	TitleStart  float64
	TitleEnd    float64
}

// scale maps r from [0,1] into [lo,hi].
func scale(r motion.Range, lo, hi float64) motion.Range {
	return motion.Range{Start: lo + r.Start*(hi-lo), End: lo + r.End*(hi-lo)}
}

func newAbout(paragraphs []string) About {
	n := len(paragraphs)
	handOff := motion.HandOff(n)
	a := About{
		StageHeight: n*150 + 200,
		TitleStart:  handOff,
		TitleEnd:    1,
	}
	for i, r := range motion.Partition(n, motion.DefaultOverlap) {
		br := scale(r, 0, handOff)
		text := markdown.PlainText(paragraphs[i])
		words := markdown.Words(text)
		b := Block{Start: br.Start, End: br.End, Variant: "fade-through", IsLast: i == n-1}
		for k, wr := range motion.WordRanges(len(words), motion.WordLead, motion.WordSpan) {
			sr := scale(wr, br.Start, br.End)
			b.Words = append(b.Words, Word{Text: words[k], Start: sr.Start, End: sr.End})
		}
		a.Blocks = append(a.Blocks, b)
	}
	return a
}

// SpeakerView is a speaker with rendered rich text.
type SpeakerView struct {
	Index   int
	Names   string
	Studio  string
	Bio     template.HTML
	Socials template.HTML
	Image   multiplicity.Media
}

// ImageView is a gallery image with its aspect class.
type ImageView struct {
	Src    string
	Alt    string
	Aspect string
}

// EventView is an event prepared for display.
type EventView struct {
	multiplicity.Event
	Month       string
	Day         string
	Year        string
	DateLine    string
	ISODate     string
	Description template.HTML
	HostHTML    template.HTML
	Address     template.HTML
	Gallery     []ImageView
	Lineup      []SpeakerView
	Zones       overlay.Zones
	DescID      string
}

func richText(md string) template.HTML {
	if md == "" {
		return ""
	}
	return template.HTML(markdown.String(md))
}

func newEventView(e multiplicity.Event) EventView {
	month, day := multiplicity.FormatEventDay(e.Date)
	v := EventView{
		Event:       e,
		Month:       month,
		Day:         day,
		Year:        strconv.Itoa(e.Date.UTC().Year()),
		DateLine:    multiplicity.FormatEventDate(e.Date),
		ISODate:     e.Date.UTC().Format(time.RFC3339),
		Description: richText(e.Description),
		HostHTML:    richText(e.Host),
		Address:     richText(e.Location.Address),
		Zones:       overlay.DefaultZones,
		DescID:      "desc-" + e.Slug,
	}
	for _, img := range e.Images {
		v.Gallery = append(v.Gallery, ImageView{Src: img.Src, Alt: img.Alt, Aspect: img.AspectRatio.CSSClass()})
	}
	for i, s := range e.Speakers {
		v.Lineup = append(v.Lineup, SpeakerView{
			Index:   i,
			Names:   s.Names,
			Studio:  s.StudioName,
			Bio:     richText(s.Bio),
			Socials: richText(s.Socials),
			Image:   s.Image,
		})
	}
	return v
}

// PastCard is a slide in the past events strip.
type PastCard struct {
	Title    string
	Year     string
	Link     string
	Speakers string
	Image    *multiplicity.EventImage
	Aspect   string
}

func newPastCards(events []multiplicity.Event) []PastCard {
	cards := make([]PastCard, 0, len(events))
	for _, e := range events {
		c := PastCard{
			Title:    e.Title,
			Year:     strconv.Itoa(e.Date.UTC().Year()),
			Link:     e.Link(),
			Speakers: multiplicity.SpeakerNames(e.Speakers),
		}
		if len(e.Images) > 0 {
			img := e.Images[0]
			c.Image = &img
			c.Aspect = img.AspectRatio.CSSClass()
		}
		cards = append(cards, c)
	}
	// A looping strip needs a second copy to scroll past its end.
	if len(cards) > 1 {
		cards = carousel.Loop(cards, 2)
	}
	return cards
}

// HomePage is the data of the home template.
type HomePage struct {
	Page
	Hero      Hero
	About     About
	NextEvent *EventView
	Past      []PastCard
	PastCount int
}

// EventPage is the data of the event template.
type EventPage struct {
	Page
	Event EventView
}
