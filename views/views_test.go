package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/multiplicity"
	"github.com/eringen/multiplicity/motion"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

var testConfig = multiplicity.SiteConfig{
	Name:        "Multiplicity",
	URL:         "https://multiplicity.example",
	Description: "Talks on design and architecture",
	Organizer:   "Foilco",
}

func testEvent() multiplicity.Event {
	return multiplicity.Event{
		ID:        "e1",
		Slug:      "spring-talks",
		Title:     "Spring Talks",
		Date:      time.Date(2025, time.March, 21, 18, 30, 0, 0, time.UTC),
		Status:    multiplicity.StatusUpcoming,
		TicketURL: "https://tickets.example/spring",
		Host:      "Hosted by **Foilco**",
		Location: multiplicity.Location{
			Address:     "1 Canal Street\nLondon",
			AddressLink: "https://maps.example/1",
		},
		Description: "An evening of talks.",
		Images: []multiplicity.EventImage{
			{Src: "/public/uploads/a.jpg", Alt: "Crowd", AspectRatio: multiplicity.Portrait},
		},
		Speakers: []multiplicity.Speaker{
			{Names: "Ada Lane", StudioName: "Lane Studio", Bio: "Builds bridges."},
			{Names: "Ben Ruiz"},
		},
	}
}

func TestHomeRendersNextEventAndAbout(t *testing.T) {
	next := testEvent()
	past := testEvent()
	past.Slug, past.Title, past.Status = "winter-talks", "Winter Talks", multiplicity.StatusPast
	content := multiplicity.HomeContent{
		Settings: multiplicity.SiteSettings{
			HeroImages:      []multiplicity.Media{{Src: "/public/uploads/h1.jpg", Alt: "Hero one"}, {Src: "/public/uploads/h2.jpg", Alt: "Hero two"}},
			AboutParagraphs: []string{"We host talks.", "Everyone is welcome."},
		}.WithDefaults(),
		NextEvent:  &next,
		PastEvents: []multiplicity.Event{past},
	}

	out := render(t, Home(content, testConfig))

	assert.Contains(t, out, "<title>Multiplicity</title>")
	assert.Contains(t, out, "MULTIPLICITY")
	assert.Contains(t, out, "MARCH 21ST 2025")
	assert.Contains(t, out, `id="next-event"`)
	assert.Contains(t, out, `id="past-events"`)
	assert.Contains(t, out, `data-carousel="hero"`)
	assert.Contains(t, out, `<span data-word`)
	assert.Contains(t, out, ">welcome.</span>")
	assert.Contains(t, out, "Winter Talks")
	assert.Contains(t, out, "Ada Lane")
	assert.Contains(t, out, "https://tickets.example/spring")
	assert.Contains(t, out, "sam.williams@foilco.com")
	// On the home page nav links stay in-page anchors.
	assert.Contains(t, out, `href="#past-events"`)
}

func TestHomeWithoutEvents(t *testing.T) {
	out := render(t, Home(multiplicity.HomeContent{Settings: multiplicity.SiteSettings{}.WithDefaults()}, testConfig))

	assert.NotContains(t, out, `id="next-event"`)
	assert.NotContains(t, out, `id="past-events"`)
	assert.NotContains(t, out, "Next Event:")
}

func TestEventPage(t *testing.T) {
	out := render(t, Event(testEvent(), multiplicity.SiteSettings{}.WithDefaults(), testConfig))

	assert.Contains(t, out, "<title>Spring Talks | Multiplicity</title>")
	assert.Contains(t, out, "<strong>Foilco</strong>")
	assert.Contains(t, out, `href="https://maps.example/1"`)
	assert.Contains(t, out, `data-speaker-panel data-index="1"`)
	assert.Contains(t, out, "aspect-[3/4]")
	assert.Contains(t, out, `href="/#past-events"`)
	assert.Contains(t, out, "https://multiplicity.example/events/spring-talks/")
}

func TestPageCarriesMotionConfig(t *testing.T) {
	out := render(t, Event(testEvent(), multiplicity.SiteSettings{}.WithDefaults(), testConfig))

	const open = `<script type="application/json" id="motion-config">`
	i := strings.Index(out, open)
	require.GreaterOrEqual(t, i, 0)
	rest := out[i+len(open):]
	raw := rest[:strings.Index(rest, "</script>")]

	var got MotionConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &got), raw)
	assert.Equal(t, newMotionConfig(), got)
	assert.Equal(t, [][2]float64{{1, 1}, {0.9, 0.8}, {0.65, 0.6}}, got.Falloff)
	assert.Equal(t, motion.FadeOutStart, got.FadeOutStart)
	assert.Equal(t, motion.DefaultSpring.Stiffness, got.Spring.Stiffness)
}

func TestErrorPages(t *testing.T) {
	assert.Contains(t, render(t, NotFound()), "Page not found")
	assert.Contains(t, render(t, ServerError()), "Something went wrong")
}

func TestAdminEventFormAddsBlankRows(t *testing.T) {
	out := render(t, AdminEventForm(testEvent(), "saved", "tok123"))

	assert.Contains(t, out, `name="_csrf" value="tok123"`)
	assert.Contains(t, out, `value="2025-03-21T18:30"`)
	assert.Contains(t, out, "saved")
	// One row per speaker plus one blank.
	assert.Equal(t, 3, bytes.Count([]byte(out), []byte(`name="speaker_names"`)))
	assert.Equal(t, 3, bytes.Count([]byte(out), []byte(`name="image_src"`)))
}

func TestAdminLogin(t *testing.T) {
	assert.NotContains(t, render(t, AdminLogin(false, "t")), "Invalid password")
	assert.Contains(t, render(t, AdminLogin(true, "t")), "Invalid password")
}

func TestNewAbout(t *testing.T) {
	a := newAbout([]string{"one two", "three", "four five six"})

	assert.Equal(t, 650, a.StageHeight)
	require.Len(t, a.Blocks, 3)
	assert.True(t, a.Blocks[2].IsLast)
	assert.False(t, a.Blocks[0].IsLast)
	assert.Len(t, a.Blocks[2].Words, 3)
	assert.InDelta(t, 550.0/650.0, a.TitleStart, 1e-9)
	for _, b := range a.Blocks {
		assert.LessOrEqual(t, b.End, a.TitleStart+1e-9)
		for _, w := range b.Words {
			assert.GreaterOrEqual(t, w.Start, b.Start-1e-9)
			assert.LessOrEqual(t, w.End, b.End+1e-9)
		}
	}
}

func TestNewPastCardsLoops(t *testing.T) {
	one := []multiplicity.Event{testEvent()}
	assert.Len(t, newPastCards(one), 1)

	two := []multiplicity.Event{testEvent(), testEvent()}
	cards := newPastCards(two)
	assert.Len(t, cards, 4)
	assert.Equal(t, "aspect-[3/4]", cards[0].Aspect)
	assert.Equal(t, "Ada Lane, Ben Ruiz", cards[0].Speakers)
}
