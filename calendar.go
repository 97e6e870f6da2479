package multiplicity

import (
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/labstack/echo/v4"

	"github.com/eringen/multiplicity/markdown"
)

// EventDuration is the assumed length of an evening, used for DTEND.
const EventDuration = 3 * time.Hour

// BuildCalendar returns an iCalendar feed of events.
func BuildCalendar(cfg SiteConfig, events []Event) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + cfg.Organizer + "//" + cfg.Name + "//EN")
	cal.SetName(cfg.Name)
	cal.SetXWRCalName(cfg.Name)
	cal.SetDescription(cfg.Description)

	for _, e := range events {
		ev := cal.AddEvent(e.ID + "@" + hostOf(cfg.URL))
		ev.SetDtStampTime(e.UpdatedAt.UTC())
		ev.SetModifiedAt(e.UpdatedAt.UTC())
		ev.SetStartAt(e.Date.UTC())
		ev.SetEndAt(e.Date.UTC().Add(EventDuration))
		summary := e.Title
		if len(e.Speakers) > 0 {
			summary += ": " + SpeakerNames(e.Speakers)
		}
		ev.SetSummary(summary)
		ev.SetDescription(markdown.PlainText(e.Description))
		ev.SetURL(BuildURL(cfg.URL, "events", e.Slug))
		if e.Location.Address != "" {
			ev.SetLocation(markdown.PlainText(e.Location.Address))
		}
	}
	return cal
}

func (a *App) handleCalendar(c echo.Context) error {
	events, err := a.Cache.Events(c.Request().Context())
	if err != nil {
		return err
	}
	cal := BuildCalendar(a.Config, events)
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="multiplicity.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
