// Package views renders the site's pages. Each page is a templ.Component
// backed by an embedded html/template file.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/multiplicity"
	"github.com/eringen/multiplicity/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"pct": func(f float64) string {
		return fmt.Sprintf("%.4f", f)
	},
	"upload": multiplicity.UploadPath,
	"upper":  strings.ToUpper,
	"inc":    func(i int) int { return i + 1 },
	"aspects": func() []multiplicity.AspectRatio {
		return []multiplicity.AspectRatio{multiplicity.Landscape, multiplicity.Portrait, multiplicity.Square}
	},
	"formDate": func(e multiplicity.Event) string {
		if e.Date.IsZero() {
			return ""
		}
		return e.Date.UTC().Format("2006-01-02T15:04")
	},
	"paragraphs": func(ps []string) string {
		return strings.Join(ps, "\n\n")
	},
	"errorText": func(heading, text string) map[string]string {
		return map[string]string{"Heading": heading, "Text": text}
	},
}

var pages = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

// Funcs returns the ViewFuncs wiring every page of the site.
func Funcs() multiplicity.ViewFuncs {
	return multiplicity.ViewFuncs{
		Home:           Home,
		Event:          Event,
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		AdminEventForm: AdminEventForm,
		AdminSettings:  AdminSettings,
		AdminImages:    AdminImages,
		NotFound:       NotFound,
		ServerError:    ServerError,
	}
}

// Home renders the landing page.
func Home(content multiplicity.HomeContent, cfg multiplicity.SiteConfig) templ.Component {
	meta := multiplicity.PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         multiplicity.BuildURL(cfg.URL),
		OGType:      "website",
	}
	if len(content.Settings.HeroImages) > 0 {
		meta.Image = content.Settings.HeroImages[0].Src
	}
	data := HomePage{
		Page:      newPage(cfg, content.Settings, meta, multiplicity.WebsiteJsonLD(cfg)),
		Hero:      newHero(content.Settings.HeroImages),
		About:     newAbout(content.Settings.AboutParagraphs),
		Past:      newPastCards(content.PastEvents),
		PastCount: len(content.PastEvents),
	}
	if content.NextEvent != nil {
		v := newEventView(*content.NextEvent)
		data.NextEvent = &v
	}
	return component("home", data)
}

// Event renders a single event page.
func Event(e multiplicity.Event, settings multiplicity.SiteSettings, cfg multiplicity.SiteConfig) templ.Component {
	meta := multiplicity.PageMeta{
		Title:       e.Title + " | " + cfg.Name,
		Description: markdown.Excerpt(e.Description, 160),
		URL:         multiplicity.BuildURL(cfg.URL, "events", e.Slug),
		OGType:      "event",
	}
	if len(e.Images) > 0 {
		meta.Image = e.Images[0].Src
	}
	return component("event", EventPage{
		Page:  newPage(cfg, settings, meta, multiplicity.EventJsonLD(e, cfg)),
		Event: newEventView(e),
	})
}

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return component("notfound", nil)
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return component("servererror", nil)
}
