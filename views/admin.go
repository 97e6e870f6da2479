package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/multiplicity"
)

type adminPage struct {
	CSRF    string
	Message string
}

type loginPage struct {
	adminPage
	ShowError bool
}

type dashboardPage struct {
	adminPage
	Events []multiplicity.Event
}

type eventFormPage struct {
	adminPage
	Event multiplicity.Event
	IsNew bool

	// Blank rows appended to each repeated group so editors can add items.
	Images   []multiplicity.EventImage
	Speakers []multiplicity.Speaker
	Sponsors []multiplicity.Sponsor
}

type settingsPage struct {
	adminPage
	Settings multiplicity.SiteSettings
	Hero     []multiplicity.Media
}

type imagesPage struct {
	adminPage
	Images []multiplicity.Image
}

// AdminLogin renders the password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return component("admin_login", loginPage{adminPage: adminPage{CSRF: csrfToken}, ShowError: showError})
}

// AdminDashboard lists every event.
func AdminDashboard(events []multiplicity.Event, message string, csrfToken string) templ.Component {
	return component("admin_dashboard", dashboardPage{adminPage: adminPage{CSRF: csrfToken, Message: message}, Events: events})
}

// AdminEventForm renders the event editor.
func AdminEventForm(e multiplicity.Event, message string, csrfToken string) templ.Component {
	return component("admin_event", eventFormPage{
		adminPage: adminPage{CSRF: csrfToken, Message: message},
		Event:     e,
		IsNew:     e.ID == "",
		Images:    append(append([]multiplicity.EventImage(nil), e.Images...), multiplicity.EventImage{}, multiplicity.EventImage{}),
		Speakers:  append(append([]multiplicity.Speaker(nil), e.Speakers...), multiplicity.Speaker{}),
		Sponsors:  append(append([]multiplicity.Sponsor(nil), e.Sponsors...), multiplicity.Sponsor{}),
	})
}

// AdminSettings renders the site settings editor.
func AdminSettings(settings multiplicity.SiteSettings, message string, csrfToken string) templ.Component {
	return component("admin_settings", settingsPage{
		adminPage: adminPage{CSRF: csrfToken, Message: message},
		Settings:  settings,
		Hero:      append(append([]multiplicity.Media(nil), settings.HeroImages...), multiplicity.Media{}),
	})
}

// AdminImages lists uploads with an upload form.
func AdminImages(images []multiplicity.Image, csrfToken string) templ.Component {
	return component("admin_images", imagesPage{adminPage: adminPage{CSRF: csrfToken}, Images: images})
}
