package multiplicity

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// formDateLayout is the value format of a datetime-local input.
const formDateLayout = "2006-01-02T15:04"

const (
	sessionName = "admin_session"
	authKey     = "authenticated"
)

// newSessionStore keeps the admin session in a signed cookie for 12 hours.
func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// IsAdmin reports whether the request carries an authenticated admin session.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, _ := sess.Values[authKey].(bool)
	return auth
}

// requireAdmin sends visitors without a session back to the login page.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		return next(c)
	}
}

// setAdminSession marks the session authenticated, or clears it when auth
// is false. A cleared session also expires its cookie.
func setAdminSession(c echo.Context, auth bool) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	if auth {
		sess.Values[authKey] = true
	} else {
		delete(sess.Values, authKey)
		sess.Options.MaxAge = -1
	}
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken returns the token the CSRF middleware issued for this request.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c, true); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := setAdminSession(c, false); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminNewEvent(c echo.Context) error {
	return Render(c, a.Views.AdminEventForm(Event{Status: StatusUpcoming}, "", CsrfToken(c)))
}

func (a *App) handleAdminEvent(c echo.Context) error {
	event, err := a.Store.GetEvent(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return Render(c, a.Views.AdminEventForm(event, c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminSave(c echo.Context) error {
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	event, err := ParseEventForm(c.Request().PostForm)
	if err == nil {
		event, err = a.Store.SaveEvent(c.Request().Context(), event)
	}
	if err != nil {
		if isValidationError(err) {
			return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.AdminEventForm(event, err.Error(), CsrfToken(c)))
		}
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/events/"+event.Slug+"/?msg=saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if err := a.Store.DeleteEvent(c.Request().Context(), c.Param("slug")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Redirect(http.StatusSeeOther, "/admin/?msg=not+found")
		}
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=deleted")
}

func (a *App) handleAdminSettings(c echo.Context) error {
	settings, err := a.Store.GetSettings(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminSettings(settings, c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminSaveSettings(c echo.Context) error {
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	settings := ParseSettingsForm(c.Request().PostForm)
	if err := a.Store.SaveSettings(c.Request().Context(), settings); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/settings/?msg=saved")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	events, err := a.Store.ListAllEvents(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(events, msg, CsrfToken(c)))
}

func isValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrSlugTaken)
}

// ParseEventForm builds an Event from the admin form. Repeated fields
// (image_src, speaker_names, ...) are aligned by position; rows with a
// blank first field are dropped.
func ParseEventForm(form url.Values) (Event, error) {
	e := Event{
		ID:          strings.TrimSpace(form.Get("id")),
		Slug:        strings.TrimSpace(form.Get("slug")),
		Title:       strings.TrimSpace(form.Get("title")),
		Status:      EventStatus(form.Get("status")),
		TicketURL:   strings.TrimSpace(form.Get("ticket_url")),
		Host:        strings.TrimSpace(form.Get("host")),
		Description: strings.TrimSpace(form.Get("description")),
		Location: Location{
			Address:     strings.TrimSpace(form.Get("location_address")),
			AddressLink: strings.TrimSpace(form.Get("location_link")),
		},
	}
	if e.Slug == "" {
		e.Slug = Slugify(e.Title)
	} else {
		e.Slug = Slugify(e.Slug)
	}

	for _, row := range formRows(form, "image_src", "image_alt", "image_aspect") {
		e.Images = append(e.Images, EventImage{Src: row[0], Alt: row[1], AspectRatio: AspectRatio(row[2]).Normalize()})
	}
	for _, row := range formRows(form, "speaker_names", "speaker_studio", "speaker_bio", "speaker_socials", "speaker_image_src", "speaker_image_alt") {
		e.Speakers = append(e.Speakers, Speaker{
			Names:      row[0],
			StudioName: row[1],
			Bio:        row[2],
			Socials:    row[3],
			Image:      Media{Src: row[4], Alt: row[5]},
		})
	}
	for _, row := range formRows(form, "sponsor_src", "sponsor_alt") {
		e.Sponsors = append(e.Sponsors, Sponsor{Image: Media{Src: row[0], Alt: row[1]}})
	}

	raw := strings.TrimSpace(form.Get("date"))
	if raw == "" {
		return e, invalid("Date is required.")
	}
	date, err := time.Parse(formDateLayout, raw)
	if err != nil {
		if date, err = time.Parse(time.RFC3339, raw); err != nil {
			return e, invalid("Invalid date %q. Use YYYY-MM-DDTHH:MM.", raw)
		}
	}
	e.Date = date.UTC()
	return e, nil
}

// ParseSettingsForm builds SiteSettings from the admin form. About
// paragraphs are separated by blank lines.
func ParseSettingsForm(form url.Values) SiteSettings {
	var st SiteSettings
	for _, row := range formRows(form, "hero_src", "hero_alt") {
		st.HeroImages = append(st.HeroImages, Media{Src: row[0], Alt: row[1]})
	}
	about := strings.ReplaceAll(form.Get("about"), "\r\n", "\n")
	for _, p := range strings.Split(about, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			st.AboutParagraphs = append(st.AboutParagraphs, p)
		}
	}
	st.Social = Social{
		Instagram: strings.TrimSpace(form.Get("instagram")),
		LinkedIn:  strings.TrimSpace(form.Get("linkedin")),
	}
	st.Footer = Footer{
		Name:  strings.TrimSpace(form.Get("footer_name")),
		Email: strings.TrimSpace(form.Get("footer_email")),
	}
	return st
}

// formRows zips the repeated form fields named by keys into rows, skipping
// rows whose first value is blank.
func formRows(form url.Values, keys ...string) [][]string {
	n := 0
	for _, k := range keys {
		if l := len(form[k]); l > n {
			n = l
		}
	}
	var out [][]string
	for i := 0; i < n; i++ {
		row := make([]string, len(keys))
		for j, k := range keys {
			if vals := form[k]; i < len(vals) {
				row[j] = strings.TrimSpace(vals[i])
			}
		}
		if row[0] == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}
